package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// The active count is computed live from mentorships, never cached.
const candidateQuery = `
	SELECT p.user_id, p.seniority, p.university,
	       COUNT(m.id) FILTER (WHERE m.status = 'active') AS active_mentees
	FROM profiles p
	LEFT JOIN mentorships m ON m.mentor_id = p.user_id AND m.status = 'active'
`

// CandidateRepository implements mentorship.CandidateSource.
type CandidateRepository struct {
	q Querier
}

// ListCandidates implements mentorship.CandidateSource.
func (r *CandidateRepository) ListCandidates(ctx context.Context) ([]mentorship.MentorCandidate, error) {
	rows, err := r.q.Query(ctx, candidateQuery+`
		GROUP BY p.user_id, p.seniority, p.university
		ORDER BY p.user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []mentorship.MentorCandidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetCandidate implements mentorship.CandidateSource.
func (r *CandidateRepository) GetCandidate(ctx context.Context, userID mentorship.UserID) (*mentorship.MentorCandidate, error) {
	c, err := scanCandidate(r.q.QueryRow(ctx, candidateQuery+`
		WHERE p.user_id = $1
		GROUP BY p.user_id, p.seniority, p.university
	`, userID.String()))
	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func scanCandidate(row pgx.Row) (*mentorship.MentorCandidate, error) {
	var (
		c         mentorship.MentorCandidate
		userID    string
		seniority *int
	)
	if err := row.Scan(&userID, &seniority, &c.University, &c.ActiveMenteeCount); err != nil {
		return nil, err
	}
	c.UserID = mentorship.UserID(userID)
	c.Seniority = seniority
	return &c, nil
}
