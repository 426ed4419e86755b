package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

const mentorshipColumns = `id, mentor_id, mentee_id, status, compatibility_score,
	matched_at, completed_at, cancelled_at, cancellation_reason`

// MentorshipRepository implements mentorship.MentorshipRepository.
type MentorshipRepository struct {
	q    Querier
	inTx bool
}

// Insert implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) Insert(ctx context.Context, m *mentorship.Mentorship) error {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return shared.WrapError("mentorship", "Insert", shared.ErrInvalidID, "mentorship id must be a UUID", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO mentorships (id, mentor_id, mentee_id, status, compatibility_score, matched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, m.MentorID.String(), m.MenteeID.String(), string(m.Status), m.CompatibilityScore, m.MatchedAt)
	if err != nil {
		return translateInsertError(err)
	}
	return nil
}

// translateInsertError maps partial unique index violations to domain errors.
func translateInsertError(err error) error {
	if IsUniqueViolation(err) {
		switch ConstraintName(err) {
		case constraintActivePair:
			return shared.ErrAlreadyActiveMentorship
		case constraintActiveMentee:
			return shared.ErrAlreadyHasMentor
		}
	}
	if IsCheckViolation(err) && ConstraintName(err) == "no_self_mentorship" {
		return shared.ErrSelfMentorship
	}
	return fmt.Errorf("insert mentorship: %w", err)
}

// UpdateStatus implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) UpdateStatus(ctx context.Context, m *mentorship.Mentorship) error {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return shared.ErrMentorshipNotFound
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE mentorships
		SET status = $2, completed_at = $3, cancelled_at = $4, cancellation_reason = $5
		WHERE id = $1
	`, id, string(m.Status), m.CompletedAt, m.CancelledAt, m.CancellationReason)
	if err != nil {
		return fmt.Errorf("update mentorship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMentorshipNotFound
	}
	return nil
}

// FindByID implements mentorship.MentorshipRepository. Inside a unit of
// work the row is locked with FOR UPDATE.
func (r *MentorshipRepository) FindByID(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrMentorshipNotFound
	}

	query := `SELECT ` + mentorshipColumns + ` FROM mentorships WHERE id = $1`
	if r.inTx {
		query += ` FOR UPDATE`
	}

	m, err := scanMentorship(r.q.QueryRow(ctx, query, parsed))
	if IsNoRows(err) {
		return nil, shared.ErrMentorshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find mentorship: %w", err)
	}
	return m, nil
}

// FindActiveByMentor implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) FindActiveByMentor(ctx context.Context, mentorID mentorship.UserID) ([]*mentorship.Mentorship, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+mentorshipColumns+`
		FROM mentorships
		WHERE mentor_id = $1 AND status = 'active'
		ORDER BY matched_at, id
	`, mentorID.String())
	if err != nil {
		return nil, fmt.Errorf("find mentorships by mentor: %w", err)
	}
	defer rows.Close()

	var out []*mentorship.Mentorship
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mentorship: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindActiveByMentee implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) FindActiveByMentee(ctx context.Context, menteeID mentorship.UserID) (*mentorship.Mentorship, error) {
	return r.findOne(ctx, `
		SELECT `+mentorshipColumns+`
		FROM mentorships
		WHERE mentee_id = $1 AND status = 'active'
	`, menteeID.String())
}

// FindActive implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) FindActive(ctx context.Context, mentorID, menteeID mentorship.UserID) (*mentorship.Mentorship, error) {
	return r.findOne(ctx, `
		SELECT `+mentorshipColumns+`
		FROM mentorships
		WHERE mentor_id = $1 AND mentee_id = $2 AND status = 'active'
	`, mentorID.String(), menteeID.String())
}

func (r *MentorshipRepository) findOne(ctx context.Context, query string, args ...any) (*mentorship.Mentorship, error) {
	m, err := scanMentorship(r.q.QueryRow(ctx, query, args...))
	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find mentorship: %w", err)
	}
	return m, nil
}

// CountActiveByMentor implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) CountActiveByMentor(ctx context.Context, mentorID mentorship.UserID) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM mentorships WHERE mentor_id = $1 AND status = 'active'
	`, mentorID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count mentorships: %w", err)
	}
	return n, nil
}

// CountActive implements mentorship.MentorshipRepository.
func (r *MentorshipRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM mentorships WHERE status = 'active'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count mentorships: %w", err)
	}
	return n, nil
}

func scanMentorship(row pgx.Row) (*mentorship.Mentorship, error) {
	var (
		m        mentorship.Mentorship
		id       uuid.UUID
		mentorID string
		menteeID string
		status   string
	)
	err := row.Scan(
		&id, &mentorID, &menteeID, &status, &m.CompatibilityScore,
		&m.MatchedAt, &m.CompletedAt, &m.CancelledAt, &m.CancellationReason,
	)
	if err != nil {
		return nil, err
	}
	m.ID = id.String()
	m.MentorID = mentorship.UserID(mentorID)
	m.MenteeID = mentorship.UserID(menteeID)
	m.Status = mentorship.Status(status)
	return &m, nil
}
