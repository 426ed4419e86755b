package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// ProfileRepository reads and writes profiles and interests. It implements
// mentorship.ProfileProvider, ProfileWriter, InterestSetProvider and
// InterestWriter.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a repository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Profiles
// ─────────────────────────────────────────────────────────────────────────────

// UpsertProfile implements mentorship.ProfileWriter.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, p *mentorship.Profile) error {
	_, err := r.conn.Pool().Exec(ctx, `
		INSERT INTO profiles (user_id, full_name, university, seniority, seniority_raw, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			university = EXCLUDED.university,
			seniority = EXCLUDED.seniority,
			seniority_raw = EXCLUDED.seniority_raw,
			updated_at = NOW()
	`, p.UserID.String(), p.FullName, p.University, p.Seniority, p.SeniorityRaw)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile implements mentorship.ProfileProvider.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID mentorship.UserID) (*mentorship.Profile, error) {
	p := &mentorship.Profile{UserID: userID}
	err := r.conn.Pool().QueryRow(ctx, `
		SELECT full_name, university, seniority, seniority_raw FROM profiles WHERE user_id = $1
	`, userID.String()).Scan(&p.FullName, &p.University, &p.Seniority, &p.SeniorityRaw)
	if IsNoRows(err) {
		return nil, shared.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Interests
// ─────────────────────────────────────────────────────────────────────────────

// GetInterests implements mentorship.InterestSetProvider.
func (r *ProfileRepository) GetInterests(ctx context.Context, userID mentorship.UserID) (mentorship.InterestSet, error) {
	sets, err := r.GetInterestSets(ctx, []mentorship.UserID{userID})
	if err != nil {
		return nil, err
	}
	if set, ok := sets[userID]; ok {
		return set, nil
	}
	return mentorship.InterestSet{}, nil
}

// GetInterestSets implements mentorship.InterestSetProvider.
func (r *ProfileRepository) GetInterestSets(ctx context.Context, userIDs []mentorship.UserID) (map[mentorship.UserID]mentorship.InterestSet, error) {
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	rows, err := r.conn.Pool().Query(ctx, `
		SELECT user_id, interest_id FROM user_interests WHERE user_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get interests: %w", err)
	}
	return collectInterestSets(rows)
}

// ListInterestSets implements mentorship.InterestSetProvider.
func (r *ProfileRepository) ListInterestSets(ctx context.Context) (map[mentorship.UserID]mentorship.InterestSet, error) {
	rows, err := r.conn.Pool().Query(ctx, `SELECT user_id, interest_id FROM user_interests`)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	return collectInterestSets(rows)
}

func collectInterestSets(rows pgx.Rows) (map[mentorship.UserID]mentorship.InterestSet, error) {
	defer rows.Close()

	out := make(map[mentorship.UserID]mentorship.InterestSet)
	for rows.Next() {
		var (
			userID     string
			interestID int64
		)
		if err := rows.Scan(&userID, &interestID); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		id := mentorship.UserID(userID)
		if out[id] == nil {
			out[id] = mentorship.InterestSet{}
		}
		out[id][mentorship.InterestID(interestID)] = struct{}{}
	}
	return out, rows.Err()
}

// InterestNames implements mentorship.InterestSetProvider.
func (r *ProfileRepository) InterestNames(ctx context.Context, ids []mentorship.InterestID) (map[mentorship.InterestID]string, error) {
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	rows, err := r.conn.Pool().Query(ctx, `SELECT id, name FROM interests WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, fmt.Errorf("interest names: %w", err)
	}
	defer rows.Close()

	out := make(map[mentorship.InterestID]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan interest name: %w", err)
		}
		out[mentorship.InterestID(id)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = fmt.Sprintf("#%d", id)
		}
	}
	return out, nil
}

// ReplaceInterests implements mentorship.InterestWriter. Names are matched
// case-insensitively; unknown names create new interests.
func (r *ProfileRepository) ReplaceInterests(ctx context.Context, userID mentorship.UserID, names []string) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_interests WHERE user_id = $1`, userID.String()); err != nil {
			return fmt.Errorf("clear interests: %w", err)
		}

		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}

			var id int64
			err := tx.QueryRow(ctx, `
				WITH ins AS (
					INSERT INTO interests (name) VALUES ($1)
					ON CONFLICT ((lower(name))) DO NOTHING
					RETURNING id
				)
				SELECT id FROM ins
				UNION ALL
				SELECT id FROM interests WHERE lower(name) = lower($1)
				LIMIT 1
			`, name).Scan(&id)
			if err != nil {
				return fmt.Errorf("resolve interest %q: %w", name, err)
			}

			if _, err := tx.Exec(ctx, `
				INSERT INTO user_interests (user_id, interest_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, userID.String(), id); err != nil {
				return fmt.Errorf("add interest %q: %w", name, err)
			}
		}
		return nil
	})
}
