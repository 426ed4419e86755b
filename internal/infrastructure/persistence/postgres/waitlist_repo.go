package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// WaitlistRepository implements mentorship.WaitlistRepository on the
// mentorship_queue table.
type WaitlistRepository struct {
	q Querier
}

// Insert implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) Insert(ctx context.Context, e *mentorship.WaitlistEntry) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO mentorship_queue (user_id, requested_at, priority_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, e.UserID.String(), e.RequestedAt, e.PriorityScore)
	if err != nil {
		return false, fmt.Errorf("insert queue entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Find implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) Find(ctx context.Context, userID mentorship.UserID) (*mentorship.WaitlistEntry, error) {
	e := &mentorship.WaitlistEntry{UserID: userID}
	err := r.q.QueryRow(ctx, `
		SELECT requested_at, priority_score FROM mentorship_queue WHERE user_id = $1
	`, userID.String()).Scan(&e.RequestedAt, &e.PriorityScore)
	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find queue entry: %w", err)
	}
	return e, nil
}

// Delete implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) Delete(ctx context.Context, userID mentorship.UserID) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM mentorship_queue WHERE user_id = $1`, userID.String())
	if err != nil {
		return false, fmt.Errorf("delete queue entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountEarlier implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) CountEarlier(ctx context.Context, requestedAt time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM mentorship_queue WHERE requested_at < $1
	`, requestedAt).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count queue entries: %w", err)
	}
	return n, nil
}

// Count implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM mentorship_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count queue entries: %w", err)
	}
	return n, nil
}

// Oldest implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) Oldest(ctx context.Context, limit int) ([]*mentorship.WaitlistEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT user_id, requested_at, priority_score
		FROM mentorship_queue
		ORDER BY requested_at, user_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	defer rows.Close()

	var out []*mentorship.WaitlistEntry
	for rows.Next() {
		var (
			e      mentorship.WaitlistEntry
			userID string
		)
		if err := rows.Scan(&userID, &e.RequestedAt, &e.PriorityScore); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		e.UserID = mentorship.UserID(userID)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// DeleteRequestedBefore implements mentorship.WaitlistRepository.
func (r *WaitlistRepository) DeleteRequestedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM mentorship_queue WHERE requested_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire queue entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
