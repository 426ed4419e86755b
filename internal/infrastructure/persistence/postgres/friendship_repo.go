package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

// FriendshipRepository implements social.ConnectionReader and
// social.ConnectionWriter on the friendships table.
type FriendshipRepository struct {
	conn *Connection
}

// NewFriendshipRepository creates a repository.
func NewFriendshipRepository(conn *Connection) *FriendshipRepository {
	return &FriendshipRepository{conn: conn}
}

// ConnectionsOf implements social.ConnectionReader.
func (r *FriendshipRepository) ConnectionsOf(ctx context.Context, userID mentorship.UserID) ([]social.Connection, error) {
	rows, err := r.conn.Pool().Query(ctx, `
		SELECT requester_id, addressee_id, status
		FROM friendships
		WHERE requester_id = $1 OR addressee_id = $1
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	var out []social.Connection
	for rows.Next() {
		var requester, addressee, status string
		if err := rows.Scan(&requester, &addressee, &status); err != nil {
			return nil, fmt.Errorf("scan friendship: %w", err)
		}
		out = append(out, social.Connection{
			RequesterID: mentorship.UserID(requester),
			AddresseeID: mentorship.UserID(addressee),
			Status:      social.ConnectionStatus(status),
		})
	}
	return out, rows.Err()
}

// SaveConnection implements social.ConnectionWriter.
func (r *FriendshipRepository) SaveConnection(ctx context.Context, c social.Connection) error {
	_, err := r.conn.Pool().Exec(ctx, `
		INSERT INTO friendships (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT friendships_pair_key DO UPDATE SET status = EXCLUDED.status
	`, c.RequesterID.String(), c.AddresseeID.String(), string(c.Status))
	if err != nil {
		return fmt.Errorf("save friendship: %w", err)
	}
	return nil
}
