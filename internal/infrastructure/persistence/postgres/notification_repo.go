package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/notification"
)

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a repository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Save inserts n into the notifications table.
func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	_, err := r.conn.Pool().Exec(ctx, `
		INSERT INTO notifications (user_id, type, title, content, link, reference_id, reference_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, n.RecipientID, string(n.Type), n.Title, n.Content, n.Link,
		n.ReferenceID, string(n.ReferenceType), n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
