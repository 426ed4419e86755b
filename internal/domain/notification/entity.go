// Package notification содержит доменную модель уведомлений платформы.
// Движок менторства создаёт только один тип: "у вас новый подопечный".
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// NotificationType определяет тип уведомления.
type NotificationType string

const (
	// NotificationTypeNewMentee - ментору назначен новый подопечный.
	NotificationTypeNewMentee NotificationType = "new_mentee"
)

// IsValid проверяет, что тип известен.
func (t NotificationType) IsValid() bool {
	return t == NotificationTypeNewMentee
}

// ReferenceType описывает, на какую сущность ссылается уведомление.
type ReferenceType string

const (
	// ReferenceTypeUser - ссылка на пользователя.
	ReferenceTypeUser ReferenceType = "user"
)

// Ссылка на страницу "мои подопечные".
const MenteesLink = "/mentorship/mentees"

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - запись в ленте уведомлений пользователя.
type Notification struct {
	// RecipientID - кому адресовано уведомление.
	RecipientID string

	Type    NotificationType
	Title   string
	Content string
	Link    string

	// ReferenceID и ReferenceType указывают на связанную сущность.
	ReferenceID   string
	ReferenceType ReferenceType

	IsRead    bool
	CreatedAt time.Time
}

// Validate проверяет обязательные поля.
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.RecipientID) == "" {
		return errors.New("notification: recipient is required")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("notification: unknown type %q", n.Type)
	}
	if n.Title == "" || n.Content == "" {
		return errors.New("notification: title and content are required")
	}
	return nil
}

// NewMenteeAssigned строит уведомление ментору о новом подопечном.
// Пустое имя заменяется идентификатором подопечного.
func NewMenteeAssigned(mentorID, menteeID, menteeName string, at time.Time) *Notification {
	name := strings.TrimSpace(menteeName)
	if name == "" {
		name = menteeID
	}
	return &Notification{
		RecipientID:   mentorID,
		Type:          NotificationTypeNewMentee,
		Title:         "New mentee assigned",
		Content:       name + " was assigned as your mentee",
		Link:          MenteesLink,
		ReferenceID:   menteeID,
		ReferenceType: ReferenceTypeUser,
		CreatedAt:     at,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// Repository сохраняет уведомления. Доставку выполняет платформа.
type Repository interface {
	Save(ctx context.Context, n *Notification) error
}
