// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET QUEUE POSITION QUERY
// Позиция пользователя в очереди на ментора.
// ══════════════════════════════════════════════════════════════════════════════

// GetQueuePositionQuery содержит параметры запроса позиции в очереди.
type GetQueuePositionQuery struct {
	UserID string `validate:"required"`
}

// Validate проверяет корректность параметров запроса.
func (q GetQueuePositionQuery) Validate() error {
	return validateStruct("GetQueuePosition", q)
}

// QueuePositionDTO - позиция в очереди.
type QueuePositionDTO struct {
	// Queued - false, если пользователя нет в очереди.
	Queued       bool      `json:"queued"`
	Position     int       `json:"position,omitempty"`
	TotalInQueue int       `json:"total_in_queue"`
	RequestedAt  time.Time `json:"requested_at,omitempty"`
}

// GetQueuePositionHandler обрабатывает GetQueuePositionQuery.
type GetQueuePositionHandler struct {
	waitlist *matching.Waitlist
}

// NewGetQueuePositionHandler создаёт обработчик.
func NewGetQueuePositionHandler(waitlist *matching.Waitlist) *GetQueuePositionHandler {
	return &GetQueuePositionHandler{waitlist: waitlist}
}

// Handle выполняет запрос. Отсутствие в очереди не является ошибкой.
func (h *GetQueuePositionHandler) Handle(ctx context.Context, q GetQueuePositionQuery) (*QueuePositionDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_queue_position: %w", err)
	}

	pos, err := h.waitlist.GetPosition(ctx, mentorship.UserID(q.UserID))
	if errors.Is(err, shared.ErrNotQueued) {
		total, sizeErr := h.waitlist.Size(ctx)
		if sizeErr != nil {
			return nil, fmt.Errorf("get_queue_position: %w", sizeErr)
		}
		return &QueuePositionDTO{Queued: false, TotalInQueue: total}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_queue_position: %w", err)
	}

	return &QueuePositionDTO{
		Queued:       true,
		Position:     pos.Position,
		TotalInQueue: pos.TotalInQueue,
		RequestedAt:  pos.RequestedAt,
	}, nil
}
