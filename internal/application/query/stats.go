package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
)

// StatsDTO - сводка по системе менторства.
type StatsDTO struct {
	ActiveMentorships int `json:"active_mentorships"`
	InQueue           int `json:"in_queue"`
	AvailableMentors  int `json:"available_mentors"`
}

// GetStatsHandler возвращает сводку и обновляет gauge очереди.
type GetStatsHandler struct {
	directory *matching.Directory
}

// NewGetStatsHandler создаёт обработчик.
func NewGetStatsHandler(directory *matching.Directory) *GetStatsHandler {
	return &GetStatsHandler{directory: directory}
}

// Handle выполняет запрос.
func (h *GetStatsHandler) Handle(ctx context.Context) (*StatsDTO, error) {
	s, err := h.directory.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_stats: %w", err)
	}
	metrics.SetWaitlistSize(s.InQueue)
	return &StatsDTO{
		ActiveMentorships: s.ActiveMentorships,
		InQueue:           s.InQueue,
		AvailableMentors:  s.AvailableMentors,
	}, nil
}
