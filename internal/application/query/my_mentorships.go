package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// ══════════════════════════════════════════════════════════════════════════════
// MY MENTORSHIPS QUERY
// Текущий ментор пользователя и его активные подопечные.
// ══════════════════════════════════════════════════════════════════════════════

// GetMyMentorshipsQuery содержит параметры запроса.
type GetMyMentorshipsQuery struct {
	UserID string `validate:"required"`
}

// Validate проверяет корректность параметров запроса.
func (q GetMyMentorshipsQuery) Validate() error {
	return validateStruct("GetMyMentorships", q)
}

// MentorshipDTO - менторство с точки зрения одного участника.
type MentorshipDTO struct {
	MentorshipID       string    `json:"mentorship_id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	CompatibilityScore float64   `json:"compatibility_score"`
	MatchedAt          time.Time `json:"matched_at"`
}

// MyMentorshipsDTO - результат запроса.
type MyMentorshipsDTO struct {
	// Mentor - nil, если ментора нет.
	Mentor  *MentorshipDTO  `json:"mentor"`
	Mentees []MentorshipDTO `json:"mentees"`
}

// GetMyMentorshipsHandler обрабатывает GetMyMentorshipsQuery.
type GetMyMentorshipsHandler struct {
	directory *matching.Directory
}

// NewGetMyMentorshipsHandler создаёт обработчик.
func NewGetMyMentorshipsHandler(directory *matching.Directory) *GetMyMentorshipsHandler {
	return &GetMyMentorshipsHandler{directory: directory}
}

// Handle выполняет запрос.
func (h *GetMyMentorshipsHandler) Handle(ctx context.Context, q GetMyMentorshipsQuery) (*MyMentorshipsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_my_mentorships: %w", err)
	}
	id := mentorship.UserID(q.UserID)

	mentor, err := h.directory.MyMentor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get_my_mentorships: %w", err)
	}
	mentees, err := h.directory.MyMentees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get_my_mentorships: %w", err)
	}

	out := &MyMentorshipsDTO{Mentees: make([]MentorshipDTO, 0, len(mentees))}
	if mentor != nil {
		dto := toMentorshipDTO(*mentor)
		out.Mentor = &dto
	}
	for _, v := range mentees {
		out.Mentees = append(out.Mentees, toMentorshipDTO(v))
	}
	return out, nil
}

func toMentorshipDTO(v matching.MentorshipView) MentorshipDTO {
	return MentorshipDTO{
		MentorshipID:       v.MentorshipID,
		UserID:             v.CounterpartID.String(),
		FullName:           v.CounterpartName,
		CompatibilityScore: v.CompatibilityScore,
		MatchedAt:          v.MatchedAt,
	}
}
