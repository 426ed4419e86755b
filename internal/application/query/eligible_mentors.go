package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST ELIGIBLE MENTORS QUERY
// Менторы, которые могут взять ещё одного подопечного прямо сейчас.
// ══════════════════════════════════════════════════════════════════════════════

// ListEligibleMentorsQuery содержит параметры запроса.
type ListEligibleMentorsQuery struct {
	// Limit - максимум записей (0 = все).
	Limit int
}

// MentorDTO - ментор со свободными местами.
type MentorDTO struct {
	UserID            string `json:"user_id"`
	FullName          string `json:"full_name"`
	University        string `json:"university,omitempty"`
	Seniority         int    `json:"seniority"`
	ActiveMenteeCount int    `json:"active_mentee_count"`
	AvailableSlots    int    `json:"available_slots"`
}

// ListEligibleMentorsHandler обрабатывает ListEligibleMentorsQuery.
type ListEligibleMentorsHandler struct {
	directory *matching.Directory
}

// NewListEligibleMentorsHandler создаёт обработчик.
func NewListEligibleMentorsHandler(directory *matching.Directory) *ListEligibleMentorsHandler {
	return &ListEligibleMentorsHandler{directory: directory}
}

// Handle выполняет запрос.
func (h *ListEligibleMentorsHandler) Handle(ctx context.Context, q ListEligibleMentorsQuery) ([]MentorDTO, error) {
	mentors, err := h.directory.ListEligibleMentors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_eligible_mentors: %w", err)
	}
	if q.Limit > 0 && len(mentors) > q.Limit {
		mentors = mentors[:q.Limit]
	}

	out := make([]MentorDTO, 0, len(mentors))
	for _, m := range mentors {
		out = append(out, MentorDTO{
			UserID:            m.UserID.String(),
			FullName:          m.FullName,
			University:        m.University,
			Seniority:         m.Seniority,
			ActiveMenteeCount: m.ActiveMenteeCount,
			AvailableSlots:    m.AvailableSlots,
		})
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECK ELIGIBILITY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// EligibilityDTO - может ли пользователь быть ментором, и если нет, то почему.
type EligibilityDTO struct {
	UserID   string `json:"user_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CheckEligibilityHandler обрабатывает проверку права быть ментором.
type CheckEligibilityHandler struct {
	checker *matching.EligibilityChecker
}

// NewCheckEligibilityHandler создаёт обработчик.
func NewCheckEligibilityHandler(checker *matching.EligibilityChecker) *CheckEligibilityHandler {
	return &CheckEligibilityHandler{checker: checker}
}

// Handle выполняет запрос.
func (h *CheckEligibilityHandler) Handle(ctx context.Context, userID string) (*EligibilityDTO, error) {
	ok, reason, err := h.checker.IsEligibleMentor(ctx, mentorship.UserID(userID))
	if err != nil {
		return nil, fmt.Errorf("check_eligibility: %w", err)
	}
	return &EligibilityDTO{UserID: userID, Eligible: ok, Reason: reason}, nil
}
