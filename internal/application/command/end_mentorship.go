package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// END MENTORSHIP COMMANDS
// Complete or cancel an active mentorship. Either participant may do it.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteMentorshipCommand marks a mentorship as completed.
type CompleteMentorshipCommand struct {
	MentorshipID string `validate:"required,max=64"`
	CallerID     string `validate:"required,max=64"`
}

// Validate validates the command.
func (c CompleteMentorshipCommand) Validate() error {
	return validateStruct("CompleteMentorship", c)
}

// CancelMentorshipCommand cancels a mentorship with an optional reason.
type CancelMentorshipCommand struct {
	MentorshipID string `validate:"required,max=64"`
	CallerID     string `validate:"required,max=64"`
	Reason       string `validate:"max=500"`
}

// Validate validates the command.
func (c CancelMentorshipCommand) Validate() error {
	return validateStruct("CancelMentorship", c)
}

// EndMentorshipResult describes the mentorship after the transition.
type EndMentorshipResult struct {
	MentorshipID string            `json:"mentorship_id"`
	Status       mentorship.Status `json:"status"`
	MentorID     string            `json:"mentor_id"`
	MenteeID     string            `json:"mentee_id"`
}

// EndMentorshipHandler handles both end-of-mentorship commands.
type EndMentorshipHandler struct {
	registry *matching.Registry
}

// NewEndMentorshipHandler creates a new EndMentorshipHandler.
func NewEndMentorshipHandler(registry *matching.Registry) *EndMentorshipHandler {
	return &EndMentorshipHandler{registry: registry}
}

// Complete executes the complete command.
func (h *EndMentorshipHandler) Complete(ctx context.Context, cmd CompleteMentorshipCommand) (*EndMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_mentorship: %w", err)
	}

	m, err := h.registry.CompleteMentorship(ctx, cmd.MentorshipID, mentorship.UserID(cmd.CallerID))
	if err != nil {
		return nil, fmt.Errorf("complete_mentorship: %w", err)
	}
	metrics.RecordEnded(string(m.Status))
	return toEndResult(m), nil
}

// Cancel executes the cancel command.
func (h *EndMentorshipHandler) Cancel(ctx context.Context, cmd CancelMentorshipCommand) (*EndMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("cancel_mentorship: %w", err)
	}

	m, err := h.registry.CancelMentorship(ctx, cmd.MentorshipID, mentorship.UserID(cmd.CallerID), cmd.Reason)
	if err != nil {
		return nil, fmt.Errorf("cancel_mentorship: %w", err)
	}
	metrics.RecordEnded(string(m.Status))
	return toEndResult(m), nil
}

func toEndResult(m *mentorship.Mentorship) *EndMentorshipResult {
	return &EndMentorshipResult{
		MentorshipID: m.ID,
		Status:       m.Status,
		MentorID:     m.MentorID.String(),
		MenteeID:     m.MenteeID.String(),
	}
}
