package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST MENTOR COMMAND
// Matches a mentee with the best available mentor or puts them on the waitlist.
// ══════════════════════════════════════════════════════════════════════════════

// RequestMentorCommand contains the data to request a mentor.
type RequestMentorCommand struct {
	// MenteeID is the user asking for a mentor.
	MenteeID string `validate:"required,max=64"`
}

// Validate validates the command.
func (c RequestMentorCommand) Validate() error {
	return validateStruct("RequestMentor", c)
}

// RequestMentorResult contains the outcome of a mentor request.
type RequestMentorResult struct {
	Status             matching.RequestStatus `json:"status"`
	MentorID           string                 `json:"mentor_id,omitempty"`
	MentorshipID       string                 `json:"mentorship_id,omitempty"`
	CompatibilityScore float64                `json:"compatibility_score,omitempty"`
	Position           int                    `json:"position,omitempty"`
	TotalInQueue       int                    `json:"total_in_queue,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RequestMentorHandler handles the RequestMentorCommand.
type RequestMentorHandler struct {
	waitlist *matching.Waitlist
	log      *logger.Logger
}

// NewRequestMentorHandler creates a new RequestMentorHandler.
func NewRequestMentorHandler(waitlist *matching.Waitlist, log *logger.Logger) *RequestMentorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RequestMentorHandler{waitlist: waitlist, log: log.With(logger.Operation("request_mentor"))}
}

// Handle executes the request mentor command.
func (h *RequestMentorHandler) Handle(ctx context.Context, cmd RequestMentorCommand) (*RequestMentorResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("request_mentor: %w", err)
	}

	res, err := h.waitlist.RequestMentor(ctx, mentorship.UserID(cmd.MenteeID))
	if err != nil {
		metrics.RecordRequest("error")
		return nil, fmt.Errorf("request_mentor: %w", err)
	}
	metrics.RecordRequest(string(res.Status))

	out := &RequestMentorResult{
		Status:             res.Status,
		MentorID:           res.MentorID.String(),
		MentorshipID:       res.MentorshipID,
		CompatibilityScore: res.CompatibilityScore,
	}

	switch res.Status {
	case matching.RequestMatched:
		metrics.RecordMatch(metrics.PathDirect, res.CompatibilityScore)
	case matching.RequestQueued:
		if res.Position != nil {
			out.Position = res.Position.Position
			out.TotalInQueue = res.Position.TotalInQueue
		}
	}

	if size, err := h.waitlist.Size(ctx); err == nil {
		metrics.SetWaitlistSize(size)
	} else {
		h.log.Warn("failed to read waitlist size", logger.Err(err))
	}

	h.log.Debug("mentor request handled",
		logger.MenteeID(cmd.MenteeID),
		logger.String("status", string(res.Status)),
	)
	return out, nil
}
