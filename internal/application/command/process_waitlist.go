package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// WAITLIST MAINTENANCE COMMANDS
// Triggered by the scheduler or by an operator.
// ══════════════════════════════════════════════════════════════════════════════

// ProcessWaitlistCommand retries matching for the oldest queued mentees.
type ProcessWaitlistCommand struct {
	// Limit is the batch size. Zero means matching.DefaultProcessLimit.
	Limit int `validate:"gte=0,lte=500"`
}

// Validate validates the command.
func (c ProcessWaitlistCommand) Validate() error {
	return validateStruct("ProcessWaitlist", c)
}

// ProcessWaitlistResult reports the batch outcome.
type ProcessWaitlistResult struct {
	Matched   int `json:"matched"`
	Remaining int `json:"remaining"`
}

// WaitlistHandler handles waitlist maintenance commands.
type WaitlistHandler struct {
	waitlist *matching.Waitlist
	log      *logger.Logger
}

// NewWaitlistHandler creates a new WaitlistHandler.
func NewWaitlistHandler(waitlist *matching.Waitlist, log *logger.Logger) *WaitlistHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WaitlistHandler{waitlist: waitlist, log: log}
}

// Process executes the process waitlist command. A partial batch is
// reported together with the error that stopped it.
func (h *WaitlistHandler) Process(ctx context.Context, cmd ProcessWaitlistCommand) (*ProcessWaitlistResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("process_waitlist: %w", err)
	}

	matched, err := h.waitlist.ProcessQueue(ctx, cmd.Limit)
	metrics.RecordQueueMatches(matched)

	result := &ProcessWaitlistResult{Matched: matched}
	if size, sizeErr := h.waitlist.Size(ctx); sizeErr == nil {
		result.Remaining = size
		metrics.SetWaitlistSize(size)
	}

	if err != nil {
		return result, fmt.Errorf("process_waitlist: %w", err)
	}
	return result, nil
}

// ExpireWaitlistResult reports how many entries expired.
type ExpireWaitlistResult struct {
	Removed int `json:"removed"`
}

// Expire removes waitlist entries older than the configured TTL.
func (h *WaitlistHandler) Expire(ctx context.Context) (*ExpireWaitlistResult, error) {
	removed, err := h.waitlist.ExpireStale(ctx)
	if err != nil {
		return nil, fmt.Errorf("expire_waitlist: %w", err)
	}
	metrics.RecordExpired(removed)

	if size, err := h.waitlist.Size(ctx); err == nil {
		metrics.SetWaitlistSize(size)
	} else {
		h.log.Warn("failed to read waitlist size", logger.Err(err))
	}
	return &ExpireWaitlistResult{Removed: removed}, nil
}
