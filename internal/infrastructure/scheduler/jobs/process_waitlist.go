// Package jobs contains the scheduled jobs of the mentorship engine.
package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/application/command"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROCESS WAITLIST JOB
// ══════════════════════════════════════════════════════════════════════════════

// WaitlistProcessor retries matching for queued mentees.
type WaitlistProcessor interface {
	Process(ctx context.Context, cmd command.ProcessWaitlistCommand) (*command.ProcessWaitlistResult, error)
}

// ProcessWaitlistConfig contains configuration for the process waitlist job.
type ProcessWaitlistConfig struct {
	// BatchSize is the number of oldest entries examined per run.
	BatchSize int

	// Timeout is the maximum duration of one run.
	Timeout time.Duration
}

// DefaultProcessWaitlistConfig returns sensible defaults.
func DefaultProcessWaitlistConfig() ProcessWaitlistConfig {
	return ProcessWaitlistConfig{
		BatchSize: 10,
		Timeout:   time.Minute,
	}
}

// ProcessWaitlistJob matches queued mentees with mentors that gained capacity.
type ProcessWaitlistJob struct {
	processor WaitlistProcessor
	log       *logger.Logger
	config    ProcessWaitlistConfig

	totalMatched atomic.Int64
}

// NewProcessWaitlistJob creates a new process waitlist job.
func NewProcessWaitlistJob(processor WaitlistProcessor, log *logger.Logger, config ProcessWaitlistConfig) *ProcessWaitlistJob {
	if log == nil {
		log = logger.Nop()
	}
	return &ProcessWaitlistJob{
		processor: processor,
		log:       log.With(logger.String("job", "process_waitlist")),
		config:    config,
	}
}

// Name returns the job name.
func (j *ProcessWaitlistJob) Name() string {
	return "process_waitlist"
}

// Description returns a human-readable description.
func (j *ProcessWaitlistJob) Description() string {
	return "Matches the oldest queued mentees with available mentors"
}

// Run executes one batch.
func (j *ProcessWaitlistJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	res, err := j.processor.Process(ctx, command.ProcessWaitlistCommand{Limit: j.config.BatchSize})
	if res != nil {
		j.totalMatched.Add(int64(res.Matched))
		if res.Matched > 0 {
			j.log.Info("queued mentees matched",
				logger.Int("matched", res.Matched),
				logger.Int("remaining", res.Remaining),
				logger.Int64("total_matched", j.TotalMatched()),
			)
		}
	}
	return err
}

// TotalMatched returns the number of mentorships created since start.
func (j *ProcessWaitlistJob) TotalMatched() int64 {
	return j.totalMatched.Load()
}
