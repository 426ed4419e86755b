package jobs

import (
	"context"

	"github.com/alem-hub/mentorship-engine/internal/application/command"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// WaitlistExpirer removes stale waitlist entries.
type WaitlistExpirer interface {
	Expire(ctx context.Context) (*command.ExpireWaitlistResult, error)
}

// ExpireWaitlistJob drops waitlist entries older than the configured TTL.
// With no TTL configured each run is a no-op.
type ExpireWaitlistJob struct {
	expirer WaitlistExpirer
	log     *logger.Logger
}

// NewExpireWaitlistJob creates a new expire waitlist job.
func NewExpireWaitlistJob(expirer WaitlistExpirer, log *logger.Logger) *ExpireWaitlistJob {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpireWaitlistJob{
		expirer: expirer,
		log:     log.With(logger.String("job", "expire_waitlist")),
	}
}

func (j *ExpireWaitlistJob) Name() string { return "expire_waitlist" }

func (j *ExpireWaitlistJob) Description() string {
	return "Removes waitlist entries older than the expiry TTL"
}

// Run executes the job.
func (j *ExpireWaitlistJob) Run(ctx context.Context) error {
	res, err := j.expirer.Expire(ctx)
	if err != nil {
		return err
	}
	if res.Removed > 0 {
		j.log.Info("stale waitlist entries removed", logger.Int("removed", res.Removed))
	}
	return nil
}
