package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/mentorship-engine/internal/application/command"
)

type fakeProcessor struct {
	got      []command.ProcessWaitlistCommand
	result   *command.ProcessWaitlistResult
	err      error
	deadline bool
}

func (f *fakeProcessor) Process(ctx context.Context, cmd command.ProcessWaitlistCommand) (*command.ProcessWaitlistResult, error) {
	f.got = append(f.got, cmd)
	_, f.deadline = ctx.Deadline()
	return f.result, f.err
}

type fakeExpirer struct {
	removed int
	err     error
}

func (f *fakeExpirer) Expire(ctx context.Context) (*command.ExpireWaitlistResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &command.ExpireWaitlistResult{Removed: f.removed}, nil
}

func TestProcessWaitlistJob_Run(t *testing.T) {
	p := &fakeProcessor{result: &command.ProcessWaitlistResult{Matched: 2, Remaining: 5}}
	job := NewProcessWaitlistJob(p, nil, ProcessWaitlistConfig{BatchSize: 25, Timeout: time.Second})

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, "process_waitlist", job.Name())
	assert.Len(t, p.got, 2)
	assert.Equal(t, 25, p.got[0].Limit)
	assert.True(t, p.deadline)
	assert.Equal(t, int64(4), job.TotalMatched())
}

func TestProcessWaitlistJob_PartialBatchCountsAndFails(t *testing.T) {
	boom := errors.New("store down")
	p := &fakeProcessor{result: &command.ProcessWaitlistResult{Matched: 1}, err: boom}
	job := NewProcessWaitlistJob(p, nil, DefaultProcessWaitlistConfig())

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), job.TotalMatched())
	assert.Equal(t, 10, p.got[0].Limit)
}

func TestExpireWaitlistJob_Run(t *testing.T) {
	job := NewExpireWaitlistJob(&fakeExpirer{removed: 3}, nil)
	assert.Equal(t, "expire_waitlist", job.Name())
	assert.NoError(t, job.Run(context.Background()))

	boom := errors.New("timeout")
	failing := NewExpireWaitlistJob(&fakeExpirer{err: boom}, nil)
	assert.ErrorIs(t, failing.Run(context.Background()), boom)
}
