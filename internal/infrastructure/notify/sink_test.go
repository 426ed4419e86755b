package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alem-hub/mentorship-engine/internal/domain/notification"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

type recordingRepo struct {
	saved []*notification.Notification
	err   error
}

func (r *recordingRepo) Save(_ context.Context, n *notification.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, n)
	return nil
}

func TestFeedSink_StoresNotification(t *testing.T) {
	repo := &recordingRepo{}
	sink := NewFeedSink(repo, nil)

	require.NoError(t, sink.NotifyNewMentee(context.Background(), "mentor", "mentee", "Tim"))
	require.Len(t, repo.saved, 1)

	n := repo.saved[0]
	assert.Equal(t, "mentor", n.RecipientID)
	assert.Equal(t, "Tim was assigned as your mentee", n.Content)
	assert.Equal(t, notification.MenteesLink, n.Link)
}

func TestFeedSink_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	sink := NewFeedSink(&recordingRepo{err: boom}, nil)

	err := sink.NotifyNewMentee(context.Background(), "mentor", "mentee", "Tim")
	assert.ErrorIs(t, err, boom)

	err = sink.NotifyNewMentee(context.Background(), "", "mentee", "Tim")
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewLogSink(logger.NewFromZap(zap.New(core)))

	require.NoError(t, sink.NotifyNewMentee(context.Background(), "mentor", "mentee", ""))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "New mentee assigned", logs.All()[0].Message)
	assert.Equal(t, "mentee was assigned as your mentee", logs.All()[0].ContextMap()["content"])
}
