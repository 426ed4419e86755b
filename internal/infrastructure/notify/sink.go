// Package notify delivers mentorship notifications by writing them to the
// platform notification feed.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/notification"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// FeedSink implements mentorship.NotificationSink on a notification.Repository.
type FeedSink struct {
	repo notification.Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewFeedSink creates a sink.
func NewFeedSink(repo notification.Repository, log *logger.Logger) *FeedSink {
	if log == nil {
		log = logger.Nop()
	}
	return &FeedSink{
		repo: repo,
		log:  log.With(logger.Component("notify")),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// NotifyNewMentee stores a "new mentee assigned" notification for the mentor.
func (s *FeedSink) NotifyNewMentee(ctx context.Context, mentorID, menteeID mentorship.UserID, menteeName string) error {
	n := notification.NewMenteeAssigned(mentorID.String(), menteeID.String(), menteeName, s.now())
	if err := n.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	s.log.Debug("new mentee notification stored",
		logger.MentorID(mentorID.String()),
		logger.MenteeID(menteeID.String()),
	)
	return nil
}

// LogSink only logs. Used when no database is configured.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log.With(logger.Component("notify"))}
}

// NotifyNewMentee implements mentorship.NotificationSink.
func (s *LogSink) NotifyNewMentee(ctx context.Context, mentorID, menteeID mentorship.UserID, menteeName string) error {
	n := notification.NewMenteeAssigned(mentorID.String(), menteeID.String(), menteeName, time.Now().UTC())
	s.log.Info(n.Title,
		logger.MentorID(mentorID.String()),
		logger.String("content", n.Content),
		logger.String("link", n.Link),
	)
	return nil
}
