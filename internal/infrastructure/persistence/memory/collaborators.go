package memory

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

// ─────────────────────────────────────────────────────────────────────────────
// Profiles
// ─────────────────────────────────────────────────────────────────────────────

// UpsertProfile stores a profile.
func (s *Store) UpsertProfile(ctx context.Context, p *mentorship.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.profiles[p.UserID] = *p
	return nil
}

// GetProfile returns ErrProfileNotFound if absent.
func (s *Store) GetProfile(ctx context.Context, userID mentorship.UserID) (*mentorship.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.profiles[userID]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return &p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Interests
// ─────────────────────────────────────────────────────────────────────────────

// SetInterestName registers a display name for an interest.
func (s *Store) SetInterestName(id mentorship.InterestID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.names[id] = name
}

// SetInterests replaces the interests of a user.
func (s *Store) SetInterests(ctx context.Context, userID mentorship.UserID, ids ...mentorship.InterestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.interests[userID] = mentorship.NewInterestSet(ids...)
	return nil
}

// ReplaceInterests sets the interests of a user by name. Unknown names get
// the next free id.
func (s *Store) ReplaceInterests(ctx context.Context, userID mentorship.UserID, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := make(map[string]mentorship.InterestID, len(s.data.names))
	var maxID mentorship.InterestID
	for id, name := range s.data.names {
		byName[strings.ToLower(name)] = id
		if id > maxID {
			maxID = id
		}
	}

	set := make(mentorship.InterestSet, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			maxID++
			id = maxID
			s.data.names[id] = name
			byName[strings.ToLower(name)] = id
		}
		set[id] = struct{}{}
	}
	s.data.interests[userID] = set
	return nil
}

// GetInterests returns the interests of a user.
func (s *Store) GetInterests(ctx context.Context, userID mentorship.UserID) (mentorship.InterestSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySet(s.data.interests[userID]), nil
}

// GetInterestSets returns the interests of several users.
func (s *Store) GetInterestSets(ctx context.Context, userIDs []mentorship.UserID) (map[mentorship.UserID]mentorship.InterestSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[mentorship.UserID]mentorship.InterestSet, len(userIDs))
	for _, id := range userIDs {
		if set, ok := s.data.interests[id]; ok && set.Len() > 0 {
			out[id] = copySet(set)
		}
	}
	return out, nil
}

// ListInterestSets returns every non-empty interest set.
func (s *Store) ListInterestSets(ctx context.Context) (map[mentorship.UserID]mentorship.InterestSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[mentorship.UserID]mentorship.InterestSet, len(s.data.interests))
	for id, set := range s.data.interests {
		if set.Len() > 0 {
			out[id] = copySet(set)
		}
	}
	return out, nil
}

// InterestNames resolves names. Unknown ids fall back to "#<id>".
func (s *Store) InterestNames(ctx context.Context, ids []mentorship.InterestID) (map[mentorship.InterestID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[mentorship.InterestID]string, len(ids))
	for _, id := range ids {
		if name, ok := s.data.names[id]; ok {
			out[id] = name
		} else {
			out[id] = fmt.Sprintf("#%d", id)
		}
	}
	return out, nil
}

func copySet(in mentorship.InterestSet) mentorship.InterestSet {
	out := make(mentorship.InterestSet, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Connections
// ─────────────────────────────────────────────────────────────────────────────

// SaveConnection records a friendship request, replacing an existing one
// between the same pair in the same direction.
func (s *Store) SaveConnection(ctx context.Context, c social.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.data.conns {
		if existing.RequesterID == c.RequesterID && existing.AddresseeID == c.AddresseeID {
			s.data.conns[i] = c
			return nil
		}
	}
	s.data.conns = append(s.data.conns, c)
	return nil
}

// ConnectionsOf returns the connections involving userID.
func (s *Store) ConnectionsOf(ctx context.Context, userID mentorship.UserID) ([]social.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []social.Connection
	for _, c := range s.data.conns {
		if c.Involves(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Notifications
// ─────────────────────────────────────────────────────────────────────────────

// Notification is a recorded "new mentee" notification.
type Notification struct {
	MentorID   mentorship.UserID
	MenteeID   mentorship.UserID
	MenteeName string
}

// FailNotifications makes NotifyNewMentee return err. Pass nil to reset.
func (s *Store) FailNotifications(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyErr = err
}

// NotifyNewMentee records the notification.
func (s *Store) NotifyNewMentee(ctx context.Context, mentorID, menteeID mentorship.UserID, menteeName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifyErr != nil {
		return s.notifyErr
	}
	s.notifications = append(s.notifications, Notification{MentorID: mentorID, MenteeID: menteeID, MenteeName: menteeName})
	return nil
}

// Notifications returns the recorded notifications.
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// IDs
// ─────────────────────────────────────────────────────────────────────────────

// SequentialIDs generates "ms-1", "ms-2", ... for reproducible tests.
type SequentialIDs struct {
	n atomic.Int64
}

// NewID returns the next id.
func (g *SequentialIDs) NewID() string {
	return fmt.Sprintf("ms-%d", g.n.Add(1))
}
