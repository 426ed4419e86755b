// Package social contains the connection graph between users and the
// "people you may know" suggestion model.
package social

import (
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ConnectionStatus is the state of a friendship request.
type ConnectionStatus string

const (
	// ConnectionStatusPending - request sent, not answered yet.
	ConnectionStatusPending ConnectionStatus = "pending"

	// ConnectionStatusAccepted - users are connected.
	ConnectionStatusAccepted ConnectionStatus = "accepted"

	// ConnectionStatusRejected - request declined.
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// IsValid reports whether the status is known.
func (c ConnectionStatus) IsValid() bool {
	switch c {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusRejected:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

// Connection is a friendship request between two users.
type Connection struct {
	RequesterID mentorship.UserID
	AddresseeID mentorship.UserID
	Status      ConnectionStatus
}

// Involves reports whether userID is one of the two sides.
func (c Connection) Involves(userID mentorship.UserID) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}

// Other returns the side that is not userID.
func (c Connection) Other(userID mentorship.UserID) mentorship.UserID {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// ExclusionSet collects users that must not be suggested to someone.
type ExclusionSet map[mentorship.UserID]struct{}

// Add inserts ids.
func (e ExclusionSet) Add(ids ...mentorship.UserID) {
	for _, id := range ids {
		e[id] = struct{}{}
	}
}

// Contains reports whether id is excluded.
func (e ExclusionSet) Contains(id mentorship.UserID) bool {
	_, ok := e[id]
	return ok
}

// Exclusions builds the set of users hidden from userID's suggestions:
// userID itself, accepted connections and pending requests in either direction.
func Exclusions(userID mentorship.UserID, conns []Connection) ExclusionSet {
	ex := ExclusionSet{}
	ex.Add(userID)
	for _, c := range conns {
		if !c.Involves(userID) {
			continue
		}
		if c.Status == ConnectionStatusAccepted || c.Status == ConnectionStatusPending {
			ex.Add(c.Other(userID))
		}
	}
	return ex
}
