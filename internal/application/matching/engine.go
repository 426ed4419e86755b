// Package matching implements the mentor matching and waitlist engine and
// the connection suggestion ranking.
//
// Every operation is synchronous. The engine has no timers: waitlist
// reprocessing and expiry are triggered by the caller.
package matching

import (
	"errors"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// Dependencies wires the engine to its store and collaborators.
type Dependencies struct {
	Store       mentorship.Store
	Profiles    mentorship.ProfileProvider
	Interests   mentorship.InterestSetProvider
	Connections social.ConnectionReader
	Notifier    mentorship.NotificationSink
	IDs         mentorship.IDGenerator
	Policy      mentorship.Policy
	Logger      *logger.Logger
	Clock       func() time.Time
}

func (d *Dependencies) validate() error {
	switch {
	case d.Store == nil:
		return errors.New("matching: store is required")
	case d.Profiles == nil:
		return errors.New("matching: profile provider is required")
	case d.Interests == nil:
		return errors.New("matching: interest provider is required")
	case d.Connections == nil:
		return errors.New("matching: connection reader is required")
	case d.Notifier == nil:
		return errors.New("matching: notification sink is required")
	case d.IDs == nil:
		return errors.New("matching: id generator is required")
	}
	if err := d.Policy.Validate(); err != nil {
		return err
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return nil
}

// Engine bundles the engine components sharing one set of dependencies.
type Engine struct {
	Eligibility *EligibilityChecker
	Finder      *MatchFinder
	Registry    *Registry
	Waitlist    *Waitlist
	Suggestions *SuggestionEngine
	Directory   *Directory
}

// NewEngine validates deps and builds every component.
func NewEngine(deps Dependencies) (*Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	eligibility := NewEligibilityChecker(deps.Store, deps.Policy)
	finder := NewMatchFinder(deps, eligibility)
	registry := NewRegistry(deps)

	return &Engine{
		Eligibility: eligibility,
		Finder:      finder,
		Registry:    registry,
		Waitlist:    NewWaitlist(deps, finder, registry),
		Suggestions: NewSuggestionEngine(deps),
		Directory:   NewDirectory(deps),
	}, nil
}
