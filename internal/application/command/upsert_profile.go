package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPSERT PROFILE COMMAND
// Writes the profile fields and interests the engine reads. Seniority is
// parsed here, so readers never see the raw text.
// ══════════════════════════════════════════════════════════════════════════════

// UpsertProfileCommand contains a profile write.
type UpsertProfileCommand struct {
	UserID     string `validate:"required,max=64"`
	FullName   string `validate:"max=200"`
	University string `validate:"max=200"`
	// Seniority is free text such as "3", "4th" or "5º".
	Seniority string   `validate:"max=32"`
	Interests []string `validate:"max=50,dive,max=64"`
}

// Validate validates the command.
func (c UpsertProfileCommand) Validate() error {
	return validateStruct("UpsertProfile", c)
}

// UpsertProfileResult reports the stored seniority.
type UpsertProfileResult struct {
	UserID string `json:"user_id"`
	// Seniority is nil when the raw value could not be parsed.
	Seniority *int `json:"seniority"`
	Interests int  `json:"interests"`
}

// UpsertProfileHandler handles the UpsertProfileCommand.
type UpsertProfileHandler struct {
	profiles  mentorship.ProfileWriter
	interests mentorship.InterestWriter
	log       *logger.Logger
}

// NewUpsertProfileHandler creates a new UpsertProfileHandler.
func NewUpsertProfileHandler(profiles mentorship.ProfileWriter, interests mentorship.InterestWriter, log *logger.Logger) *UpsertProfileHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UpsertProfileHandler{profiles: profiles, interests: interests, log: log}
}

// Handle executes the upsert profile command.
func (h *UpsertProfileHandler) Handle(ctx context.Context, cmd UpsertProfileCommand) (*UpsertProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("upsert_profile: %w", err)
	}

	p := mentorship.ProfileUpdate{
		UserID:       mentorship.UserID(cmd.UserID),
		FullName:     cmd.FullName,
		University:   cmd.University,
		SeniorityRaw: cmd.Seniority,
	}.ToProfile()

	if p.Seniority == nil && cmd.Seniority != "" {
		h.log.Warn("unparseable seniority stored as unknown",
			logger.UserID(cmd.UserID),
			logger.String("seniority", cmd.Seniority),
		)
	}

	if err := h.profiles.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert_profile: save profile: %w", err)
	}
	if cmd.Interests != nil {
		if err := h.interests.ReplaceInterests(ctx, p.UserID, cmd.Interests); err != nil {
			return nil, fmt.Errorf("upsert_profile: save interests: %w", err)
		}
	}

	return &UpsertProfileResult{UserID: cmd.UserID, Seniority: p.Seniority, Interests: len(cmd.Interests)}, nil
}
