package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECT USERS COMMAND
// Records a friendship request or its answer. Suggestions hide both sides
// of pending and accepted requests.
// ══════════════════════════════════════════════════════════════════════════════

// ConnectUsersCommand contains the data to record a connection.
type ConnectUsersCommand struct {
	RequesterID string                  `validate:"required,max=64"`
	AddresseeID string                  `validate:"required,max=64,nefield=RequesterID"`
	Status      social.ConnectionStatus `validate:"required"`
}

// Validate validates the command.
func (c ConnectUsersCommand) Validate() error {
	if err := validateStruct("ConnectUsers", c); err != nil {
		return err
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("invalid connection status: %s", c.Status)
	}
	return nil
}

// ConnectUsersHandler handles the ConnectUsersCommand.
type ConnectUsersHandler struct {
	connections social.ConnectionWriter
}

// NewConnectUsersHandler creates a new ConnectUsersHandler.
func NewConnectUsersHandler(connections social.ConnectionWriter) *ConnectUsersHandler {
	return &ConnectUsersHandler{connections: connections}
}

// Handle executes the connect users command.
func (h *ConnectUsersHandler) Handle(ctx context.Context, cmd ConnectUsersCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("connect_users: %w", err)
	}
	if h.connections == nil {
		return errors.New("connect_users: connection writer is not configured")
	}

	err := h.connections.SaveConnection(ctx, social.Connection{
		RequesterID: mentorship.UserID(cmd.RequesterID),
		AddresseeID: mentorship.UserID(cmd.AddresseeID),
		Status:      cmd.Status,
	})
	if err != nil {
		return fmt.Errorf("connect_users: %w", err)
	}
	return nil
}
