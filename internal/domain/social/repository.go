package social

import (
	"context"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// ConnectionReader reads the friendship graph owned by the platform.
type ConnectionReader interface {
	// ConnectionsOf returns every connection where userID is requester or addressee.
	ConnectionsOf(ctx context.Context, userID mentorship.UserID) ([]Connection, error)
}

// ConnectionWriter records friendship requests. Used by seeding tools.
type ConnectionWriter interface {
	SaveConnection(ctx context.Context, c Connection) error
}
