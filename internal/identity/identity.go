// Package identity defines the boundary to the external identity provider.
// The core only ever handles an opaque Identity; registration and credential
// verification live outside this service.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is an opaque handle for an authenticated owner.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// Provider resolves caller credentials to an Identity and exposes
// display-name lookup. Implementations should be safe for concurrent use.
type Provider interface {
	ResolveIdentity(ctx context.Context, credentials string) (Identity, error)
	DisplayName(ctx context.Context, id Identity) (string, error)
}
