package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for Mapping entities
// and their click events. The short-code unique index in the store is
// the authoritative uniqueness guard; Create surfaces a violation as a
// Conflict so the caller can retry with a fresh code.
type Repository interface {
	Create(ctx context.Context, mapping Mapping) (Mapping, error)
	GetByCode(ctx context.Context, code string) (Mapping, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]Mapping, error)

	// ResolveAndRecord increments the mapping's click counter and appends
	// a click event in one transaction. Both writes commit or neither does.
	ResolveAndRecord(ctx context.Context, code string, clickAt time.Time) (Mapping, error)
}
