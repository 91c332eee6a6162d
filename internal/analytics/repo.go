package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository provides read access to mappings and their recorded clicks.
type Repository interface {
	// MappingIDByCode resolves a short code to its mapping ID.
	// Unknown codes surface as errx.NotFound.
	MappingIDByCode(ctx context.Context, code string) (uuid.UUID, error)

	// MappingIDsByOwner lists the IDs of every mapping the owner has.
	MappingIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error)

	// ClickTimesInRange returns the click instants recorded for one
	// mapping with click_at in [start, end), ascending.
	ClickTimesInRange(ctx context.Context, mappingID uuid.UUID, start, end time.Time) ([]time.Time, error)

	// ClickTimesForMappingsInRange is ClickTimesInRange over a set of
	// mappings at once.
	ClickTimesForMappingsInRange(ctx context.Context, mappingIDs []uuid.UUID, start, end time.Time) ([]time.Time, error)
}
