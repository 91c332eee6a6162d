package shortener

import (
	"time"

	"github.com/google/uuid"
)

// Mapping is the persisted association between a short code and an
// original URL. ClickCount only ever moves forward, and only through
// the redirect path.
type Mapping struct {
	ID          uuid.UUID
	OriginalURL string
	ShortCode   string
	ClickCount  int64
	CreatedAt   time.Time
	OwnerID     *uuid.UUID // nil means anonymous
}

// ClickEvent records one successful redirect through a mapping.
// Immutable once written.
type ClickEvent struct {
	ID        uuid.UUID
	MappingID uuid.UUID
	ClickAt   time.Time
}

// MappingView is the read-only projection returned to callers.
type MappingView struct {
	ID          uuid.UUID
	OriginalURL string
	ShortCode   string
	ClickCount  int64
	CreatedAt   time.Time
	OwnerName   string // empty for anonymous mappings
}
