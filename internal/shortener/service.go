package shortener

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrail/tinytrail/codegen"
	"github.com/tinytrail/tinytrail/internal/errx"
	"github.com/tinytrail/tinytrail/internal/identity"
)

const (
	// MaxCreateAttempts bounds the generate-and-check loop. Ten candidate
	// codes all colliding means the request fails rather than spinning.
	MaxCreateAttempts = 10

	MaxURLLength = 2048
)

// ErrCodeSpaceExhausted reports that every generated candidate code was
// already taken. Callers may retry the whole request later.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique short code after max attempts")

// CreateMappingRequest represents the parameters for creating a mapping.
type CreateMappingRequest struct {
	OriginalURL string
	Owner       *identity.Identity // nil for anonymous
}

// Service defines the business logic for shortening and redirecting.
type Service interface {
	Create(ctx context.Context, req CreateMappingRequest) (MappingView, error)
	ListByOwner(ctx context.Context, owner identity.Identity) ([]MappingView, error)
	Resolve(ctx context.Context, code string) (string, error)
}

type service struct {
	repo        Repository
	codes       codegen.Generator
	names       identity.Provider
	maxAttempts int
	now         func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CodeGenerator codegen.Generator
	MaxAttempts   int              // candidate codes tried per create (default: 10)
	Now           func() time.Time // clock override for tests
}

// NewService creates a new service instance. The identity provider is
// used only to resolve owner display names for views.
func NewService(repo Repository, names identity.Provider, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	codes := config.CodeGenerator
	if codes == nil {
		codes = codegen.NewAlphanumeric()
	}

	attempts := config.MaxAttempts
	if attempts <= 0 {
		attempts = MaxCreateAttempts
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		repo:        repo,
		codes:       codes,
		names:       names,
		maxAttempts: attempts,
		now:         now,
	}
}

// Create generates a unique short code and persists a new mapping with a
// zero click count. The existence check is best effort; the store's
// unique index decides races, surfacing them as conflicts that consume
// an attempt like any other collision.
func (s *service) Create(ctx context.Context, req CreateMappingRequest) (MappingView, error) {
	const op = "shortener.service.Create"

	if err := validateOriginalURL(req.OriginalURL); err != nil {
		return MappingView{}, errx.E(op, errx.Invalid, err)
	}

	var ownerID *uuid.UUID
	if req.Owner != nil {
		id := req.Owner.ID
		ownerID = &id
	}

	for range s.maxAttempts {
		code, err := s.codes.Generate()
		if err != nil {
			return MappingView{}, errx.E(op, errx.Unavailable, err)
		}

		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return MappingView{}, errx.E(op, errx.KindOf(err), err)
		}
		if taken {
			continue
		}

		created, err := s.repo.Create(ctx, Mapping{
			OriginalURL: req.OriginalURL,
			ShortCode:   code,
			OwnerID:     ownerID,
		})
		if err == nil {
			return s.toView(ctx, created, req.Owner)
		}

		// A lost race between check and insert shows up as a conflict;
		// any other error is fatal for this request.
		if errx.KindOf(err) != errx.Conflict {
			return MappingView{}, errx.E(op, errx.KindOf(err), err)
		}
	}

	return MappingView{}, errx.E(op, errx.Unavailable, ErrCodeSpaceExhausted)
}

// ListByOwner returns views of every mapping owned by the given identity,
// newest first.
func (s *service) ListByOwner(ctx context.Context, owner identity.Identity) ([]MappingView, error) {
	const op = "shortener.service.ListByOwner"

	mappings, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	views := make([]MappingView, 0, len(mappings))
	for _, mapping := range mappings {
		view, err := s.toView(ctx, mapping, &owner)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Resolve looks up a mapping by code, advances its click counter by
// exactly one, records the click event, and returns the original URL.
// A second identical request is a legitimate independent click.
func (s *service) Resolve(ctx context.Context, code string) (string, error) {
	const op = "shortener.service.Resolve"

	if code == "" {
		return "", errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	mapping, err := s.repo.ResolveAndRecord(ctx, code, s.now())
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}
	return mapping.OriginalURL, nil
}

func (s *service) toView(ctx context.Context, mapping Mapping, owner *identity.Identity) (MappingView, error) {
	const op = "shortener.service.toView"

	view := MappingView{
		ID:          mapping.ID,
		OriginalURL: mapping.OriginalURL,
		ShortCode:   mapping.ShortCode,
		ClickCount:  mapping.ClickCount,
		CreatedAt:   mapping.CreatedAt,
	}

	if owner == nil || mapping.OwnerID == nil {
		return view, nil
	}

	name, err := s.names.DisplayName(ctx, *owner)
	if err != nil {
		return MappingView{}, errx.E(op, errx.KindOf(err), err)
	}
	view.OwnerName = name

	return view, nil
}

func validateOriginalURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("original url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("original url too long (max 2048 characters)")
	}
	return nil
}
