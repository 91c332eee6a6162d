package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/tinytrail/tinytrail/internal/db/sqlc"
	"github.com/tinytrail/tinytrail/internal/errx"
	"github.com/tinytrail/tinytrail/internal/idgen"
)

// querier is an internal interface that abstracts *db.Queries.
type querier interface {
	CreateUrlMapping(ctx context.Context, arg db.CreateUrlMappingParams) (db.UrlMapping, error)
	GetUrlMappingByShortCode(ctx context.Context, shortCode string) (db.UrlMapping, error)
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
	ListUrlMappingsByUser(ctx context.Context, userID uuid.NullUUID) ([]db.UrlMapping, error)
}

// txBeginner abstracts the connection pool for the transactional
// redirect path.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type repo struct {
	q    querier
	pool txBeginner
	ids  idgen.Generator
}

// RepositoryConfig holds configuration for the repository.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
}

// NewRepository creates a Repository backed by the given pool.
func NewRepository(pool txBeginner, q querier, config *RepositoryConfig) Repository {
	if config == nil {
		config = &RepositoryConfig{}
	}

	// Default: UUID v7 (good for DB locality).
	if config.IDGenerator == nil {
		config.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}

	return &repo{
		q:    q,
		pool: pool,
		ids:  config.IDGenerator,
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func toDomainMapping(x db.UrlMapping) (Mapping, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Mapping{}, err
	}

	var ownerID *uuid.UUID
	if x.UserID.Valid {
		id := x.UserID.UUID
		ownerID = &id
	}

	return Mapping{
		ID:          x.ID,
		OriginalURL: x.OriginalUrl,
		ShortCode:   x.ShortCode,
		ClickCount:  x.ClickCount,
		CreatedAt:   createdAt,
		OwnerID:     ownerID,
	}, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isShortCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) Create(ctx context.Context, mapping Mapping) (Mapping, error) {
	const op = "shortener.repo.Create"

	if mapping.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Mapping{}, errx.E(op, errx.Unavailable, err)
		}
		mapping.ID = id
	}

	var userID uuid.NullUUID
	if mapping.OwnerID != nil {
		userID = uuid.NullUUID{UUID: *mapping.OwnerID, Valid: true}
	}

	row, err := r.q.CreateUrlMapping(ctx, db.CreateUrlMappingParams{
		ID:          mapping.ID,
		OriginalUrl: mapping.OriginalURL,
		ShortCode:   mapping.ShortCode,
		UserID:      userID,
	})
	if err != nil {
		return Mapping{}, mapRepoError(op, err)
	}

	return toDomainMapping(row)
}

func (r *repo) GetByCode(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.repo.GetByCode"

	row, err := r.q.GetUrlMappingByShortCode(ctx, code)
	if err != nil {
		return Mapping{}, mapRepoError(op, err)
	}
	return toDomainMapping(row)
}

func (r *repo) CodeExists(ctx context.Context, code string) (bool, error) {
	const op = "shortener.repo.CodeExists"

	exists, err := r.q.ShortCodeExists(ctx, code)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return exists, nil
}

func (r *repo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]Mapping, error) {
	const op = "shortener.repo.ListByOwner"

	rows, err := r.q.ListUrlMappingsByUser(ctx, uuid.NullUUID{UUID: owner, Valid: true})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	mappings := make([]Mapping, 0, len(rows))
	for _, row := range rows {
		mapping, err := toDomainMapping(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

// ResolveAndRecord runs the counter increment and the click-event append
// in one transaction. The row lock taken by the UPDATE serializes
// concurrent redirects to the same mapping.
func (r *repo) ResolveAndRecord(ctx context.Context, code string, clickAt time.Time) (Mapping, error) {
	const op = "shortener.repo.ResolveAndRecord"

	eventID, err := r.ids.Generate()
	if err != nil {
		return Mapping{}, errx.E(op, errx.Unavailable, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Mapping{}, errx.E(op, errx.Unavailable, err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after a successful commit
	}()

	qtx := db.New(tx)

	row, err := qtx.IncrementClickCount(ctx, code)
	if err != nil {
		return Mapping{}, mapRepoError(op, err)
	}

	_, err = qtx.CreateClickEvent(ctx, db.CreateClickEventParams{
		ID:        eventID,
		MappingID: row.ID,
		ClickAt:   pgtype.Timestamptz{Time: clickAt, Valid: true},
	})
	if err != nil {
		return Mapping{}, mapRepoError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Mapping{}, errx.E(op, errx.Unavailable, err)
	}

	return toDomainMapping(row)
}
