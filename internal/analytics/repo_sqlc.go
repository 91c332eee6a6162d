package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/tinytrail/tinytrail/internal/db/sqlc"
	"github.com/tinytrail/tinytrail/internal/errx"
)

// querier is an internal interface that abstracts *db.Queries.
type querier interface {
	GetUrlMappingByShortCode(ctx context.Context, shortCode string) (db.UrlMapping, error)
	ListUrlMappingsByUser(ctx context.Context, userID uuid.NullUUID) ([]db.UrlMapping, error)
	ListClickEventsInRange(ctx context.Context, arg db.ListClickEventsInRangeParams) ([]db.ClickEvent, error)
	ListClickEventsForMappingsInRange(ctx context.Context, arg db.ListClickEventsForMappingsInRangeParams) ([]db.ClickEvent, error)
}

type repo struct {
	q querier
}

// NewRepository creates a Repository backed by the shared query layer.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func (r *repo) MappingIDByCode(ctx context.Context, code string) (uuid.UUID, error) {
	const op = "analytics.repo.MappingIDByCode"

	row, err := r.q.GetUrlMappingByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errx.E(op, errx.NotFound, err)
		}
		return uuid.Nil, errx.E(op, errx.Unavailable, err)
	}
	return row.ID, nil
}

func (r *repo) MappingIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error) {
	const op = "analytics.repo.MappingIDsByOwner"

	rows, err := r.q.ListUrlMappingsByUser(ctx, uuid.NullUUID{UUID: owner, Valid: true})
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *repo) ClickTimesInRange(ctx context.Context, mappingID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	const op = "analytics.repo.ClickTimesInRange"

	rows, err := r.q.ListClickEventsInRange(ctx, db.ListClickEventsInRangeParams{
		MappingID: mappingID,
		ClickAt:   pgtype.Timestamptz{Time: start, Valid: true},
		ClickAt_2: pgtype.Timestamptz{Time: end, Valid: true},
	})
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	return clickTimes(op, rows)
}

func (r *repo) ClickTimesForMappingsInRange(ctx context.Context, mappingIDs []uuid.UUID, start, end time.Time) ([]time.Time, error) {
	const op = "analytics.repo.ClickTimesForMappingsInRange"

	rows, err := r.q.ListClickEventsForMappingsInRange(ctx, db.ListClickEventsForMappingsInRangeParams{
		MappingIds: mappingIDs,
		StartAt:    pgtype.Timestamptz{Time: start, Valid: true},
		EndAt:      pgtype.Timestamptz{Time: end, Valid: true},
	})
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}
	return clickTimes(op, rows)
}

func clickTimes(op string, rows []db.ClickEvent) ([]time.Time, error) {
	times := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if !row.ClickAt.Valid {
			return nil, errx.E(op, errx.Internal, errors.New("click_at unexpectedly NULL"))
		}
		times = append(times, row.ClickAt.Time)
	}
	return times, nil
}
