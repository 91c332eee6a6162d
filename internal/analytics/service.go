package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrail/tinytrail/internal/errx"
)

// DailyClicks is one day's worth of clicks for a mapping, with the date
// normalized to midnight UTC.
type DailyClicks struct {
	Date  time.Time
	Count int64
}

// Service aggregates recorded clicks into daily buckets.
type Service interface {
	// ClicksByCodeAndRange buckets the clicks of one mapping by UTC day
	// over [start, end). An unknown code yields an empty result, not an
	// error: absence of data is a valid analytics answer.
	ClicksByCodeAndRange(ctx context.Context, code string, start, end time.Time) ([]DailyClicks, error)

	// TotalClicksByUserAndRange combines the clicks of every mapping the
	// owner has into per-day totals keyed "2006-01-02". The date bounds
	// are inclusive on both ends.
	TotalClicksByUserAndRange(ctx context.Context, owner uuid.UUID, startDate, endDate time.Time) (map[string]int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new analytics service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ClicksByCodeAndRange(ctx context.Context, code string, start, end time.Time) ([]DailyClicks, error) {
	const op = "analytics.service.ClicksByCodeAndRange"

	if code == "" {
		return nil, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}
	if end.Before(start) {
		return nil, errx.E(op, errx.Invalid, errors.New("end must not precede start"))
	}

	mappingID, err := s.repo.MappingIDByCode(ctx, code)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return []DailyClicks{}, nil
		}
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	clicks, err := s.repo.ClickTimesInRange(ctx, mappingID, start, end)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	buckets := make(map[time.Time]int64)
	for _, clickAt := range clicks {
		buckets[dayOf(clickAt)]++
	}

	days := make([]DailyClicks, 0, len(buckets))
	for date, count := range buckets {
		days = append(days, DailyClicks{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	return days, nil
}

func (s *service) TotalClicksByUserAndRange(ctx context.Context, owner uuid.UUID, startDate, endDate time.Time) (map[string]int64, error) {
	const op = "analytics.service.TotalClicksByUserAndRange"

	if endDate.Before(startDate) {
		return nil, errx.E(op, errx.Invalid, errors.New("endDate must not precede startDate"))
	}

	mappingIDs, err := s.repo.MappingIDsByOwner(ctx, owner)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	totals := make(map[string]int64)
	if len(mappingIDs) == 0 {
		return totals, nil
	}

	// Date bounds are inclusive, so the half-open instant range runs to
	// the midnight after endDate.
	start := dayOf(startDate)
	end := dayOf(endDate).AddDate(0, 0, 1)

	clicks, err := s.repo.ClickTimesForMappingsInRange(ctx, mappingIDs, start, end)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	for _, clickAt := range clicks {
		totals[clickAt.UTC().Format(time.DateOnly)]++
	}
	return totals, nil
}

// dayOf truncates an instant to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
