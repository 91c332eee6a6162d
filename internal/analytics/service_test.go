package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytrail/tinytrail/internal/errx"
)

// mockRepo implements Repository for testing.
type mockRepo struct {
	mappingIDByCodeFunc     func(ctx context.Context, code string) (uuid.UUID, error)
	mappingIDsByOwnerFunc   func(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error)
	clickTimesFunc          func(ctx context.Context, mappingID uuid.UUID, start, end time.Time) ([]time.Time, error)
	clickTimesCombinedFunc  func(ctx context.Context, mappingIDs []uuid.UUID, start, end time.Time) ([]time.Time, error)
	clickTimesCombinedCalls int
}

func (m *mockRepo) MappingIDByCode(ctx context.Context, code string) (uuid.UUID, error) {
	if m.mappingIDByCodeFunc != nil {
		return m.mappingIDByCodeFunc(ctx, code)
	}
	return uuid.Nil, errx.E("analytics.repo.MappingIDByCode", errx.NotFound, errors.New("not found"))
}

func (m *mockRepo) MappingIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error) {
	if m.mappingIDsByOwnerFunc != nil {
		return m.mappingIDsByOwnerFunc(ctx, owner)
	}
	return nil, nil
}

func (m *mockRepo) ClickTimesInRange(ctx context.Context, mappingID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	if m.clickTimesFunc != nil {
		return m.clickTimesFunc(ctx, mappingID, start, end)
	}
	return nil, nil
}

func (m *mockRepo) ClickTimesForMappingsInRange(ctx context.Context, mappingIDs []uuid.UUID, start, end time.Time) ([]time.Time, error) {
	m.clickTimesCombinedCalls++
	if m.clickTimesCombinedFunc != nil {
		return m.clickTimesCombinedFunc(ctx, mappingIDs, start, end)
	}
	return nil, nil
}

func instant(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClicksByCodeAndRange(t *testing.T) {
	ctx := context.Background()
	mappingID := uuid.New()

	t.Run("buckets clicks by UTC day ascending", func(t *testing.T) {
		repo := &mockRepo{
			mappingIDByCodeFunc: func(ctx context.Context, code string) (uuid.UUID, error) {
				return mappingID, nil
			},
			clickTimesFunc: func(ctx context.Context, id uuid.UUID, start, end time.Time) ([]time.Time, error) {
				require.Equal(t, mappingID, id)
				return []time.Time{
					instant("2024-01-02T08:00:00Z"),
					instant("2024-01-01T09:15:00Z"),
					instant("2024-01-01T23:59:59Z"),
					instant("2024-01-01T00:00:00Z"),
				}, nil
			},
		}
		svc := NewService(repo)

		days, err := svc.ClicksByCodeAndRange(ctx, "abcd1234",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.NoError(t, err)

		require.Len(t, days, 2)
		assert.Equal(t, instant("2024-01-01T00:00:00Z"), days[0].Date)
		assert.Equal(t, int64(3), days[0].Count)
		assert.Equal(t, instant("2024-01-02T00:00:00Z"), days[1].Date)
		assert.Equal(t, int64(1), days[1].Count)
	})

	t.Run("normalizes zoned instants to the UTC day", func(t *testing.T) {
		// 23:30 -03:00 on Jan 1 is 02:30 UTC on Jan 2.
		zoned := time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("ART", -3*60*60))

		repo := &mockRepo{
			mappingIDByCodeFunc: func(ctx context.Context, code string) (uuid.UUID, error) {
				return mappingID, nil
			},
			clickTimesFunc: func(ctx context.Context, id uuid.UUID, start, end time.Time) ([]time.Time, error) {
				return []time.Time{zoned}, nil
			},
		}
		svc := NewService(repo)

		days, err := svc.ClicksByCodeAndRange(ctx, "abcd1234",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.NoError(t, err)

		require.Len(t, days, 1)
		assert.Equal(t, instant("2024-01-02T00:00:00Z"), days[0].Date)
	})

	t.Run("unknown code yields an empty result without error", func(t *testing.T) {
		svc := NewService(&mockRepo{})

		days, err := svc.ClicksByCodeAndRange(ctx, "missing1",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.NoError(t, err)
		assert.Empty(t, days)
		assert.NotNil(t, days)
	})

	t.Run("known code without clicks yields an empty result", func(t *testing.T) {
		repo := &mockRepo{
			mappingIDByCodeFunc: func(ctx context.Context, code string) (uuid.UUID, error) {
				return mappingID, nil
			},
		}
		svc := NewService(repo)

		days, err := svc.ClicksByCodeAndRange(ctx, "abcd1234",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.NoError(t, err)
		assert.Empty(t, days)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		svc := NewService(&mockRepo{})

		_, err := svc.ClicksByCodeAndRange(ctx, "",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.Error(t, err)
		assert.Equal(t, errx.Invalid, errx.KindOf(err))
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		svc := NewService(&mockRepo{})

		_, err := svc.ClicksByCodeAndRange(ctx, "abcd1234",
			instant("2024-01-03T00:00:00Z"), instant("2024-01-01T00:00:00Z"))
		require.Error(t, err)
		assert.Equal(t, errx.Invalid, errx.KindOf(err))
	})

	t.Run("propagates storage failure", func(t *testing.T) {
		repo := &mockRepo{
			mappingIDByCodeFunc: func(ctx context.Context, code string) (uuid.UUID, error) {
				return uuid.Nil, errx.E("analytics.repo.MappingIDByCode", errx.Unavailable, errors.New("timeout"))
			},
		}
		svc := NewService(repo)

		_, err := svc.ClicksByCodeAndRange(ctx, "abcd1234",
			instant("2024-01-01T00:00:00Z"), instant("2024-01-03T00:00:00Z"))
		require.Error(t, err)
		assert.Equal(t, errx.Unavailable, errx.KindOf(err))
	})
}

func TestTotalClicksByUserAndRange(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("combines clicks across mappings per day", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()

		repo := &mockRepo{
			mappingIDsByOwnerFunc: func(ctx context.Context, got uuid.UUID) ([]uuid.UUID, error) {
				require.Equal(t, owner, got)
				return []uuid.UUID{first, second}, nil
			},
			clickTimesCombinedFunc: func(ctx context.Context, ids []uuid.UUID, start, end time.Time) ([]time.Time, error) {
				assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)
				// Inclusive date bounds widen to the midnight after endDate.
				assert.Equal(t, instant("2024-01-01T00:00:00Z"), start)
				assert.Equal(t, instant("2024-01-08T00:00:00Z"), end)
				return []time.Time{
					instant("2024-01-01T10:00:00Z"),
					instant("2024-01-01T11:00:00Z"),
					instant("2024-01-03T12:00:00Z"),
				}, nil
			},
		}
		svc := NewService(repo)

		totals, err := svc.TotalClicksByUserAndRange(ctx, owner,
			instant("2024-01-01T00:00:00Z"), instant("2024-01-07T00:00:00Z"))
		require.NoError(t, err)

		assert.Equal(t, map[string]int64{
			"2024-01-01": 2,
			"2024-01-03": 1,
		}, totals)
	})

	t.Run("owner without mappings gets an empty map", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo)

		totals, err := svc.TotalClicksByUserAndRange(ctx, owner,
			instant("2024-01-01T00:00:00Z"), instant("2024-01-07T00:00:00Z"))
		require.NoError(t, err)

		assert.NotNil(t, totals)
		assert.Empty(t, totals)
		assert.Zero(t, repo.clickTimesCombinedCalls, "no event query without mappings")
	})

	t.Run("mappings without clicks get an empty map", func(t *testing.T) {
		repo := &mockRepo{
			mappingIDsByOwnerFunc: func(ctx context.Context, got uuid.UUID) ([]uuid.UUID, error) {
				return []uuid.UUID{uuid.New()}, nil
			},
		}
		svc := NewService(repo)

		totals, err := svc.TotalClicksByUserAndRange(ctx, owner,
			instant("2024-01-01T00:00:00Z"), instant("2024-01-07T00:00:00Z"))
		require.NoError(t, err)
		assert.Empty(t, totals)
	})

	t.Run("rejects inverted date bounds", func(t *testing.T) {
		svc := NewService(&mockRepo{})

		_, err := svc.TotalClicksByUserAndRange(ctx, owner,
			instant("2024-01-07T00:00:00Z"), instant("2024-01-01T00:00:00Z"))
		require.Error(t, err)
		assert.Equal(t, errx.Invalid, errx.KindOf(err))
	})

	t.Run("propagates storage failure", func(t *testing.T) {
		repo := &mockRepo{
			mappingIDsByOwnerFunc: func(ctx context.Context, got uuid.UUID) ([]uuid.UUID, error) {
				return nil, errx.E("analytics.repo.MappingIDsByOwner", errx.Unavailable, errors.New("timeout"))
			},
		}
		svc := NewService(repo)

		_, err := svc.TotalClicksByUserAndRange(ctx, owner,
			instant("2024-01-01T00:00:00Z"), instant("2024-01-07T00:00:00Z"))
		require.Error(t, err)
		assert.Equal(t, errx.Unavailable, errx.KindOf(err))
	})
}
