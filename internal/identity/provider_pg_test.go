package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/tinytrail/tinytrail/internal/db/sqlc"
	"github.com/tinytrail/tinytrail/internal/errx"
)

type mockQuerier struct {
	getUserByApiKeyFunc func(ctx context.Context, apiKey string) (db.User, error)
	getUserByIDFunc     func(ctx context.Context, id uuid.UUID) (db.User, error)
}

func (m *mockQuerier) GetUserByApiKey(ctx context.Context, apiKey string) (db.User, error) {
	if m.getUserByApiKeyFunc != nil {
		return m.getUserByApiKeyFunc(ctx, apiKey)
	}
	return db.User{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetUserByID(ctx context.Context, id uuid.UUID) (db.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return db.User{}, pgx.ErrNoRows
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves known api key", func(t *testing.T) {
		userID := uuid.New()
		provider := NewPostgresProvider(&mockQuerier{
			getUserByApiKeyFunc: func(ctx context.Context, apiKey string) (db.User, error) {
				assert.Equal(t, "key-123", apiKey)
				return db.User{ID: userID, Username: "alice", ApiKey: apiKey}, nil
			},
		})

		id, err := provider.ResolveIdentity(ctx, "key-123")
		require.NoError(t, err)
		assert.Equal(t, userID, id.ID)
		assert.Equal(t, "alice", id.Username)
	})

	t.Run("empty credentials are unauthorized", func(t *testing.T) {
		provider := NewPostgresProvider(&mockQuerier{})

		_, err := provider.ResolveIdentity(ctx, "")
		require.Error(t, err)
		assert.Equal(t, errx.Unauthorized, errx.KindOf(err))
	})

	t.Run("unknown api key is unauthorized", func(t *testing.T) {
		provider := NewPostgresProvider(&mockQuerier{})

		_, err := provider.ResolveIdentity(ctx, "no-such-key")
		require.Error(t, err)
		assert.Equal(t, errx.Unauthorized, errx.KindOf(err))
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		provider := NewPostgresProvider(&mockQuerier{
			getUserByApiKeyFunc: func(ctx context.Context, apiKey string) (db.User, error) {
				return db.User{}, errors.New("connection refused")
			},
		})

		_, err := provider.ResolveIdentity(ctx, "key-123")
		require.Error(t, err)
		assert.Equal(t, errx.Unavailable, errx.KindOf(err))
	})
}

func TestDisplayName(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached username without lookup", func(t *testing.T) {
		provider := NewPostgresProvider(&mockQuerier{
			getUserByIDFunc: func(ctx context.Context, id uuid.UUID) (db.User, error) {
				t.Fatal("unexpected lookup")
				return db.User{}, nil
			},
		})

		name, err := provider.DisplayName(ctx, Identity{ID: uuid.New(), Username: "bob"})
		require.NoError(t, err)
		assert.Equal(t, "bob", name)
	})

	t.Run("looks up username by id", func(t *testing.T) {
		userID := uuid.New()
		provider := NewPostgresProvider(&mockQuerier{
			getUserByIDFunc: func(ctx context.Context, id uuid.UUID) (db.User, error) {
				assert.Equal(t, userID, id)
				return db.User{ID: id, Username: "carol"}, nil
			},
		})

		name, err := provider.DisplayName(ctx, Identity{ID: userID})
		require.NoError(t, err)
		assert.Equal(t, "carol", name)
	})

	t.Run("unknown identity is not found", func(t *testing.T) {
		provider := NewPostgresProvider(&mockQuerier{})

		_, err := provider.DisplayName(ctx, Identity{ID: uuid.New()})
		require.Error(t, err)
		assert.Equal(t, errx.NotFound, errx.KindOf(err))
	})
}
