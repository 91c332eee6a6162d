package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	db "github.com/tinytrail/tinytrail/internal/db/sqlc"
	"github.com/tinytrail/tinytrail/internal/errx"
)

// querier is an internal interface that abstracts *db.Queries.
type querier interface {
	GetUserByApiKey(ctx context.Context, apiKey string) (db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (db.User, error)
}

type pgProvider struct {
	q querier
}

// NewPostgresProvider returns a Provider backed by the users table.
func NewPostgresProvider(q querier) Provider {
	return &pgProvider{q: q}
}

func (p *pgProvider) ResolveIdentity(ctx context.Context, credentials string) (Identity, error) {
	const op = "identity.provider.ResolveIdentity"

	if credentials == "" {
		return Identity{}, errx.E(op, errx.Unauthorized, errors.New("missing credentials"))
	}

	user, err := p.q.GetUserByApiKey(ctx, credentials)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, errx.E(op, errx.Unauthorized, errors.New("unknown api key"))
		}
		return Identity{}, errx.E(op, errx.Unavailable, err)
	}

	return Identity{ID: user.ID, Username: user.Username}, nil
}

func (p *pgProvider) DisplayName(ctx context.Context, id Identity) (string, error) {
	const op = "identity.provider.DisplayName"

	if id.Username != "" {
		return id.Username, nil
	}

	user, err := p.q.GetUserByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errx.E(op, errx.NotFound, errors.New("unknown identity"))
		}
		return "", errx.E(op, errx.Unavailable, err)
	}

	return user.Username, nil
}
