// Package session keeps the ids of signed out tokens in redis until they
// would have expired anyway.
package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const prefix = "revoked:"

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connecting to redis")
	}

	return client, nil
}

// Revoke marks tokenID as signed out for ttl.
func (r Repository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, prefix+tokenID, 1, ttl).Err(); err != nil {
		return errors.Wrap(err, "revoking token")
	}

	return nil
}

// Claim atomically marks tokenID as used for ttl. It returns false when the
// id was already used or signed out, or when ttl has run out.
func (r Repository) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}

	ok, err := r.client.SetNX(ctx, prefix+tokenID, 1, ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "claiming token")
	}

	return ok, nil
}

func (r Repository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, prefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(err, "reading revoked token")
	}

	return n > 0, nil
}
