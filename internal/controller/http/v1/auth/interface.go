package auth

import (
	"context"
	"time"

	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/entity"
)

type User interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	GetById(ctx context.Context, id int) (entity.User, error)
}

type Tokens interface {
	GenerateTokens(userID int, role entity.Role) (auth.Tokens, error)
	ValidateRefreshToken(tokenStr string) (auth.Claims, error)
	Remaining(claims auth.Claims) time.Duration
}

type Sessions interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}
