// Package auth issues and validates the JWTs carried by API requests.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"school-attendance/backend/internal/entity"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// Key is used to store/retrieve a Claims value from a context.Context.
const Key ctxKey = 1

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
}

// Authorized returns true if the claims has at least one of the provided roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, has := range roles {
		if c.Role == has {
			return true
		}
	}
	return false
}

// Identity returns the caller described by the claims.
func (c Claims) Identity() entity.Identity {
	return entity.Identity{UserID: c.UserId, Role: entity.Role(c.Role)}
}

// GetClaims returns the claims value from the context.
func GetClaims(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(Key).(Claims)
	return claims, ok
}

// Revoker reports token ids that were signed out before they expired.
type Revoker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Tokens is the pair handed out on sign in and refresh.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Auth is used to authenticate clients. It can generate a token for a
// set of user claims and recreate the claims by parsing the token.
type Auth struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoker    Revoker
	now        func() time.Time
}

// New creates an *Auth for use.
func New(key string, accessTTL, refreshTTL time.Duration, revoker Revoker) (*Auth, error) {
	if key == "" {
		return nil, errors.New("jwt key is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Auth{
		key:        []byte(key),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoker:    revoker,
		now:        time.Now,
	}, nil
}

// GenerateTokens signs a new access and refresh token pair for the user.
func (a *Auth) GenerateTokens(userID int, role entity.Role) (Tokens, error) {
	now := a.now()

	access, err := a.sign(userID, role, TypeAccess, now, a.accessTTL)
	if err != nil {
		return Tokens{}, err
	}

	refresh, err := a.sign(userID, role, TypeRefresh, now, a.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(a.accessTTL),
	}, nil
}

func (a *Auth) sign(userID int, role entity.Role, kind string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		UserId: userID,
		Role:   string(role),
		Type:   kind,
	}

	str, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return str, nil
}

// ValidateToken recreates the claims of an access token.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	return a.parse(tokenStr, TypeAccess)
}

// ValidateRefreshToken recreates the claims of a refresh token.
func (a *Auth) ValidateRefreshToken(tokenStr string) (Claims, error) {
	return a.parse(tokenStr, TypeRefresh)
}

func (a *Auth) parse(tokenStr, kind string) (Claims, error) {
	var claims Claims

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.key, nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc)
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.Type != kind {
		return Claims{}, errors.Errorf("expected %s token", kind)
	}

	return claims, nil
}

// Revoked reports whether the token was signed out. Without a Revoker no
// token is ever revoked.
func (a *Auth) Revoked(ctx context.Context, claims Claims) (bool, error) {
	if a.revoker == nil || claims.Id == "" {
		return false, nil
	}

	revoked, err := a.revoker.IsRevoked(ctx, claims.Id)
	if err != nil {
		return false, errors.Wrap(err, "checking revoked token")
	}

	return revoked, nil
}

// Remaining returns how long the token stays valid.
func (a *Auth) Remaining(claims Claims) time.Duration {
	left := time.Unix(claims.ExpiresAt, 0).Sub(a.now())
	if left < 0 {
		return 0
	}
	return left
}
