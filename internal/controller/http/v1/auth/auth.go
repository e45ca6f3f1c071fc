package auth

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/repository/postgres/user"
)

var errInvalidCredentials = errors.New("invalid email or password")

type Controller struct {
	user     User
	tokens   Tokens
	sessions Sessions
}

func NewController(user User, tokens Tokens, sessions Sessions) *Controller {
	return &Controller{user: user, tokens: tokens, sessions: sessions}
}

func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data, "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetByEmail(c.Ctx, strings.ToLower(strings.TrimSpace(data.Email)))
	if err != nil {
		if status, ok := web.StatusOf(err); ok && status == http.StatusNotFound {
			return c.RespondError(web.NewRequestError(errInvalidCredentials, http.StatusUnauthorized))
		}
		return c.RespondError(err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errInvalidCredentials, http.StatusUnauthorized))
	}

	tokens, err := uc.tokens.GenerateTokens(detail.ID, detail.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.ExpiresAt,
			"user":          detail,
		},
		"error": nil,
	}, http.StatusOK)
}

// RefreshToken exchanges a refresh token for a new pair. Each refresh
// token is claimed once; concurrent or later uses of it get a 401.
func (uc Controller) RefreshToken(c *web.Context) error {
	var data user.RefreshTokenRequest

	if err := c.BindFunc(&data, "RefreshToken"); err != nil {
		return c.RespondError(err)
	}

	claims, err := uc.tokens.ValidateRefreshToken(data.RefreshToken)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	// the role may have changed since the token was issued
	detail, err := uc.user.GetById(c.Ctx, claims.UserId)
	if err != nil {
		if status, ok := web.StatusOf(err); ok && status == http.StatusNotFound {
			return c.RespondError(web.NewRequestError(errors.New("account no longer exists"), http.StatusUnauthorized))
		}
		return c.RespondError(err)
	}

	claimed, err := uc.sessions.Claim(c.Ctx, claims.Id, uc.tokens.Remaining(claims))
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "claiming refresh token"), http.StatusInternalServerError))
	}
	if !claimed {
		return c.RespondError(web.NewRequestError(errors.New("refresh token has been used or signed out"), http.StatusUnauthorized))
	}

	tokens, err := uc.tokens.GenerateTokens(detail.ID, detail.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating new tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.ExpiresAt,
		},
		"error": nil,
	}, http.StatusOK)
}

// SignOut revokes the access token of the request and, when sent, the
// refresh token of the same session.
func (uc Controller) SignOut(c *web.Context) error {
	claims, ok := auth.GetClaims(c.Ctx)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("missing claims"), http.StatusUnauthorized))
	}

	if err := uc.sessions.Revoke(c.Ctx, claims.Id, uc.tokens.Remaining(claims)); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "revoking access token"), http.StatusInternalServerError))
	}

	var data user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&data); err == nil && data.RefreshToken != "" {
		refresh, err := uc.tokens.ValidateRefreshToken(data.RefreshToken)
		if err == nil && refresh.UserId == claims.UserId {
			if err = uc.sessions.Revoke(c.Ctx, refresh.Id, uc.tokens.Remaining(refresh)); err != nil {
				return c.RespondError(web.NewRequestError(errors.Wrap(err, "revoking refresh token"), http.StatusInternalServerError))
			}
		}
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Me(c *web.Context) error {
	claims, ok := auth.GetClaims(c.Ctx)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("missing claims"), http.StatusUnauthorized))
	}

	detail, err := uc.user.GetById(c.Ctx, claims.UserId)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   detail,
		"status": true,
	}, http.StatusOK)
}
