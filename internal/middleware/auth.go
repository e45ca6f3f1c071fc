package middleware

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
)

// Authenticate validates the bearer token of the request and, when roles
// are given, requires the caller to hold one of them.
func Authenticate(a *auth.Auth, roles ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(c *web.Context) error {
			// Expecting: Bearer <token>
			parts := strings.Split(c.Request.Header.Get("Authorization"), " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			revoked, err := a.Revoked(c.Ctx, claims)
			if err != nil {
				return c.RespondError(err)
			}
			if revoked {
				return c.RespondError(web.NewRequestError(errors.New("token has been signed out"), http.StatusUnauthorized))
			}

			if len(roles) > 0 && !claims.Authorized(roles...) {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden))
			}

			c.WithValue(auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}
