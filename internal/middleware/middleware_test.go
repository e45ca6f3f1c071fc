package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/entity"
)

type revoked map[string]bool

func (r revoked) IsRevoked(_ context.Context, id string) (bool, error) { return r[id], nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func newApp(t *testing.T, a *auth.Auth, roles ...string) *web.App {
	t.Helper()

	app := web.NewApp(zap.NewNop(), RequestID(), Logger(zap.NewNop()))
	app.Get("/me", func(c *web.Context) error {
		claims, ok := auth.GetClaims(c.Ctx)
		if !ok {
			t.Error("expected claims in the request context")
		}
		return c.Respond(map[string]interface{}{"data": claims.UserId, "status": true}, http.StatusOK)
	}, Authenticate(a, roles...))

	return app
}

func call(app *web.App, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	a, err := auth.New("secret", time.Hour, time.Hour, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	student, _ := a.GenerateTokens(1, entity.RoleStudent)
	teacher, _ := a.GenerateTokens(2, entity.RoleTeacher)

	app := newApp(t, a, string(entity.RoleTeacher), string(entity.RoleAdmin))

	if rec := call(app, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
	if rec := call(app, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bad token, got %d", rec.Code)
	}
	if rec := call(app, teacher.RefreshToken); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a refresh token, got %d", rec.Code)
	}
	if rec := call(app, student.AccessToken); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a student, got %d", rec.Code)
	}

	rec := call(app, teacher.AccessToken)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for a teacher, got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestAuthenticateRevoked(t *testing.T) {
	a, _ := auth.New("secret", time.Hour, time.Hour, nil)
	tokens, _ := a.GenerateTokens(1, entity.RoleStudent)
	claims, _ := a.ValidateToken(tokens.AccessToken)

	withList, _ := auth.New("secret", time.Hour, time.Hour, revoked{claims.Id: true})

	if rec := call(newApp(t, withList), tokens.AccessToken); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a signed out token, got %d", rec.Code)
	}
	if rec := call(newApp(t, a), tokens.AccessToken); rec.Code != http.StatusOK {
		t.Errorf("expected 200 without a revocation list, got %d", rec.Code)
	}
}

func TestRequestIDKeepsValidIncomingID(t *testing.T) {
	app := web.NewApp(zap.NewNop(), RequestID())
	app.Get("/ping", func(c *web.Context) error {
		return c.Respond(map[string]interface{}{"status": true}, http.StatusOK)
	})

	const id = "3f1c3b9e-8a55-4f7e-9a57-2f7f0d8f5e21"

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		origins []string
		origin  string
		want    string
	}{
		{[]string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{[]string{"http://localhost:5173"}, "http://evil.example", ""},
		{nil, "http://anywhere.example", "*"},
	}

	for _, tt := range tests {
		engine := gin.New()
		engine.Use(CORS(tt.origins))
		engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origins %v, origin %s: got %q, want %q", tt.origins, tt.origin, got, tt.want)
		}
	}
}
