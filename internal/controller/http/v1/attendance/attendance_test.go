package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/service/attendance"
	"school-attendance/backend/internal/service/dashboard"
)

type fakeRules struct {
	marked []attendance.MarkRequest
}

func (f *fakeRules) CheckIn(_ context.Context, caller entity.Identity) (entity.Attendance, error) {
	if caller.Role != entity.RoleStudent {
		return entity.Attendance{}, web.NewRequestError(attendance.ErrUnauthorized, http.StatusForbidden)
	}
	in := "07:00:00"
	return entity.Attendance{UserID: caller.UserID, Status: entity.StatusPresent, CheckIn: &in}, nil
}

func (f *fakeRules) CheckOut(_ context.Context, caller entity.Identity) (entity.Attendance, error) {
	return entity.Attendance{}, web.NewRequestError(attendance.ErrNoCheckInYet, http.StatusBadRequest)
}

func (f *fakeRules) Mark(_ context.Context, caller entity.Identity, req attendance.MarkRequest) (entity.Attendance, error) {
	f.marked = append(f.marked, req)
	return entity.Attendance{UserID: req.UserID, Status: entity.Status(req.Status), MarkedBy: &caller.UserID}, nil
}

type fakeDashboard struct {
	filters dashboard.Filters
}

func (f *fakeDashboard) View(_ context.Context, caller entity.Identity, filters dashboard.Filters) (dashboard.View, error) {
	f.filters = filters
	if caller.Role == entity.RoleStudent {
		return dashboard.View{Role: caller.Role, Student: &dashboard.StudentView{Today: "2024-03-01", CanCheckIn: true}}, nil
	}
	return dashboard.View{Redirect: "/"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

// as puts claims in the request context the way the auth middleware does.
func as(claims *auth.Claims) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(c *web.Context) error {
			if claims != nil {
				c.WithValue(auth.Key, *claims)
			}
			return handler(c)
		}
	}
}

func newApp(claims *auth.Claims, rules *fakeRules, dash *fakeDashboard) *web.App {
	uc := NewController(rules, dash)

	app := web.NewApp(zap.NewNop(), as(claims))
	app.Post("/api/v1/attendance/check-in", uc.CheckIn)
	app.Put("/api/v1/attendance/check-out", uc.CheckOut)
	app.Post("/api/v1/attendance/mark", uc.Mark)
	app.Get("/api/v1/attendance", uc.View)

	return app
}

func do(app *web.App, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCheckIn(t *testing.T) {
	app := newApp(&auth.Claims{UserId: 1, Role: "STUDENT"}, &fakeRules{}, &fakeDashboard{})

	rec := do(app, http.MethodPost, "/api/v1/attendance/check-in", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decode(t, rec)
	data := out["data"].(map[string]interface{})
	if data["status"] != "PRESENT" || data["check_in"] != "07:00:00" || out["status"] != true {
		t.Errorf("unexpected body %v", out)
	}
}

func TestCheckInWithoutClaims(t *testing.T) {
	app := newApp(nil, &fakeRules{}, &fakeDashboard{})

	if rec := do(app, http.MethodPost, "/api/v1/attendance/check-in", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestCheckOutError(t *testing.T) {
	app := newApp(&auth.Claims{UserId: 1, Role: "STUDENT"}, &fakeRules{}, &fakeDashboard{})

	rec := do(app, http.MethodPut, "/api/v1/attendance/check-out", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	out := decode(t, rec)
	if out["error"] != attendance.ErrNoCheckInYet.Error() || out["status"] != false {
		t.Errorf("unexpected body %v", out)
	}
}

func TestMark(t *testing.T) {
	rules := &fakeRules{}
	app := newApp(&auth.Claims{UserId: 2, Role: "TEACHER"}, rules, &fakeDashboard{})

	rec := do(app, http.MethodPost, "/api/v1/attendance/mark", map[string]interface{}{
		"user_id": 1,
		"date":    "2024-03-01",
		"status":  "SICK",
		"notes":   "flu",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rules.marked) != 1 || *rules.marked[0].Notes != "flu" {
		t.Errorf("unexpected mark requests %+v", rules.marked)
	}

	rec = do(app, http.MethodPost, "/api/v1/attendance/mark", map[string]interface{}{"user_id": 1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}
	if fields := decode(t, rec)["fields"].([]interface{}); len(fields) != 2 {
		t.Errorf("expected date and status to be reported, got %v", fields)
	}
}

func TestView(t *testing.T) {
	dash := &fakeDashboard{}
	app := newApp(&auth.Claims{UserId: 1, Role: "STUDENT"}, &fakeRules{}, dash)

	rec := do(app, http.MethodGet, "/api/v1/attendance?days=30&class=X-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if dash.filters.Days == nil || *dash.filters.Days != 30 || *dash.filters.Class != "X-1" {
		t.Errorf("unexpected filters %+v", dash.filters)
	}

	data := decode(t, rec)["data"].(map[string]interface{})
	if data["role"] != "STUDENT" || data["student"] == nil {
		t.Errorf("unexpected view %v", data)
	}

	if rec := do(app, http.MethodGet, "/api/v1/attendance?page=two", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad page, got %d", rec.Code)
	}
}

func TestViewRedirectsUnknownRole(t *testing.T) {
	app := newApp(&auth.Claims{UserId: 9, Role: "PARENT"}, &fakeRules{}, &fakeDashboard{})

	rec := do(app, http.MethodGet, "/api/v1/attendance", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("expected a redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
