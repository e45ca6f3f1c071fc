package schoolClass

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres"
	"school-attendance/backend/internal/repository/postgres/schoolClass"
)

type fakeClasses map[int]entity.SchoolClass

func (f fakeClasses) GetList(context.Context, schoolClass.Filter) ([]entity.SchoolClass, int, error) {
	return []entity.SchoolClass{f[1]}, len(f), nil
}

func (f fakeClasses) GetDetailById(_ context.Context, id int) (entity.SchoolClass, error) {
	class, ok := f[id]
	if !ok {
		return entity.SchoolClass{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	return class, nil
}

func (f fakeClasses) Create(_ context.Context, req schoolClass.CreateRequest) (entity.SchoolClass, error) {
	return entity.SchoolClass{ID: 2, Name: *req.Name, Grade: *req.Grade, Capacity: schoolClass.DefaultCapacity}, nil
}

func (f fakeClasses) UpdateColumns(_ context.Context, req schoolClass.UpdateRequest) (entity.SchoolClass, error) {
	class := f[req.ID]
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	return class, nil
}

func (f fakeClasses) Delete(context.Context, int) error { return nil }

func newApp() *web.App {
	gin.SetMode(gin.TestMode)

	ipa := "IPA"
	cc := NewController(fakeClasses{1: {ID: 1, Name: "XI-IPA-1", Grade: "XI", Major: &ipa, Capacity: 30}})

	app := web.NewApp(zap.NewNop())
	app.Get("/api/v1/class/list", cc.GetList)
	app.Get("/api/v1/class/:id", cc.GetDetailById)
	app.Post("/api/v1/class/create", cc.Create)
	app.Patch("/api/v1/class/:id", cc.UpdateColumns)

	return app
}

func TestGetList(t *testing.T) {
	rec := httptest.NewRecorder()
	newApp().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/class/list?page=1", nil))

	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"full_name":"XI IPA (XI-IPA-1)"`)) {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	newApp().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/class/list?page=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad page, got %d", rec.Code)
	}
}

func TestCreateRequiresNameAndGrade(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/class/create", bytes.NewBufferString(`{"name":"X-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newApp().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/class/create", bytes.NewBufferString(`{"name":"X-1","grade":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	newApp().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"capacity":30`)) {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestGetDetailNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newApp().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/class/7", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
