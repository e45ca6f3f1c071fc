package schoolClass

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/pkg/repository/postgresql"
	"school-attendance/backend/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.SchoolClass, int, error) {
	list := make([]entity.SchoolClass, 0)

	q := r.NewSelect().Model(&list)

	if filter.Search != nil {
		like := "%" + strings.TrimSpace(*filter.Search) + "%"
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("c.name ILIKE ?", like).WhereOr("c.major ILIKE ?", like)
		})
	}

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil && *filter.Offset > 0 {
		q.Offset(*filter.Offset)
	}

	count, err := q.Order("c.grade ASC", "c.name ASC").ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting classes"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (entity.SchoolClass, error) {
	var detail entity.SchoolClass

	err := r.NewSelect().Model(&detail).Where("c.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.SchoolClass{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.SchoolClass{}, web.NewRequestError(errors.Wrap(err, "selecting class detail"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (entity.SchoolClass, error) {
	if err := r.ValidateStruct(&request, "Name", "Grade"); err != nil {
		return entity.SchoolClass{}, err
	}

	detail := entity.SchoolClass{
		Name:              strings.TrimSpace(*request.Name),
		Grade:             strings.TrimSpace(*request.Grade),
		Major:             request.Major,
		HomeroomTeacherID: request.HomeroomTeacherID,
		Capacity:          DefaultCapacity,
	}
	if request.Capacity != nil {
		detail.Capacity = *request.Capacity
	}

	if err := r.validate(ctx, detail); err != nil {
		return entity.SchoolClass{}, err
	}

	detail.CreatedAt = time.Now()
	detail.UpdatedAt = detail.CreatedAt

	if _, err := r.NewInsert().Model(&detail).Returning("id").Exec(ctx); err != nil {
		if postgres.IsUniqueViolation(err) {
			return entity.SchoolClass{}, web.NewRequestError(errors.New("class name is used"), http.StatusConflict)
		}
		return entity.SchoolClass{}, web.NewRequestError(errors.Wrap(err, "creating class"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) (entity.SchoolClass, error) {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return entity.SchoolClass{}, err
	}

	detail, err := r.GetDetailById(ctx, request.ID)
	if err != nil {
		return entity.SchoolClass{}, err
	}

	if request.Name != nil {
		detail.Name = strings.TrimSpace(*request.Name)
	}
	if request.Grade != nil {
		detail.Grade = strings.TrimSpace(*request.Grade)
	}
	if request.Major != nil {
		detail.Major = request.Major
	}
	if request.HomeroomTeacherID != nil {
		detail.HomeroomTeacherID = request.HomeroomTeacherID
	}
	if request.Capacity != nil {
		detail.Capacity = *request.Capacity
	}

	if err := r.validate(ctx, detail); err != nil {
		return entity.SchoolClass{}, err
	}

	detail.UpdatedAt = time.Now()

	_, err = r.NewUpdate().Model(&detail).
		Column("name", "grade", "major", "homeroom_teacher_id", "capacity", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return entity.SchoolClass{}, web.NewRequestError(errors.New("class name is used"), http.StatusConflict)
		}
		return entity.SchoolClass{}, web.NewRequestError(errors.Wrap(err, "updating class"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "classes", id)
}

func (r Repository) validate(ctx context.Context, detail entity.SchoolClass) error {
	if fields := checkFields(detail); len(fields) > 0 {
		return web.NewFieldsError(http.StatusBadRequest, fields...)
	}

	used, err := r.NewSelect().
		Model((*entity.SchoolClass)(nil)).
		Where("c.name = ?", detail.Name).
		Where("c.id <> ?", detail.ID).
		Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "class name check"), http.StatusInternalServerError)
	}
	if used {
		return web.NewFieldsError(http.StatusConflict, web.FieldError{Field: "name", Error: "has already been taken"})
	}

	if detail.HomeroomTeacherID != nil {
		isTeacher, err := r.NewSelect().
			Model((*entity.User)(nil)).
			Where("u.id = ? AND u.role = ?", *detail.HomeroomTeacherID, entity.RoleTeacher).
			Exists(ctx)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "homeroom teacher check"), http.StatusInternalServerError)
		}
		if !isTeacher {
			return web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "homeroom_teacher_id", Error: "must be a teacher"})
		}
	}

	return nil
}

func checkFields(detail entity.SchoolClass) []web.FieldError {
	var fields []web.FieldError

	if detail.Name == "" {
		fields = append(fields, web.FieldError{Field: "name", Error: "is required"})
	}
	if detail.Grade == "" {
		fields = append(fields, web.FieldError{Field: "grade", Error: "is required"})
	}
	if detail.Capacity < 1 || detail.Capacity > 100 {
		fields = append(fields, web.FieldError{Field: "capacity", Error: "must be between 1 and 100"})
	}

	return fields
}
