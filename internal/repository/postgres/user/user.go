package user

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

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

func (r Repository) GetById(ctx context.Context, id int) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting user"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).
		Where("u.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting user by email"), http.StatusInternalServerError)
	}

	return detail, nil
}

// ListUsers returns every user matching filter ordered by name.
func (r Repository) ListUsers(ctx context.Context, filter entity.UserFilter) ([]entity.User, error) {
	list := make([]entity.User, 0)

	q := r.NewSelect().Model(&list)
	applyFilter(q, filter)

	if err := q.Order("u.name ASC", "u.id ASC").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}

	return list, nil
}

// GetList returns one page of users and the number of matching users.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.User, int, error) {
	var userFilter entity.UserFilter

	if filter.Role != nil {
		role, ok := entity.ParseRole(*filter.Role)
		if !ok {
			return nil, 0, web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "role", Error: "must be one of STUDENT, TEACHER, ADMIN"})
		}
		userFilter.Role = &role
	}
	userFilter.Class = filter.Class
	userFilter.Search = filter.Search

	page := entity.Page{Number: 1, Size: PageSize}
	if filter.Page != nil {
		page.Number = *filter.Page
	}

	list := make([]entity.User, 0)

	q := r.NewSelect().Model(&list)
	applyFilter(q, userFilter)

	count, err := q.Order("u.name ASC", "u.id ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// Classes returns the distinct class tags of students, sorted.
func (r Repository) Classes(ctx context.Context) ([]string, error) {
	classes := make([]string, 0)

	err := r.NewSelect().
		Model((*entity.User)(nil)).
		ColumnExpr("DISTINCT u.class").
		Where("u.role = ?", entity.RoleStudent).
		Where("u.class IS NOT NULL AND u.class <> ''").
		OrderExpr("u.class ASC").
		Scan(ctx, &classes)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting classes"), http.StatusInternalServerError)
	}

	return classes, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (entity.User, error) {
	if err := r.ValidateStruct(&request, "Name", "Email", "Password", "Role"); err != nil {
		return entity.User{}, err
	}

	role, _ := entity.ParseRole(*request.Role)

	detail := entity.User{
		Name:      *request.Name,
		Email:     *request.Email,
		Role:      role,
		StudentID: request.StudentID,
		TeacherID: request.TeacherID,
		Class:     request.Class,
		Phone:     request.Phone,
	}
	normalize(&detail)

	if err := validateUser(detail, request.Password); err != nil {
		return entity.User{}, err
	}

	if err := r.checkUnique(ctx, detail); err != nil {
		return entity.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}

	detail.Password = string(hash)
	detail.CreatedAt = time.Now()
	detail.UpdatedAt = detail.CreatedAt

	if _, err = r.NewInsert().Model(&detail).Returning("id").Exec(ctx); err != nil {
		if postgres.IsUniqueViolation(err) {
			return entity.User{}, web.NewRequestError(errors.New("user already exists"), http.StatusConflict)
		}
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusInternalServerError)
	}

	return detail, nil
}

// UpdateColumns applies the set fields of request to the user. An empty
// password keeps the current one.
func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) (entity.User, error) {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return entity.User{}, err
	}

	detail, err := r.GetById(ctx, request.ID)
	if err != nil {
		return entity.User{}, err
	}

	if request.Name != nil {
		detail.Name = *request.Name
	}
	if request.Email != nil {
		detail.Email = *request.Email
	}
	if request.Role != nil {
		role, _ := entity.ParseRole(*request.Role)
		detail.Role = role
	}
	if request.StudentID != nil {
		detail.StudentID = request.StudentID
	}
	if request.TeacherID != nil {
		detail.TeacherID = request.TeacherID
	}
	if request.Class != nil {
		detail.Class = request.Class
	}
	if request.Phone != nil {
		detail.Phone = request.Phone
	}
	normalize(&detail)

	var password *string
	if request.Password != nil && *request.Password != "" {
		password = request.Password
	}

	if err := validateUser(detail, password); err != nil {
		return entity.User{}, err
	}

	if err := r.checkUnique(ctx, detail); err != nil {
		return entity.User{}, err
	}

	columns := []string{"name", "email", "role", "student_id", "teacher_id", "class", "phone", "updated_at"}

	if password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return entity.User{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		detail.Password = string(hash)
		columns = append(columns, "password")
	}

	detail.UpdatedAt = time.Now()

	_, err = r.NewUpdate().Model(&detail).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return entity.User{}, web.NewRequestError(errors.New("user already exists"), http.StatusConflict)
		}
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Delete removes the user and, through the foreign key, its attendance.
// Callers cannot delete their own account.
func (r Repository) Delete(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	if claims.UserId == id {
		return web.NewRequestError(errors.New("you cannot delete your own account"), http.StatusBadRequest)
	}

	return r.DeleteRow(ctx, "users", id)
}

// checkUnique refuses identifiers already held by another user.
func (r Repository) checkUnique(ctx context.Context, u entity.User) error {
	checks := []struct {
		column string
		field  string
		value  *string
	}{
		{"email", "email", &u.Email},
		{"student_id", "student_id", u.StudentID},
		{"teacher_id", "teacher_id", u.TeacherID},
	}

	var fields []web.FieldError

	for _, check := range checks {
		if check.value == nil {
			continue
		}

		exists, err := r.NewSelect().
			Model((*entity.User)(nil)).
			Where("? = ?", bun.Ident("u."+check.column), *check.value).
			Where("u.id <> ?", u.ID).
			Exists(ctx)
		if err != nil {
			return web.NewRequestError(errors.Wrapf(err, "checking %s", check.column), http.StatusInternalServerError)
		}
		if exists {
			fields = append(fields, web.FieldError{Field: check.field, Error: "has already been taken"})
		}
	}

	if len(fields) > 0 {
		return web.NewFieldsError(http.StatusConflict, fields...)
	}

	return nil
}

func applyFilter(q *bun.SelectQuery, filter entity.UserFilter) {
	if filter.Role != nil {
		q.Where("u.role = ?", *filter.Role)
	}
	if filter.Class != nil {
		q.Where("u.class = ?", *filter.Class)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		like := "%" + strings.TrimSpace(*filter.Search) + "%"
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("u.name ILIKE ?", like).
				WhereOr("u.email ILIKE ?", like).
				WhereOr("u.student_id ILIKE ?", like).
				WhereOr("u.teacher_id ILIKE ?", like)
		})
	}
}
