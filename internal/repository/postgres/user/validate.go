package user

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
)

var validate = validator.New()

// normalize trims the free text fields of u and drops the identifiers that
// do not belong to its role.
func normalize(u *entity.User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.StudentID = trimmed(u.StudentID)
	u.TeacherID = trimmed(u.TeacherID)
	u.Class = trimmed(u.Class)
	u.Phone = trimmed(u.Phone)

	switch u.Role {
	case entity.RoleStudent:
		u.TeacherID = nil
	case entity.RoleTeacher:
		u.StudentID = nil
	default:
		u.StudentID = nil
		u.TeacherID = nil
		u.Class = nil
	}
}

// validateUser checks u against the rules of its role. password is the
// plain text password being set, nil when it is kept.
func validateUser(u entity.User, password *string) error {
	var fields []web.FieldError

	if u.Name == "" {
		fields = append(fields, web.FieldError{Field: "name", Error: "is required"})
	} else if utf8.RuneCountInString(u.Name) > 255 {
		fields = append(fields, web.FieldError{Field: "name", Error: "must be at most 255 characters"})
	}

	if u.Email == "" {
		fields = append(fields, web.FieldError{Field: "email", Error: "is required"})
	} else if err := validate.Var(u.Email, "email"); err != nil {
		fields = append(fields, web.FieldError{Field: "email", Error: "must be a valid email address"})
	}

	if !u.Role.Valid() {
		fields = append(fields, web.FieldError{Field: "role", Error: "must be one of STUDENT, TEACHER, ADMIN"})
	}

	if password != nil && utf8.RuneCountInString(*password) < MinPasswordLength {
		fields = append(fields, web.FieldError{Field: "password", Error: "must be at least 8 characters"})
	}

	switch u.Role {
	case entity.RoleStudent:
		if u.StudentID == nil {
			fields = append(fields, web.FieldError{Field: "student_id", Error: "is required for students"})
		}
		if u.Class == nil {
			fields = append(fields, web.FieldError{Field: "class", Error: "is required for students"})
		}
	case entity.RoleTeacher:
		if u.TeacherID == nil {
			fields = append(fields, web.FieldError{Field: "teacher_id", Error: "is required for teachers"})
		}
	}

	if len(fields) > 0 {
		return web.NewFieldsError(http.StatusBadRequest, fields...)
	}

	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}

	return &v
}
