package entity

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int       `json:"id"         bun:"id,pk,autoincrement"`
	Name      string    `json:"name"       bun:"name,notnull"`
	Email     string    `json:"email"      bun:"email,notnull"`
	Password  string    `json:"-"          bun:"password,notnull"`
	Role      Role      `json:"role"       bun:"role,notnull"`
	StudentID *string   `json:"student_id" bun:"student_id"`
	TeacherID *string   `json:"teacher_id" bun:"teacher_id"`
	Class     *string   `json:"class"      bun:"class"`
	Phone     *string   `json:"phone"      bun:"phone"`
	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }

// ClassName returns the class tag or "" when unset.
func (u User) ClassName() string {
	if u.Class == nil {
		return ""
	}
	return *u.Class
}

// UserFilter narrows user queries; nil fields do not filter.
type UserFilter struct {
	Role   *Role
	Class  *string
	Search *string
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID int
	Role   Role
}
