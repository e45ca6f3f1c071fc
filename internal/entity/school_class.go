package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// SchoolClass is linked to students through User.Class holding its Name.
type SchoolClass struct {
	bun.BaseModel `bun:"table:classes,alias:c"`

	ID                int       `json:"id"                  bun:"id,pk,autoincrement"`
	Name              string    `json:"name"                bun:"name,notnull"`
	Grade             string    `json:"grade"               bun:"grade,notnull"`
	Major             *string   `json:"major"               bun:"major"`
	HomeroomTeacherID *int      `json:"homeroom_teacher_id" bun:"homeroom_teacher_id"`
	Capacity          int       `json:"capacity"            bun:"capacity,notnull"`
	CreatedAt         time.Time `json:"created_at"          bun:"created_at,notnull"`
	UpdatedAt         time.Time `json:"updated_at"          bun:"updated_at,notnull"`
}

// FullName renders "grade major (name)", dropping the parenthesis when the
// name already reads the same.
func (c SchoolClass) FullName() string {
	name := c.Grade
	if c.Major != nil && *c.Major != "" {
		name += " " + *c.Major
	}
	if c.Name != name {
		name += " (" + c.Name + ")"
	}
	return name
}
