package schoolClass

// DefaultCapacity is used when a class is created without a capacity.
const DefaultCapacity = 30

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type CreateRequest struct {
	Name              *string `json:"name"                form:"name"`
	Grade             *string `json:"grade"               form:"grade"`
	Major             *string `json:"major"               form:"major"`
	HomeroomTeacherID *int    `json:"homeroom_teacher_id" form:"homeroom_teacher_id"`
	Capacity          *int    `json:"capacity"            form:"capacity"`
}

type UpdateRequest struct {
	ID                int     `json:"-"`
	Name              *string `json:"name"                form:"name"`
	Grade             *string `json:"grade"               form:"grade"`
	Major             *string `json:"major"               form:"major"`
	HomeroomTeacherID *int    `json:"homeroom_teacher_id" form:"homeroom_teacher_id"`
	Capacity          *int    `json:"capacity"            form:"capacity"`
}
