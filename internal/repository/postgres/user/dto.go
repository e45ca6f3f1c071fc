package user

// PageSize is the number of users per list page.
const PageSize = 15

// MinPasswordLength is the shortest password accepted for an account.
const MinPasswordLength = 8

type Filter struct {
	Page   *int
	Role   *string
	Class  *string
	Search *string
}

type SignInRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type CreateRequest struct {
	Name      *string `json:"name"       form:"name"`
	Email     *string `json:"email"      form:"email"`
	Password  *string `json:"password"   form:"password"`
	Role      *string `json:"role"       form:"role"`
	StudentID *string `json:"student_id" form:"student_id"`
	TeacherID *string `json:"teacher_id" form:"teacher_id"`
	Class     *string `json:"class"      form:"class"`
	Phone     *string `json:"phone"      form:"phone"`
}

type UpdateRequest struct {
	ID        int     `json:"-"`
	Name      *string `json:"name"       form:"name"`
	Email     *string `json:"email"      form:"email"`
	Password  *string `json:"password"   form:"password"`
	Role      *string `json:"role"       form:"role"`
	StudentID *string `json:"student_id" form:"student_id"`
	TeacherID *string `json:"teacher_id" form:"teacher_id"`
	Class     *string `json:"class"      form:"class"`
	Phone     *string `json:"phone"      form:"phone"`
}
