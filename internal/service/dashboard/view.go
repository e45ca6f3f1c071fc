package dashboard

import (
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/service/statistics"
)

// View is the screen model of one role. Exactly one of Student, Teacher
// and Admin is set, or Redirect when the caller has no known role.
type View struct {
	Role     entity.Role  `json:"role,omitempty"`
	Student  *StudentView `json:"student,omitempty"`
	Teacher  *TeacherView `json:"teacher,omitempty"`
	Admin    *AdminView   `json:"admin,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

type Filters struct {
	Class    *string
	Date     *string
	DateFrom *string
	DateTo   *string
	Status   *string
	Page     *int
	Days     *int
}

type StudentView struct {
	Today           string              `json:"today"`
	TodayAttendance *entity.Attendance  `json:"today_attendance"`
	Stats           statistics.Summary  `json:"stats"`
	Recent          []entity.Attendance `json:"recent_attendances"`
	CanCheckIn      bool                `json:"can_check_in"`
	CanCheckOut     bool                `json:"can_check_out"`
}

type TeacherTodayStats struct {
	TotalStudents int `json:"total_students"`
	Present       int `json:"present"`
	Absent        int `json:"absent"`
	NotMarked     int `json:"not_marked"`
}

type TeacherMonthlyStats struct {
	AttendanceRate float64 `json:"attendance_rate"`
	TotalRecords   int     `json:"total_records"`
}

type TeacherView struct {
	Today         string                    `json:"today"`
	SelectedDate  string                    `json:"selected_date"`
	SelectedClass *string                   `json:"selected_class"`
	AssignedClass *string                   `json:"assigned_class"`
	Students      []entity.User             `json:"students"`
	Attendances   map[int]entity.Attendance `json:"attendances"`
	TodayStats    TeacherTodayStats         `json:"today_stats"`
	MonthlyStats  TeacherMonthlyStats       `json:"monthly_stats"`
	Classes       []string                  `json:"classes"`
}

type AdminFilters struct {
	Class    *string `json:"class"`
	DateFrom *string `json:"date_from"`
	DateTo   *string `json:"date_to"`
	Status   *string `json:"status"`
	Page     int     `json:"page"`
}

type AdminTodayStats struct {
	TotalStudents  int     `json:"total_students"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	NotMarked      int     `json:"not_marked"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type AdminMonthlyStats struct {
	TotalRecords   int     `json:"total_records"`
	AttendanceRate float64 `json:"attendance_rate"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
}

type RecordPage struct {
	Results  []entity.AttendanceDetail `json:"results"`
	Count    int                       `json:"count"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	LastPage int                       `json:"last_page"`
}

type AdminView struct {
	Today           string                  `json:"today"`
	Filters         AdminFilters            `json:"filters"`
	Records         RecordPage              `json:"attendances"`
	TotalStudents   int                     `json:"total_students"`
	TotalTeachers   int                     `json:"total_teachers"`
	TodayStats      AdminTodayStats         `json:"today_stats"`
	MonthlyStats    AdminMonthlyStats       `json:"monthly_stats"`
	StatusBreakdown map[entity.Status]int   `json:"status_breakdown"`
	OverallRate     float64                 `json:"overall_attendance_rate"`
	ClassStats      []statistics.ClassCount `json:"class_stats"`
	Classes         []string                `json:"classes"`
}
