// Package dashboard builds the screen model of the caller's role.
package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/pkg/clock"
	"school-attendance/backend/internal/service/statistics"
)

const (
	// PageSize is the number of records per admin page.
	PageSize = 20

	defaultRecentDays = 7
	maxRecentDays     = 90
)

type Records interface {
	FindRecord(ctx context.Context, userID int, date time.Time) (*entity.Attendance, error)
	QueryRecords(ctx context.Context, filter entity.RecordFilter) ([]entity.Attendance, error)
	ListRecords(ctx context.Context, filter entity.RecordFilter, page entity.Page) ([]entity.AttendanceDetail, int, error)
	CountByStatus(ctx context.Context, filter entity.RecordFilter) (map[entity.Status]int, error)
}

type Users interface {
	GetById(ctx context.Context, id int) (entity.User, error)
	ListUsers(ctx context.Context, filter entity.UserFilter) ([]entity.User, error)
}

type Service struct {
	records Records
	users   Users
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(records Records, users Users, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{
		records: records,
		users:   users,
		clock:   clk,
		log:     log,
	}
}

// View dispatches on the caller's role. An unknown role is not an error; it
// yields a redirect to the landing page.
func (s Service) View(ctx context.Context, caller entity.Identity, filters Filters) (View, error) {
	switch caller.Role {
	case entity.RoleStudent:
		v, err := s.studentView(ctx, caller, filters)
		if err != nil {
			return View{}, s.fail(caller, err)
		}
		return View{Role: caller.Role, Student: &v}, nil

	case entity.RoleTeacher:
		v, err := s.teacherView(ctx, caller, filters)
		if err != nil {
			return View{}, s.fail(caller, err)
		}
		return View{Role: caller.Role, Teacher: &v}, nil

	case entity.RoleAdmin:
		v, err := s.adminView(ctx, filters)
		if err != nil {
			return View{}, s.fail(caller, err)
		}
		return View{Role: caller.Role, Admin: &v}, nil
	}

	s.log.Warn("view requested without a known role", zap.Int("user_id", caller.UserID), zap.String("role", string(caller.Role)))

	return View{Redirect: "/"}, nil
}

func (s Service) studentView(ctx context.Context, caller entity.Identity, filters Filters) (StudentView, error) {
	now := s.clock.Now()

	days := defaultRecentDays
	if filters.Days != nil {
		days = *filters.Days
		if days < 1 || days > maxRecentDays {
			return StudentView{}, web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "days", Error: "must be between 1 and 90"})
		}
	}

	today, err := s.records.FindRecord(ctx, caller.UserID, entity.DateOf(now))
	if err != nil {
		return StudentView{}, errors.Wrap(err, "reading today's attendance")
	}

	month := statistics.ThisMonth(now)
	recent := statistics.LastDays(now, days)

	from := *month.From
	if recent.From.Before(from) {
		from = *recent.From
	}

	list, err := s.records.QueryRecords(ctx, entity.RecordFilter{UserIDs: []int{caller.UserID}, From: &from})
	if err != nil {
		return StudentView{}, errors.Wrap(err, "reading attendance history")
	}

	history := recent.Filter(list)
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return StudentView{
		Today:           now.Format(entity.DateLayout),
		TodayAttendance: today,
		Stats:           statistics.Summarize(month.Filter(list)),
		Recent:          history,
		CanCheckIn:      today == nil || today.CheckIn == nil,
		CanCheckOut:     today != nil && today.CheckIn != nil && today.CheckOut == nil,
	}, nil
}

func (s Service) teacherView(ctx context.Context, caller entity.Identity, filters Filters) (TeacherView, error) {
	now := s.clock.Now()

	selected := entity.DateOf(now)
	if filters.Date != nil {
		d, err := parseDate("date", *filters.Date)
		if err != nil {
			return TeacherView{}, err
		}
		selected = d
	}

	me, err := s.users.GetById(ctx, caller.UserID)
	if err != nil {
		return TeacherView{}, err
	}

	role := entity.RoleStudent
	students, err := s.users.ListUsers(ctx, entity.UserFilter{Role: &role})
	if err != nil {
		return TeacherView{}, err
	}

	class := filters.Class
	if class == nil {
		class = me.Class
	}

	roster := students
	if class != nil {
		roster = make([]entity.User, 0, len(students))
		for _, u := range students {
			if u.ClassName() == *class {
				roster = append(roster, u)
			}
		}
	}

	ids := make([]int, len(roster))
	for i, u := range roster {
		ids[i] = u.ID
	}

	day, err := s.records.QueryRecords(ctx, entity.RecordFilter{UserIDs: ids, From: &selected, To: &selected})
	if err != nil {
		return TeacherView{}, errors.Wrap(err, "reading attendance of the day")
	}

	byUser := make(map[int]entity.Attendance, len(day))
	for _, rec := range day {
		byUser[rec.UserID] = rec
	}

	month, err := s.records.QueryRecords(ctx, statistics.ThisMonth(now).Apply(entity.RecordFilter{UserIDs: ids}))
	if err != nil {
		return TeacherView{}, errors.Wrap(err, "reading attendance of the month")
	}

	todays := statistics.Today(now).Filter(month)
	summary := statistics.Summarize(todays)

	return TeacherView{
		Today:         now.Format(entity.DateLayout),
		SelectedDate:  selected.Format(entity.DateLayout),
		SelectedClass: class,
		AssignedClass: me.Class,
		Students:      roster,
		Attendances:   byUser,
		TodayStats: TeacherTodayStats{
			TotalStudents: len(roster),
			Present:       summary.Present,
			Absent:        summary.Absent,
			NotMarked:     statistics.NotMarked(ids, todays),
		},
		MonthlyStats: TeacherMonthlyStats{
			AttendanceRate: statistics.Rate(month),
			TotalRecords:   len(month),
		},
		Classes: statistics.Classes(students),
	}, nil
}

func (s Service) adminView(ctx context.Context, filters Filters) (AdminView, error) {
	now := s.clock.Now()

	list, applied, err := adminFilter(filters)
	if err != nil {
		return AdminView{}, err
	}

	page := entity.Page{Number: applied.Page, Size: PageSize}

	details, count, err := s.records.ListRecords(ctx, list, page)
	if err != nil {
		return AdminView{}, errors.Wrap(err, "listing attendance")
	}

	studentRole, teacherRole := entity.RoleStudent, entity.RoleTeacher

	students, err := s.users.ListUsers(ctx, entity.UserFilter{Role: &studentRole})
	if err != nil {
		return AdminView{}, err
	}
	teachers, err := s.users.ListUsers(ctx, entity.UserFilter{Role: &teacherRole})
	if err != nil {
		return AdminView{}, err
	}

	ids := make([]int, len(students))
	for i, u := range students {
		ids[i] = u.ID
	}

	month, err := s.records.QueryRecords(ctx, statistics.ThisMonth(now).Apply(entity.RecordFilter{}))
	if err != nil {
		return AdminView{}, errors.Wrap(err, "reading attendance of the month")
	}

	todays := statistics.Today(now).Filter(month)
	today := statistics.Summarize(todays)
	monthly := statistics.Summarize(month)

	overall, err := s.records.CountByStatus(ctx, entity.RecordFilter{})
	if err != nil {
		return AdminView{}, errors.Wrap(err, "counting attendance")
	}

	total := 0
	for _, n := range overall {
		total += n
	}

	return AdminView{
		Today:   now.Format(entity.DateLayout),
		Filters: applied,
		Records: RecordPage{
			Results:  details,
			Count:    count,
			Page:     page.Number,
			PageSize: page.Size,
			LastPage: lastPage(count, page.Size),
		},
		TotalStudents: len(students),
		TotalTeachers: len(teachers),
		TodayStats: AdminTodayStats{
			TotalStudents:  len(students),
			Present:        today.Present,
			Absent:         today.Absent,
			NotMarked:      statistics.NotMarked(ids, todays),
			AttendanceRate: today.Rate,
		},
		MonthlyStats: AdminMonthlyStats{
			TotalRecords:   monthly.Total,
			AttendanceRate: monthly.Rate,
			Present:        monthly.Present,
			Absent:         monthly.Absent,
		},
		StatusBreakdown: statistics.Breakdown(month),
		OverallRate:     statistics.RateOf(overall[entity.StatusPresent], total),
		ClassStats:      statistics.ClassCounts(students),
		Classes:         statistics.Classes(students),
	}, nil
}

// adminFilter turns the admin query filters into a record filter and the
// filters echoed back to the client.
func adminFilter(filters Filters) (entity.RecordFilter, AdminFilters, error) {
	var (
		list    entity.RecordFilter
		applied = AdminFilters{Page: 1}
	)

	if filters.Class != nil {
		list.Class = filters.Class
		applied.Class = filters.Class
	}

	if filters.DateFrom != nil {
		d, err := parseDate("date_from", *filters.DateFrom)
		if err != nil {
			return list, applied, err
		}
		list.From = &d
		applied.DateFrom = filters.DateFrom
	}

	if filters.DateTo != nil {
		d, err := parseDate("date_to", *filters.DateTo)
		if err != nil {
			return list, applied, err
		}
		list.To = &d
		applied.DateTo = filters.DateTo
	}

	if filters.Status != nil {
		status, ok := entity.ParseStatus(*filters.Status)
		if !ok {
			return list, applied, web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "status", Error: "must be one of PRESENT, EXCUSED_LEAVE, SICK, UNEXCUSED"})
		}
		list.Status = &status
		str := string(status)
		applied.Status = &str
	}

	if filters.Page != nil && *filters.Page > 1 {
		applied.Page = *filters.Page
	}

	return list, applied, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := date.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: field, Error: "must be a date in YYYY-MM-DD format"})
	}

	return entity.DateOf(d.ToTime()), nil
}

func lastPage(count, size int) int {
	if count == 0 {
		return 1
	}
	return (count + size - 1) / size
}

func (s Service) fail(caller entity.Identity, err error) error {
	if status, ok := web.StatusOf(err); ok && status < http.StatusInternalServerError {
		return err
	}

	s.log.Error("building view failed",
		zap.Int("user_id", caller.UserID),
		zap.String("role", string(caller.Role)),
		zap.Error(err))

	if _, ok := web.StatusOf(err); ok {
		return err
	}

	return web.NewRequestError(err, http.StatusInternalServerError)
}
