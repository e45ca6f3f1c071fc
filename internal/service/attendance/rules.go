package attendance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Azure/go-autorest/autorest/date"

	"school-attendance/backend/internal/entity"
)

type MarkRequest struct {
	UserID int     `json:"user_id" form:"user_id"`
	Date   string  `json:"date"    form:"date"`
	Status string  `json:"status"  form:"status"`
	Notes  *string `json:"notes"   form:"notes"`
}

// Mark is a validated MarkRequest.
type Mark struct {
	UserID int
	Date   time.Time
	Status entity.Status
	Notes  *string
}

// ValidateMark checks the shape of a mark request. It does not look at the
// target user.
func ValidateMark(req MarkRequest) (Mark, error) {
	if req.UserID <= 0 {
		return Mark{}, invalid("user_id", "is required")
	}

	d, err := date.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return Mark{}, invalid("date", "must be a date in YYYY-MM-DD format")
	}

	status, ok := entity.ParseStatus(req.Status)
	if !ok {
		return Mark{}, invalid("status", "must be one of PRESENT, EXCUSED_LEAVE, SICK, UNEXCUSED")
	}

	var notes *string
	if req.Notes != nil && *req.Notes != "" {
		if utf8.RuneCountInString(*req.Notes) > entity.MaxNotesLength {
			return Mark{}, invalid("notes", "must be at most 500 characters")
		}
		n := *req.Notes
		notes = &n
	}

	return Mark{
		UserID: req.UserID,
		Date:   entity.DateOf(d.ToTime()),
		Status: status,
		Notes:  notes,
	}, nil
}

// ApplyCheckIn marks the student present at clock. A record already holding
// a check in is left untouched, so repeated check ins keep the first time.
func ApplyCheckIn(clock string) entity.AttendanceMutation {
	return func(rec *entity.Attendance, _ bool) (bool, error) {
		if rec.CheckIn != nil {
			return false, nil
		}

		rec.Status = entity.StatusPresent
		rec.CheckIn = &clock

		return true, nil
	}
}

// ApplyCheckOut records the departure at clock. The status is kept.
//
// A record without a check in is refused with ErrNoCheckInYet, including
// one created by a teacher mark, so a stored check out always has a check
// in before it. Such a record is not given a check out.
func ApplyCheckOut(clock string) entity.AttendanceMutation {
	return func(rec *entity.Attendance, created bool) (bool, error) {
		if created || rec.CheckIn == nil {
			return false, ErrNoCheckInYet
		}
		if rec.CheckOut != nil {
			return false, ErrAlreadyCheckedOut
		}

		rec.CheckOut = &clock

		return true, nil
	}
}

// ApplyMark overrides status and notes on behalf of markerID. Check in and
// check out times are kept.
func ApplyMark(m Mark, markerID int) entity.AttendanceMutation {
	return func(rec *entity.Attendance, _ bool) (bool, error) {
		rec.Status = m.Status
		rec.Notes = m.Notes
		rec.MarkedBy = &markerID

		return true, nil
	}
}
