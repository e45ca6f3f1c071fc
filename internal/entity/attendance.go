package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// TimeLayout is the wall clock layout of check_in / check_out.
const TimeLayout = "15:04:05"

// DateLayout is the layout of calendar dates on the wire.
const DateLayout = "2006-01-02"

// MaxNotesLength bounds teacher notes, in characters.
const MaxNotesLength = 500

type Attendance struct {
	bun.BaseModel `bun:"table:attendances,alias:a"`

	ID        int       `json:"id"         bun:"id,pk,autoincrement"`
	UserID    int       `json:"user_id"    bun:"user_id,notnull"`
	Date      Day       `json:"date"       bun:"date,type:date,notnull"`
	Status    Status    `json:"status"     bun:"status,notnull"`
	CheckIn   *string   `json:"check_in"   bun:"check_in,type:time"`
	CheckOut  *string   `json:"check_out"  bun:"check_out,type:time"`
	Notes     *string   `json:"notes"      bun:"notes"`
	MarkedBy  *int      `json:"marked_by"  bun:"marked_by"`
	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// AttendanceKey identifies the single record a student may have on a day.
type AttendanceKey struct {
	UserID int
	Date   time.Time
}

// AttendanceMutation is applied to the record of a key inside the store's
// atomic upsert. created reports whether the row was inserted by this call
// (holding only the defaults). It returns whether rec must be written back;
// a non nil error aborts the upsert without any write.
type AttendanceMutation func(rec *Attendance, created bool) (bool, error)

// AttendanceDetail is a record joined with its student and marker.
type AttendanceDetail struct {
	Attendance `bun:",extend"`

	UserName     string  `json:"user_name"      bun:"user_name,scanonly"`
	StudentID    *string `json:"student_id"     bun:"student_number,scanonly"`
	Class        *string `json:"class"          bun:"class,scanonly"`
	MarkedByName *string `json:"marked_by_name" bun:"marked_by_name,scanonly"`
}

// RecordFilter narrows record queries. A nil field does not filter; a non
// nil but empty UserIDs matches nothing.
type RecordFilter struct {
	UserIDs []int
	From    *time.Time
	To      *time.Time
	Status  *Status
	Class   *string
}

// Page is a 1 based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// DateOf returns the calendar date of t as midnight UTC, so that dates
// compare and store the same whatever zone t was read in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClockOf returns the wall clock of t in TimeLayout.
func ClockOf(t time.Time) string {
	return t.Format(TimeLayout)
}
