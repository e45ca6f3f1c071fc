package statistics

import (
	"time"

	"school-attendance/backend/internal/entity"
)

// Window is an inclusive range of calendar dates. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Today covers the calendar date of now.
func Today(now time.Time) Window {
	d := entity.DateOf(now)
	return Window{From: &d, To: &d}
}

// ThisMonth starts on the first day of now's month and has no end, so
// records dated later this month are included.
func ThisMonth(now time.Time) Window {
	d := entity.DateOf(now)
	first := d.AddDate(0, 0, 1-d.Day())
	return Window{From: &first}
}

// LastDays starts n days before now and has no end.
func LastDays(now time.Time, n int) Window {
	from := entity.DateOf(now).AddDate(0, 0, -n)
	return Window{From: &from}
}

// Contains reports whether the calendar date of t lies in the window.
func (w Window) Contains(t time.Time) bool {
	d := entity.DateOf(t)
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && d.After(*w.To) {
		return false
	}
	return true
}

// Filter returns the records dated inside the window, keeping their order.
func (w Window) Filter(records []entity.Attendance) []entity.Attendance {
	list := make([]entity.Attendance, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.Date.Time) {
			list = append(list, rec)
		}
	}
	return list
}

// Apply narrows a record filter to the window.
func (w Window) Apply(filter entity.RecordFilter) entity.RecordFilter {
	filter.From = w.From
	filter.To = w.To
	return filter
}
