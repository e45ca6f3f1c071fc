package entity

import "strings"

// Status classifies a day of attendance.
type Status string

const (
	StatusPresent      Status = "PRESENT"
	StatusExcusedLeave Status = "EXCUSED_LEAVE"
	StatusSick         Status = "SICK"
	StatusUnexcused    Status = "UNEXCUSED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusExcusedLeave, StatusSick, StatusUnexcused}

// Valid returns true when the status is a supported value.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusExcusedLeave, StatusSick, StatusUnexcused:
		return true
	default:
		return false
	}
}

// ParseStatus accepts a status in any letter case.
func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}
