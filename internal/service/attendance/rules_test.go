package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"school-attendance/backend/internal/entity"
)

func strPtr(s string) *string { return &s }

func TestValidateMark(t *testing.T) {
	tests := []struct {
		name  string
		req   MarkRequest
		field string
	}{
		{"valid", MarkRequest{UserID: 4, Date: "2024-03-01", Status: "SICK"}, ""},
		{"lower case status", MarkRequest{UserID: 4, Date: "2024-03-01", Status: "excused_leave"}, ""},
		{"missing user", MarkRequest{Date: "2024-03-01", Status: "SICK"}, "user_id"},
		{"bad date", MarkRequest{UserID: 4, Date: "01/03/2024", Status: "SICK"}, "date"},
		{"impossible date", MarkRequest{UserID: 4, Date: "2024-02-30", Status: "SICK"}, "date"},
		{"unknown status", MarkRequest{UserID: 4, Date: "2024-03-01", Status: "LATE"}, "status"},
		{"long notes", MarkRequest{UserID: 4, Date: "2024-03-01", Status: "SICK", Notes: strPtr(strings.Repeat("a", 501))}, "notes"},
		{"notes at limit", MarkRequest{UserID: 4, Date: "2024-03-01", Status: "SICK", Notes: strPtr(strings.Repeat("é", 500))}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateMark(tt.req)

			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var v *ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if v.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, v.Field)
			}
		})
	}
}

func TestValidateMarkNormalizes(t *testing.T) {
	m, err := ValidateMark(MarkRequest{UserID: 4, Date: "2024-03-01", Status: "sick", Notes: strPtr("")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Status != entity.StatusSick {
		t.Errorf("expected SICK, got %s", m.Status)
	}
	if !m.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", m.Date)
	}
	if m.Notes != nil {
		t.Error("expected empty notes to become nil")
	}
}

func TestApplyCheckIn(t *testing.T) {
	rec := entity.Attendance{Status: entity.StatusUnexcused}

	changed, err := ApplyCheckIn("07:00:00")(&rec, true)
	if err != nil || !changed {
		t.Fatalf("expected a change, got %v %v", changed, err)
	}
	if rec.Status != entity.StatusPresent || *rec.CheckIn != "07:00:00" {
		t.Errorf("unexpected record %+v", rec)
	}

	changed, err = ApplyCheckIn("07:30:00")(&rec, false)
	if err != nil || changed {
		t.Fatalf("expected no change, got %v %v", changed, err)
	}
	if *rec.CheckIn != "07:00:00" {
		t.Errorf("expected the first check in to stay, got %s", *rec.CheckIn)
	}
}

func TestApplyCheckInOnMarkedRecord(t *testing.T) {
	marker := 2
	rec := entity.Attendance{Status: entity.StatusSick, MarkedBy: &marker, Notes: strPtr("flu")}

	changed, err := ApplyCheckIn("08:00:00")(&rec, false)
	if err != nil || !changed {
		t.Fatalf("expected a change, got %v %v", changed, err)
	}
	if rec.Status != entity.StatusPresent || *rec.CheckIn != "08:00:00" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.MarkedBy == nil || *rec.Notes != "flu" {
		t.Error("expected marker and notes to be kept")
	}
}

func TestApplyCheckOut(t *testing.T) {
	tests := []struct {
		name    string
		rec     entity.Attendance
		created bool
		err     error
	}{
		{"no record", entity.Attendance{}, true, ErrNoCheckInYet},
		{"marked without check in", entity.Attendance{Status: entity.StatusSick}, false, ErrNoCheckInYet},
		{"already out", entity.Attendance{CheckIn: strPtr("07:00:00"), CheckOut: strPtr("14:00:00")}, false, ErrAlreadyCheckedOut},
		{"checked in", entity.Attendance{Status: entity.StatusPresent, CheckIn: strPtr("07:00:00")}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			changed, err := ApplyCheckOut("15:00:00")(&rec, tt.created)

			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if tt.err != nil {
				if rec.CheckOut != tt.rec.CheckOut {
					t.Errorf("expected a refused check out to leave the record alone, got %+v", rec)
				}
				return
			}
			if !changed || *rec.CheckOut != "15:00:00" {
				t.Errorf("unexpected record %+v", rec)
			}
			if rec.Status != tt.rec.Status {
				t.Error("expected status to be kept")
			}
		})
	}
}

func TestApplyMarkKeepsTimes(t *testing.T) {
	rec := entity.Attendance{
		Status:   entity.StatusPresent,
		CheckIn:  strPtr("07:00:00"),
		CheckOut: strPtr("14:00:00"),
	}

	m := Mark{Status: entity.StatusExcusedLeave, Notes: strPtr("family")}
	if _, err := ApplyMark(m, 9)(&rec, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Status != entity.StatusExcusedLeave || *rec.Notes != "family" || *rec.MarkedBy != 9 {
		t.Errorf("unexpected record %+v", rec)
	}
	if *rec.CheckIn != "07:00:00" || *rec.CheckOut != "14:00:00" {
		t.Error("expected check in and check out to be kept")
	}
}
