package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		valid bool
	}{
		{"PRESENT", StatusPresent, true},
		{"sick", StatusSick, true},
		{" excused_leave ", StatusExcusedLeave, true},
		{"Unexcused", StatusUnexcused, true},
		{"hadir", Status("HADIR"), false},
		{"", Status(""), false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.valid {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("teacher"); !ok || r != RoleTeacher {
		t.Errorf("expected TEACHER, got %q %v", r, ok)
	}
	if _, ok := ParseRole("principal"); ok {
		t.Error("expected principal to be rejected")
	}
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	at := time.Date(2024, 3, 1, 6, 30, 0, 0, jakarta)

	got := DateOf(at)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
	if ClockOf(at) != "06:30:00" {
		t.Errorf("ClockOf = %q", ClockOf(at))
	}
}

func TestPageOffset(t *testing.T) {
	if off := (Page{Number: 3, Size: 20}).Offset(); off != 40 {
		t.Errorf("expected 40, got %d", off)
	}
	if off := (Page{Number: 0, Size: 20}).Offset(); off != 0 {
		t.Errorf("expected 0, got %d", off)
	}
}

func TestSchoolClassFullName(t *testing.T) {
	ipa := "IPA"
	tests := []struct {
		class SchoolClass
		want  string
	}{
		{SchoolClass{Name: "XI-IPA-1", Grade: "XI", Major: &ipa}, "XI IPA (XI-IPA-1)"},
		{SchoolClass{Name: "X", Grade: "X"}, "X"},
	}
	for _, tt := range tests {
		if got := tt.class.FullName(); got != tt.want {
			t.Errorf("FullName = %q, want %q", got, tt.want)
		}
	}
}

func TestDayJSON(t *testing.T) {
	rec := Attendance{Date: DayOf(time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600)))}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["date"] != "2024-03-01" {
		t.Errorf("expected a date only value, got %v", out["date"])
	}

	var back Attendance
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", back.Date)
	}
}

func TestDayScanAndValue(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, src := range []interface{}{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("", 0)),
		[]byte("2024-03-01"),
		"2024-03-01T00:00:00Z",
	} {
		var d Day
		if err := d.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if !d.Equal(want) {
			t.Errorf("Scan(%v) = %v", src, d)
		}
	}

	var d Day
	if err := d.Scan(42); err == nil {
		t.Error("expected an int to be refused")
	}

	v, err := DayOf(want).Value()
	if err != nil || v != "2024-03-01" {
		t.Errorf("Value = %v, %v", v, err)
	}
}
