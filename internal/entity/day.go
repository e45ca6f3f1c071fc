package entity

import (
	"database/sql/driver"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

// Day is a calendar date. It is stored as a SQL date and written as
// YYYY-MM-DD on the wire.
type Day struct {
	time.Time
}

// DayOf returns the calendar date of t.
func DayOf(t time.Time) Day {
	return Day{DateOf(t)}
}

func (d Day) String() string {
	return d.Format(DateLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return date.Date{Time: d.Time}.MarshalJSON()
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var v date.Date
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*d = DayOf(v.ToTime())
	return nil
}

func (d Day) MarshalText() ([]byte, error) {
	return date.Date{Time: d.Time}.MarshalText()
}

func (d *Day) UnmarshalText(data []byte) error {
	var v date.Date
	if err := v.UnmarshalText(data); err != nil {
		return err
	}
	*d = DayOf(v.ToTime())
	return nil
}

// Value writes the date without a time or zone.
func (d Day) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// Scan reads a SQL date, given either as a time or as text.
func (d *Day) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
	case time.Time:
		*d = DayOf(v)
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return errors.Errorf("cannot scan %T into a date", src)
	}
	return nil
}

func (d *Day) parse(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return errors.Wrapf(err, "parsing date %q", s)
	}
	*d = Day{t}
	return nil
}
