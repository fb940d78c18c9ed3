package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar day without time or location
type Date civil.Date

// NewDate returns the Date for the given year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the Date on which t falls in t's location
func DateOf(t time.Time) Date {
	return Date(civil.DateOf(t))
}

// Today returns the current local date
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO 8601 date (2006-01-02)
func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	return Date(d), err
}

// Parse parses value with a time layout and keeps only the date part
func Parse(layout, value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) c() civil.Date {
	return civil.Date(d)
}

// IsValid reports whether d is a real calendar day. The zero Date is not valid.
func (d Date) IsValid() bool {
	return d.c().IsValid()
}

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	return Date(d.c().AddDays(n))
}

// DaysSince returns the signed number of days between s and d
func (d Date) DaysSince(s Date) int {
	return d.c().DaysSince(s.c())
}

// Before reports whether d is earlier than d2
func (d Date) Before(d2 Date) bool {
	return d.c().Before(d2.c())
}

// After reports whether d is later than d2
func (d Date) After(d2 Date) bool {
	return d.c().After(d2.c())
}

// Weekday returns the day of the week of d
func (d Date) Weekday() time.Weekday {
	return d.In(time.UTC).Weekday()
}

// SameMonth reports whether d and d2 share year and month
func (d Date) SameMonth(d2 Date) bool {
	return d.Year == d2.Year && d.Month == d2.Month
}

// In returns midnight of d in loc
func (d Date) In(loc *time.Location) time.Time {
	return d.c().In(loc)
}

// Format formats d with a time layout
func (d Date) Format(layout string) string {
	return d.In(time.UTC).Format(layout)
}

func (d Date) String() string {
	return d.c().String()
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return d.c().MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(data []byte) error {
	return (*civil.Date)(d).UnmarshalText(data)
}

// monthsBefore returns the year and month lying n months before d
func (d Date) monthsBefore(n int) (int, time.Month) {
	idx := d.Year*12 + int(d.Month) - 1 - n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return year, time.Month(month + 1)
}
