package cql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/errors"

	"github.com/username/date-calendar/internal/calendar"
)

// Unit is the unit of a statement's duration
type Unit int

const (
	Days Unit = iota + 1
	Weeks
	Months
	Years
)

var unitsByWord = map[string]Unit{
	"day":    Days,
	"days":   Days,
	"week":   Weeks,
	"weeks":  Weeks,
	"month":  Months,
	"months": Months,
	"year":   Years,
	"years":  Years,
}

// MaxYears bounds the window a statement may describe
const MaxYears = 100

// MaxPeriod is the longest window in days, MaxYears of Gregorian calendar
const MaxPeriod = MaxYears*365 + MaxYears/4

// maxLength is the largest duration length accepted for u
func maxLength(u Unit) int {
	switch u {
	case Weeks:
		return MaxPeriod / 7
	case Months:
		return MaxYears * 12
	case Years:
		return MaxYears
	default:
		return MaxPeriod
	}
}

func unitWords() []string {
	return []string{"days", "day", "weeks", "week", "months", "month", "years", "year"}
}

func (u Unit) String() string {
	switch u {
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	default:
		return "unknown"
	}
}

// Filter removes a class of days from the created calendar
type Filter int

const (
	WithoutWeekends Filter = iota + 1
	WithoutWeekdays
)

var filtersByWord = map[string]Filter{
	"without_weekends": WithoutWeekends,
	"without_weekdays": WithoutWeekdays,
}

func (f Filter) String() string {
	switch f {
	case WithoutWeekends:
		return "without_weekends"
	case WithoutWeekdays:
		return "without_weekdays"
	default:
		return "unknown"
	}
}

// Statement is a parsed create calendar statement
type Statement struct {
	Type    string
	Name    string
	Start   calendar.Date
	Length  int
	Unit    Unit
	Filters []Filter
}

// Has reports whether the statement applies filter f
func (s *Statement) Has(f Filter) bool {
	for _, have := range s.Filters {
		if have == f {
			return true
		}
	}
	return false
}

// EndDate returns the last day covered by the statement's duration
func (s *Statement) EndDate() calendar.Date {
	t := s.Start.In(time.UTC)
	switch s.Unit {
	case Weeks:
		t = t.AddDate(0, 0, 7*s.Length)
	case Months:
		t = t.AddDate(0, s.Length, 0)
	case Years:
		t = t.AddDate(s.Length, 0, 0)
	default:
		t = t.AddDate(0, 0, s.Length)
	}
	return calendar.DateOf(t).AddDays(-1)
}

// Period returns the number of days between Start and EndDate inclusive
func (s *Statement) Period() int {
	return s.EndDate().DaysSince(s.Start) + 1
}

// Constraints describes the days kept by the statement's filters for
// display. With both filters nothing is kept and the result is empty.
func (s *Statement) Constraints() datetime.Constraints {
	return datetime.Constraints{
		Weekdays: !s.Has(WithoutWeekdays),
		Weekends: !s.Has(WithoutWeekends),
	}
}

// Tokens returns the named values recognised in the statement
func (s *Statement) Tokens() map[string]string {
	tokens := map[string]string{
		"statementType":      s.Type,
		"calendarIdentifier": s.Name,
		"startDate":          s.Start.String(),
		"duration":           strconv.Itoa(s.Length),
		"durationUnit":       s.Unit.String(),
	}
	if len(s.Filters) > 0 {
		names := make([]string, 0, len(s.Filters))
		for _, f := range s.Filters {
			names = append(names, f.String())
		}
		tokens["filters"] = strings.Join(names, ",")
	}
	return tokens
}

func (s *Statement) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s calendar '%s' start %s duration %d %s", s.Type, s.Name, s.Start, s.Length, s.Unit)
	for _, f := range s.Filters {
		out.WriteString(" ")
		out.WriteString(f.String())
	}
	return out.String()
}

// Calendar creates the calendar the statement describes. Listener failures
// are returned together with the calendar; any other failure returns nil.
func (s *Statement) Calendar(listeners ...calendar.Listener) (*calendar.Calendar, error) {
	if s.Length > maxLength(s.Unit) {
		return nil, fmt.Errorf("failed to create calendar '%s': duration %d %s exceeds %d years",
			s.Name, s.Length, s.Unit, MaxYears)
	}
	c, err := calendar.New(s.EndDate(), s.Name, s.Period(), listeners...)
	if c == nil {
		return nil, fmt.Errorf("failed to create calendar '%s': %w", s.Name, err)
	}

	errs := &errors.M{}
	errs.Append(err)
	if s.Has(WithoutWeekends) {
		errs.Append(c.RemoveWeekendDays())
	}
	if s.Has(WithoutWeekdays) {
		errs.Append(c.RemoveWeekDays())
	}
	return c, errs.Err()
}
