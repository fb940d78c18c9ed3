package calendar

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"cloudeng.io/errors"
)

const (
	// DefaultPeriod is the window length used by NewDefault
	DefaultPeriod = 365
	// DefaultName is the name used by NewDefault
	DefaultName = "default"
)

var (
	weekendDays = []time.Weekday{time.Saturday, time.Sunday}
	weekDays    = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

// Calendar manages an ordered set of dates bounded by [StartDate, EndDate].
// Dates are kept unique and sorted newest first. A Calendar is not safe for
// concurrent mutation; callers serialize access themselves.
type Calendar struct {
	name      string
	endDate   Date
	period    int
	days      []Date
	listeners []Listener
	frozen    bool
}

// New creates a calendar holding every day of the period ending at endDate
// and notifies the supplied listeners with an Initialised event.
// When a listener fails the calendar is still returned alongside the error.
func New(endDate Date, name string, period int, listeners ...Listener) (*Calendar, error) {
	if !endDate.IsValid() {
		return nil, invalidArgument("mandatory argument 'endDate' is missing")
	}
	if name == "" {
		return nil, invalidArgument("mandatory argument 'name' is missing")
	}
	if period <= 0 {
		return nil, invalidState("argument 'period' must be > 0, got %d", period)
	}
	for i, listener := range listeners {
		if listener == nil {
			return nil, invalidArgument("listener %d is missing", i)
		}
	}

	c := &Calendar{
		name:    name,
		endDate: endDate,
		period:  period,
		days:    make([]Date, period),
	}
	for i := 0; i < period; i++ {
		c.days[i] = endDate.AddDays(-i)
	}
	c.listeners = append(c.listeners, listeners...)

	if err := c.notify(Initialised, "Calendar initialised.", c); err != nil {
		return c, err
	}
	return c, nil
}

// NewDefault creates a calendar named DefaultName spanning DefaultPeriod days
func NewDefault(endDate Date) (*Calendar, error) {
	return New(endDate, DefaultName, DefaultPeriod)
}

// Name returns the calendar name
func (c *Calendar) Name() string {
	return c.name
}

// EndDate returns the last date of the window, present or not
func (c *Calendar) EndDate() Date {
	return c.endDate
}

// StartDate returns the first date of the window, present or not
func (c *Calendar) StartDate() Date {
	return c.endDate.AddDays(-(c.period - 1))
}

// Period returns the window length in days
func (c *Calendar) Period() int {
	return c.period
}

// Len returns the number of dates currently present
func (c *Calendar) Len() int {
	return len(c.days)
}

// AllDates returns a copy of the present dates, newest first
func (c *Calendar) AllDates() []Date {
	return slices.Clone(c.days)
}

// IsOutsideRange reports whether d lies outside [StartDate, EndDate]
func (c *Calendar) IsOutsideRange(d Date) bool {
	return d.After(c.endDate) || d.Before(c.StartDate())
}

func (c *Calendar) String() string {
	return fmt.Sprintf("%s [%s..%s] %d/%d days", c.name, c.StartDate(), c.endDate, len(c.days), c.period)
}

// mutable fails with ErrInvalidState once the calendar has been frozen
func (c *Calendar) mutable() error {
	if c.frozen {
		return invalidState("calendar %q is read-only", c.name)
	}
	return nil
}

// search returns the position of d, or the position it would be inserted at
// to keep the days sorted newest first.
func (c *Calendar) search(d Date) (int, bool) {
	i := sort.Search(len(c.days), func(i int) bool {
		return !c.days[i].After(d)
	})
	return i, i < len(c.days) && c.days[i] == d
}

// removeWhere drops every date matching fn and returns how many went
func (c *Calendar) removeWhere(fn func(Date) bool) int {
	kept := c.days[:0]
	for _, d := range c.days {
		if !fn(d) {
			kept = append(kept, d)
		}
	}
	removed := len(c.days) - len(kept)
	c.days = kept
	return removed
}

// Add inserts d. Adding a date that is already present does nothing;
// adding a date outside the window always fails.
func (c *Calendar) Add(d Date) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if !d.IsValid() {
		return invalidArgument("mandatory argument 'date' is missing")
	}
	if c.IsOutsideRange(d) {
		return invalidArgument("date %s is outside of calendar range [%s, %s]", d, c.StartDate(), c.endDate)
	}
	i, found := c.search(d)
	if found {
		return nil
	}
	c.days = slices.Insert(c.days, i, d)
	return c.notify(DateAdded, "New date added to calendar.", c, d)
}

// AddCalendar adds every date of other. All of other's dates must fit this
// calendar's window; nothing is added otherwise.
func (c *Calendar) AddCalendar(other *Calendar) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if other == nil {
		return invalidArgument("mandatory argument 'calendar' is missing")
	}
	dates := other.AllDates()
	for _, d := range dates {
		if c.IsOutsideRange(d) {
			return invalidArgument("date %s of calendar %q is outside of calendar range [%s, %s]",
				d, other.name, c.StartDate(), c.endDate)
		}
	}

	errs := &errors.M{}
	for _, d := range dates {
		errs.Append(c.Add(d))
	}
	errs.Append(c.notify(CalendarAdded,
		fmt.Sprintf("Calendar dates from %s added to %s.", other.name, c.name), other))
	return errs.Err()
}

// Remove removes d, failing if d is not present
func (c *Calendar) Remove(d Date) error {
	return c.RemoveDate(d, false)
}

// RemoveDate removes d. With ignoreNotLocated an absent date is a silent no-op.
func (c *Calendar) RemoveDate(d Date, ignoreNotLocated bool) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if !d.IsValid() {
		return invalidArgument("mandatory argument 'date' is missing")
	}
	i, found := c.search(d)
	if !found {
		if ignoreNotLocated {
			return nil
		}
		return invalidArgument("date %s is not managed by calendar %q", d, c.name)
	}
	c.days = slices.Delete(c.days, i, i+1)
	return c.notify(DateRemoved, "Date removed from calendar.", c, d)
}

// RemoveAll removes dates, failing before any removal if one is not present
func (c *Calendar) RemoveAll(dates []Date) error {
	return c.RemoveDates(dates, false)
}

// RemoveDates removes every supplied date that is present. Unless
// ignoreUnknownDates is set, all dates must be present or nothing is removed.
// A nil slice is treated as a missing argument.
func (c *Calendar) RemoveDates(dates []Date, ignoreUnknownDates bool) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if dates == nil {
		return invalidArgument("mandatory argument 'dates' is missing")
	}
	for _, d := range dates {
		if !d.IsValid() {
			return invalidArgument("dates contain a missing date")
		}
	}
	if !ignoreUnknownDates {
		for _, d := range dates {
			if _, found := c.search(d); !found {
				return invalidArgument("one or more dates are not managed by calendar %q: %s", c.name, d)
			}
		}
	}

	set := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	removed := c.removeWhere(func(d Date) bool {
		_, ok := set[d]
		return ok
	})
	if removed == 0 {
		return nil
	}
	return c.notify(DatesRemoved, "Collection of dates removed from calendar.", c, dates...)
}

// RemoveDayOfWeek removes every date falling on wd
func (c *Calendar) RemoveDayOfWeek(wd time.Weekday) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if wd < time.Sunday || wd > time.Saturday {
		return invalidArgument("unknown day of week %d", int(wd))
	}
	removed := c.removeWhere(func(d Date) bool {
		return d.Weekday() == wd
	})
	if removed == 0 {
		return nil
	}
	return c.notify(DayOfWeekRemoved,
		fmt.Sprintf("Day of Week removed [%s]", strings.ToUpper(wd.String())), c)
}

// RemoveWeekendDays removes Saturdays and Sundays
func (c *Calendar) RemoveWeekendDays() error {
	return c.removeDaysOfWeek(weekendDays, "All weekend dates have been removed from calendar.")
}

// RemoveWeekDays removes Monday to Friday
func (c *Calendar) RemoveWeekDays() error {
	return c.removeDaysOfWeek(weekDays, "All weekday dates have been removed from calendar.")
}

// removeDaysOfWeek fires one event per weekday that changed the set,
// then one summary event.
func (c *Calendar) removeDaysOfWeek(days []time.Weekday, summary string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	errs := &errors.M{}
	for _, wd := range days {
		errs.Append(c.RemoveDayOfWeek(wd))
	}
	errs.Append(c.notify(DayOfWeekRemoved, summary, c))
	return errs.Err()
}

// RemoveCalendar removes every date of other that is present here.
// A calendar cannot be removed from itself.
func (c *Calendar) RemoveCalendar(other *Calendar) error {
	if err := c.mutable(); err != nil {
		return err
	}
	if other == nil {
		return invalidArgument("mandatory argument 'calendar' is missing")
	}
	if other == c {
		return invalidState("a calendar cannot be removed from itself")
	}

	errs := &errors.M{}
	for _, d := range other.days {
		errs.Append(c.RemoveDate(d, true))
	}
	errs.Append(c.notify(CalendarRemoved,
		fmt.Sprintf("Calendar dates from %s removed from %s.", other.name, c.name), other))
	return errs.Err()
}
