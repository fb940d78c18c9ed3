package calendar

import (
	"sync"
)

var (
	emptyOnce sync.Once
	empty     *Calendar
)

// Empty returns the shared calendar holding no dates. It is built once per
// process and is read-only: every mutator and Register fail with
// ErrInvalidState.
func Empty() *Calendar {
	emptyOnce.Do(func() {
		c, err := NewDefault(Today())
		if err != nil {
			panic(err)
		}
		// no listeners are registered, so neither call can fail
		_ = c.RemoveWeekDays()
		_ = c.RemoveWeekendDays()
		c.frozen = true
		empty = c
	})
	return empty
}

// Intersect is reserved for combining calendars into their common dates
func Intersect(calendars []*Calendar) (*Calendar, error) {
	if err := checkCalendars(calendars); err != nil {
		return nil, err
	}
	return nil, ErrNotImplemented
}

// Union is reserved for combining calendars into all of their dates
func Union(calendars []*Calendar) (*Calendar, error) {
	if err := checkCalendars(calendars); err != nil {
		return nil, err
	}
	return nil, ErrNotImplemented
}

func checkCalendars(calendars []*Calendar) error {
	if calendars == nil {
		return invalidArgument("mandatory argument 'calendars' is missing")
	}
	if len(calendars) == 0 {
		return invalidState("at least one calendar is required")
	}
	return nil
}
