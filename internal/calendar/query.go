package calendar

import (
	"time"
)

// Day returns d when it is present. A missing date is not an error.
func (c *Calendar) Day(d Date) (Date, bool, error) {
	if !d.IsValid() {
		return Date{}, false, invalidArgument("mandatory argument 'date' is missing")
	}
	if _, found := c.search(d); !found {
		return Date{}, false, nil
	}
	return d, true, nil
}

// DayBefore returns the closest present date strictly before d.
// d itself does not need to be present, which allows querying gaps.
func (c *Calendar) DayBefore(d Date) (Date, bool, error) {
	if err := c.checkInRange(d); err != nil {
		return Date{}, false, err
	}
	if d == c.StartDate() {
		return Date{}, false, invalidArgument("date %s is the start of calendar %q, no day before exists", d, c.name)
	}
	if len(c.days) == 0 {
		return Date{}, false, invalidArgument("calendar %q has no dates", c.name)
	}

	i, found := c.search(d)
	if found {
		i++
	}
	if i >= len(c.days) {
		return Date{}, false, nil
	}
	return c.days[i], true, nil
}

// DatesForDayOfWeek returns the present dates falling on wd, newest first
func (c *Calendar) DatesForDayOfWeek(wd time.Weekday) ([]Date, error) {
	if wd < time.Sunday || wd > time.Saturday {
		return nil, invalidArgument("unknown day of week %d", int(wd))
	}
	return c.filter(func(d Date) bool {
		return d.Weekday() == wd
	}), nil
}

// DaysInMonth returns the present dates of the given year and month
func (c *Calendar) DaysInMonth(year int, month time.Month) ([]Date, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	return c.filter(func(d Date) bool {
		return d.Year == year && d.Month == month
	}), nil
}

// DaysInMonthAnyYear returns the present dates of month in every year covered
func (c *Calendar) DaysInMonthAnyYear(month time.Month) ([]Date, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	return c.filter(func(d Date) bool {
		return d.Month == month
	}), nil
}

// DaysInYear returns the present dates of year
func (c *Calendar) DaysInYear(year int) []Date {
	return c.filter(func(d Date) bool {
		return d.Year == year
	})
}

// IsFirstDayInTheMonth reports whether d is present and the present date
// before it lies in another month. The first day is relative to the dates
// present: removing the 1st makes the 2nd the first day.
func (c *Calendar) IsFirstDayInTheMonth(d Date) (bool, error) {
	if err := c.checkInRange(d); err != nil {
		return false, err
	}
	i, found := c.search(d)
	if !found {
		return false, nil
	}
	return c.isFirstAt(i), nil
}

// IsDayOfTheMonth reports whether d is present and is the offset-th present
// day of its month, counting from 1.
func (c *Calendar) IsDayOfTheMonth(d Date, offset int) (bool, error) {
	if err := c.checkInRange(d); err != nil {
		return false, err
	}
	if offset < 0 {
		return false, invalidState("argument 'offset' must be >= 0, got %d", offset)
	}
	i, found := c.search(d)
	if !found {
		return false, nil
	}
	target := i + offset - 1
	if target < 0 || target >= len(c.days) {
		return false, nil
	}
	return c.isFirstAt(target), nil
}

// FirstDayOfTheMonth returns the earliest present date of the given month
func (c *Calendar) FirstDayOfTheMonth(year int, month time.Month) (Date, bool, error) {
	days, err := c.DaysInMonth(year, month)
	if err != nil {
		return Date{}, false, err
	}
	if len(days) == 0 {
		return Date{}, false, nil
	}
	return days[len(days)-1], true, nil
}

// LastDayOfMonthBefore returns the latest present date of the month before d's month
func (c *Calendar) LastDayOfMonthBefore(d Date) (Date, bool, error) {
	return c.LastDayOfMonthBeforeN(d, 1)
}

// LastDayOfMonthBeforeN returns the latest present date of the month lying
// n months before d's month. n == 0 selects d's own month.
func (c *Calendar) LastDayOfMonthBeforeN(d Date, n int) (Date, bool, error) {
	if err := c.checkInRange(d); err != nil {
		return Date{}, false, err
	}
	if n < 0 {
		return Date{}, false, invalidState("argument 'monthSubtraction' must be >= 0, got %d", n)
	}
	year, month := d.monthsBefore(n)
	for _, day := range c.days {
		if day.Year == year && day.Month == month {
			return day, true, nil
		}
	}
	return Date{}, false, nil
}

// isFirstAt reports whether days[i] starts its month among the present dates.
// The earliest present date has nothing before it and always qualifies.
func (c *Calendar) isFirstAt(i int) bool {
	if i+1 >= len(c.days) {
		return true
	}
	return !c.days[i+1].SameMonth(c.days[i])
}

func (c *Calendar) filter(fn func(Date) bool) []Date {
	out := make([]Date, 0)
	for _, d := range c.days {
		if fn(d) {
			out = append(out, d)
		}
	}
	return out
}

func (c *Calendar) checkInRange(d Date) error {
	if !d.IsValid() {
		return invalidArgument("mandatory argument 'date' is missing")
	}
	if c.IsOutsideRange(d) {
		return invalidArgument("date %s is outside of calendar range [%s, %s]", d, c.StartDate(), c.endDate)
	}
	return nil
}

func checkMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return invalidArgument("unknown month %d", int(month))
	}
	return nil
}
