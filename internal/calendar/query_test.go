package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// winter spans 2020-01-31 to 2020-03-10
func winter(t *testing.T) *Calendar {
	t.Helper()
	return mustNew(t, NewDate(2020, time.March, 10), "winter", 40)
}

func TestDay(t *testing.T) {
	c := winter(t)

	got, ok, err := c.Day(NewDate(2020, time.February, 29))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, NewDate(2020, time.February, 29), got)

	_, ok, err = c.Day(NewDate(2021, time.February, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.Day(Date{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDayBefore(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	got, ok, err := c.DayBefore(NewDate(2018, time.December, 30))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewDate(2018, time.December, 29), got)

	require.NoError(t, c.Remove(NewDate(2018, time.December, 29)))
	got, ok, err = c.DayBefore(NewDate(2018, time.December, 30))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewDate(2018, time.December, 28), got)
}

func TestDayBefore_Gaps(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)
	require.NoError(t, c.RemoveAll([]Date{
		NewDate(2018, time.December, 20),
		NewDate(2018, time.December, 21),
		NewDate(2018, time.December, 22),
	}))

	tests := []struct {
		name string
		date Date
		want Date
	}{
		{"absent inside gap", NewDate(2018, time.December, 21), NewDate(2018, time.December, 19)},
		{"absent gap end", NewDate(2018, time.December, 22), NewDate(2018, time.December, 19)},
		{"present after gap", NewDate(2018, time.December, 23), NewDate(2018, time.December, 19)},
		{"present before gap", NewDate(2018, time.December, 19), NewDate(2018, time.December, 18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := c.DayBefore(tt.date)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayBefore_Errors(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	tests := []struct {
		name string
		date Date
	}{
		{"missing date", Date{}},
		{"start date", c.StartDate()},
		{"after end", NewDate(2018, time.December, 31)},
		{"before start", c.StartDate().AddDays(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.DayBefore(tt.date)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	t.Run("empty calendar", func(t *testing.T) {
		e := mustNew(t, NewDate(2018, time.December, 30), "empty", 14)
		require.NoError(t, e.RemoveWeekDays())
		require.NoError(t, e.RemoveWeekendDays())
		_, _, err := e.DayBefore(NewDate(2018, time.December, 30))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestDayBefore_NothingEarlier(t *testing.T) {
	c := mustNew(t, NewDate(2020, time.January, 10), "short", 10)
	require.NoError(t, c.Remove(NewDate(2020, time.January, 1)))

	_, ok, err := c.DayBefore(NewDate(2020, time.January, 2))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDatesForDayOfWeek(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	saturdays, err := c.DatesForDayOfWeek(time.Saturday)
	require.NoError(t, err)
	assert.Len(t, saturdays, 105)
	assertDescending(t, saturdays)

	require.NoError(t, c.RemoveWeekendDays())
	saturdays, err = c.DatesForDayOfWeek(time.Saturday)
	require.NoError(t, err)
	assert.NotNil(t, saturdays)
	assert.Empty(t, saturdays)

	_, err = c.DatesForDayOfWeek(time.Weekday(9))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDaysInMonth(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	tests := []struct {
		name    string
		year    int
		month   time.Month
		want    int
		wantErr error
	}{
		{name: "full month", year: 2017, month: time.February, want: 28},
		{name: "partial end month", year: 2018, month: time.December, want: 30},
		{name: "partial start month", year: 2016, month: time.December, want: 1},
		{name: "outside calendar", year: 2015, month: time.June, want: 0},
		{name: "unknown month", year: 2018, month: time.Month(13), wantErr: ErrInvalidArgument},
		{name: "zero month", year: 2018, month: time.Month(0), wantErr: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := c.DaysInMonth(tt.year, tt.month)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, days, tt.want)
			for _, d := range days {
				assert.Equal(t, tt.year, d.Year)
				assert.Equal(t, tt.month, d.Month)
			}
		})
	}
}

func TestDaysInMonthAnyYear(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	days, err := c.DaysInMonthAnyYear(time.December)
	require.NoError(t, err)
	assert.Len(t, days, 30+31+1)
	assertDescending(t, days)

	_, err = c.DaysInMonthAnyYear(time.Month(-1))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDaysInYear(t *testing.T) {
	c := mustNew(t, NewDate(2018, time.December, 30), "two-years", 730)

	assert.Len(t, c.DaysInYear(2017), 365)
	assert.Len(t, c.DaysInYear(2018), 364)
	assert.Len(t, c.DaysInYear(2016), 1)

	none := c.DaysInYear(2010)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestIsFirstDayInTheMonth(t *testing.T) {
	c := winter(t)

	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"month boundary", NewDate(2020, time.March, 1), true},
		{"leap month boundary", NewDate(2020, time.February, 1), true},
		{"mid month", NewDate(2020, time.March, 2), false},
		{"earliest present date", NewDate(2020, time.January, 31), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsFirstDayInTheMonth(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("first day shifts after removal", func(t *testing.T) {
		c := winter(t)
		require.NoError(t, c.Remove(NewDate(2020, time.March, 1)))

		got, err := c.IsFirstDayInTheMonth(NewDate(2020, time.March, 2))
		require.NoError(t, err)
		assert.True(t, got)

		got, err = c.IsFirstDayInTheMonth(NewDate(2020, time.March, 1))
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("outside range", func(t *testing.T) {
		_, err := c.IsFirstDayInTheMonth(NewDate(2020, time.April, 1))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestIsDayOfTheMonth(t *testing.T) {
	c := winter(t)

	tests := []struct {
		name    string
		date    Date
		offset  int
		want    bool
		wantErr error
	}{
		{name: "fifth day", date: NewDate(2020, time.March, 5), offset: 5, want: true},
		{name: "not fourth day", date: NewDate(2020, time.March, 5), offset: 4, want: false},
		{name: "first day", date: NewDate(2020, time.February, 1), offset: 1, want: true},
		{name: "offset past earliest date", date: NewDate(2020, time.January, 31), offset: 5, want: false},
		{name: "negative offset", date: NewDate(2020, time.March, 5), offset: -1, wantErr: ErrInvalidState},
		{name: "outside range", date: NewDate(2020, time.March, 11), offset: 1, wantErr: ErrInvalidArgument},
		{name: "missing date", date: Date{}, offset: 1, wantErr: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsDayOfTheMonth(tt.date, tt.offset)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("counts present days only", func(t *testing.T) {
		c := winter(t)
		require.NoError(t, c.Remove(NewDate(2020, time.March, 3)))

		got, err := c.IsDayOfTheMonth(NewDate(2020, time.March, 5), 4)
		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestFirstDayOfTheMonth(t *testing.T) {
	c := winter(t)

	got, ok, err := c.FirstDayOfTheMonth(2020, time.February)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewDate(2020, time.February, 1), got)

	require.NoError(t, c.Remove(NewDate(2020, time.February, 1)))
	got, ok, err = c.FirstDayOfTheMonth(2020, time.February)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewDate(2020, time.February, 2), got)

	_, ok, err = c.FirstDayOfTheMonth(2019, time.May)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.FirstDayOfTheMonth(2020, time.Month(14))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLastDayOfMonthBefore(t *testing.T) {
	c := winter(t)
	d := NewDate(2020, time.March, 5)

	got, ok, err := c.LastDayOfMonthBefore(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewDate(2020, time.February, 29), got)

	tests := []struct {
		name    string
		n       int
		want    Date
		wantOK  bool
		wantErr error
	}{
		{name: "same month", n: 0, want: NewDate(2020, time.March, 10), wantOK: true},
		{name: "two months back", n: 2, want: NewDate(2020, time.January, 31), wantOK: true},
		{name: "before calendar", n: 3},
		{name: "negative", n: -1, wantErr: ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := c.LastDayOfMonthBeforeN(d, tt.n)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	t.Run("removed month end", func(t *testing.T) {
		c := winter(t)
		require.NoError(t, c.Remove(NewDate(2020, time.February, 29)))
		got, ok, err := c.LastDayOfMonthBefore(d)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, NewDate(2020, time.February, 28), got)
	})

	t.Run("outside range", func(t *testing.T) {
		_, _, err := c.LastDayOfMonthBefore(NewDate(2020, time.January, 30))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}
