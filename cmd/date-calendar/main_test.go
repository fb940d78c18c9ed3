package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/date-calendar/internal/calendar"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holidays.csv"),
		[]byte("2018-12-25,2018-12-26\n2018-01-01\n"), 0o600))

	path := filepath.Join(dir, "calendar.yaml")
	content := strings.Join([]string{
		"calendar:",
		"  name: bank",
		"  end_date: \"2018-12-30\"",
		"  duration: 730",
		"  date_pattern: yyyy-MM-dd",
		"  dates_location: " + dir,
		"  file_name: holidays.csv",
		"log:",
		"  level: error",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShowCmd(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2018-12-26  Wednesday")
	assert.Contains(t, out, "3 date(s)")

	out, err = run(t, "--config", cfg, "show", "--month", "dec")
	require.NoError(t, err)
	assert.Contains(t, out, "2 date(s)")

	out, err = run(t, "--config", cfg, "show", "--weekday", "mon")
	require.NoError(t, err)
	assert.Contains(t, out, "2018-01-01  Monday")
	assert.Contains(t, out, "1 date(s)")

	_, err = run(t, "--config", cfg, "show", "--month", "smarch")
	assert.Error(t, err)
}

func TestLookupCmd(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "lookup", "2018-12-26")
	require.NoError(t, err)
	assert.Contains(t, out, "In calendar:        true")
	assert.Contains(t, out, "Day before:         2018-12-25")
	assert.Contains(t, out, "First of its month: false")
	assert.Contains(t, out, "Last day 1 month(s) back: none")
}

func TestQueryCmd(t *testing.T) {
	out, err := run(t, "query", "create calendar 'work' start 2024-01-01 duration 2 weeks without_weekends")
	require.NoError(t, err)
	assert.Contains(t, out, "Keeps: weekdays only")
	assert.Contains(t, out, "10 date(s)")

	_, err = run(t, "query", "create calendar work")
	assert.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	cfg := writeConfig(t)
	outFile := filepath.Join(t.TempDir(), "out", "bank.ics")

	out, err := run(t, "--config", cfg, "export", "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 date(s)")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "BEGIN:VEVENT"))
}

func TestWriteExportFile(t *testing.T) {
	c, err := calendar.New(calendar.NewDate(2024, time.January, 7), "week", 7)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "week.ics")
	require.NoError(t, writeExportFile(path, c, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(string(data), "BEGIN:VEVENT"))

	// a directory in place of the file cannot be opened for writing
	assert.Error(t, writeExportFile(dir, c, time.Now()))
}

func TestInitFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.log")

	l := initFileLogger(path, "warn")
	l.Info("dropped below level")
	l.Warn("kept at level")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept at level")
	assert.NotContains(t, string(data), "dropped below level")
	assert.Contains(t, string(data), "timestamp")
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "Monday", want: time.Monday},
		{in: "sat", want: time.Saturday},
		{in: "TU", want: time.Tuesday},
		{in: "t", wantErr: true},
		{in: "funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectDates(t *testing.T) {
	c, err := calendar.New(calendar.NewDate(2024, time.February, 29), "c", 60)
	require.NoError(t, err)

	dates, err := selectDates(c, 2024, "2", "thu")
	require.NoError(t, err)
	assert.Len(t, dates, 5)

	dates, err = selectDates(c, 2024, "", "")
	require.NoError(t, err)
	assert.Len(t, dates, 59)

	dates, err = selectDates(c, 0, "", "")
	require.NoError(t, err)
	assert.Len(t, dates, 60)
}
