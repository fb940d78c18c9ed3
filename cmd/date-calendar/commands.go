package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloudeng.io/datetime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/internal/config"
	"github.com/username/date-calendar/internal/cql"
	"github.com/username/date-calendar/internal/daemon"
	"github.com/username/date-calendar/internal/export"
	"github.com/username/date-calendar/pkg/dateutil"
)

func showCmd() *cobra.Command {
	var year int
	var monthStr string
	var weekdayStr string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dates of the configured calendar",
		Long:  "Print the dates of the configured calendar, optionally restricted to a year, a month or a day of the week",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCalendar(cmd.Context())
			if err != nil {
				return err
			}

			dates, err := selectDates(c, year, monthStr, weekdayStr)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", c)
			printDates(cmd.OutOrStdout(), dates)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only dates of this year")
	cmd.Flags().StringVar(&monthStr, "month", "", "Only dates of this month (number or name)")
	cmd.Flags().StringVar(&weekdayStr, "weekday", "", "Only dates falling on this day of the week")

	return cmd
}

func selectDates(c *calendar.Calendar, year int, monthStr, weekdayStr string) ([]calendar.Date, error) {
	var dates []calendar.Date
	var err error

	switch {
	case monthStr != "":
		var m datetime.Month
		if err := m.Parse(monthStr); err != nil {
			return nil, fmt.Errorf("invalid month: %w", err)
		}
		if year != 0 {
			dates, err = c.DaysInMonth(year, time.Month(m))
		} else {
			dates, err = c.DaysInMonthAnyYear(time.Month(m))
		}
	case year != 0:
		dates = c.DaysInYear(year)
	default:
		dates = c.AllDates()
	}
	if err != nil {
		return nil, err
	}

	if weekdayStr == "" {
		return dates, nil
	}
	wd, err := parseWeekday(weekdayStr)
	if err != nil {
		return nil, err
	}
	if monthStr == "" && year == 0 {
		return c.DatesForDayOfWeek(wd)
	}
	filtered := dates[:0:0]
	for _, d := range dates {
		if d.Weekday() == wd {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	lc := strings.ToLower(strings.TrimSpace(s))
	if len(lc) >= 2 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.HasPrefix(strings.ToLower(wd.String()), lc) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid day of week: %s", s)
}

func lookupCmd() *cobra.Command {
	var monthsBack int

	cmd := &cobra.Command{
		Use:   "lookup <date>",
		Short: "Show how a date relates to the configured calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := dateutil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
			d := calendar.DateOf(parsed)

			c, err := buildCalendar(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, present, err := c.Day(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Date:               %s (%s)\n", d, d.Weekday())
			fmt.Fprintf(out, "In calendar:        %t\n", present)

			if before, ok, err := c.DayBefore(d); err != nil {
				logger.Debug("No day before", zap.Stringer("date", d), zap.Error(err))
				fmt.Fprintf(out, "Day before:         -\n")
			} else {
				fmt.Fprintf(out, "Day before:         %s\n", optionalDate(before, ok))
			}

			if present {
				first, err := c.IsFirstDayInTheMonth(d)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "First of its month: %t\n", first)
			}

			last, ok, err := c.LastDayOfMonthBeforeN(d, monthsBack)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Last day %d month(s) back: %s\n", monthsBack, optionalDate(last, ok))
			return nil
		},
	}

	cmd.Flags().IntVar(&monthsBack, "months-back", 1, "Months to go back for the last-day lookup")

	return cmd
}

func optionalDate(d calendar.Date, ok bool) string {
	if !ok {
		return "none"
	}
	return d.String()
}

func queryCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:     "query <statement>",
		Short:   "Create a calendar from a query statement",
		Example: `  date-calendar query "create calendar 'business' start 1/11/2008 duration 2 years without_weekends"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := cql.Parse(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to parse query:\n%w", err)
			}

			logger.Info("Query parsed",
				zap.String("statement", stmt.String()))

			c, err := stmt.Calendar(calendar.NewLogListener(logger))
			if c == nil {
				return err
			}
			if err != nil {
				logger.Warn("Calendar listener failed", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", c)
			keeps := stmt.Constraints().String()
			if stmt.Constraints().Empty() {
				keeps = "nothing"
			}
			fmt.Fprintf(out, "Keeps: %s\n", keeps)
			if list {
				printDates(out, c.AllDates())
			} else {
				fmt.Fprintf(out, "%d date(s)\n", c.Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Print every date of the created calendar")

	return cmd
}

func exportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured calendar as iCalendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCalendar(cmd.Context())
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return export.WriteICS(cmd.OutOrStdout(), c, time.Now())
			}

			if err := writeExportFile(outPath, c, time.Now()); err != nil {
				return err
			}

			logger.Info("Calendar exported",
				zap.String("calendar", c.Name()),
				zap.String("file", outPath),
				zap.Int("dates", c.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d date(s) to %s\n", c.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .ics file (stdout when empty)")

	return cmd
}

func writeExportFile(path string, c *calendar.Calendar, stamp time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if err := export.WriteICS(f, c, stamp); err != nil {
		f.Close()
		return fmt.Errorf("failed to export calendar: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func daemonCmd() *cobra.Command {
	var outPath string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep an iCalendar export of the configured calendar up to date",
		Long:  "Rebuild the configured calendar on every interval and atomically replace the export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}
			if _, err := config.Load(configPath); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			d := daemon.NewDaemon(func(ctx context.Context) (*calendar.Calendar, error) {
				return buildCalendar(ctx)
			}, outPath, interval, logger)

			return d.Start()
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .ics file")
	cmd.Flags().DurationVar(&interval, "interval", time.Hour, "Refresh interval")

	return cmd
}
