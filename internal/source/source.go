// Package source loads dates from files and online feeds and feeds them
// into a calendar.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/internal/config"
)

// Source yields the dates a calendar should be populated with
type Source interface {
	Dates(ctx context.Context) ([]calendar.Date, error)
}

// Composite implements Source with fallback strategy
type Composite struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewComposite creates a new Composite
func NewComposite(primary, fallback Source, logger *zap.Logger) *Composite {
	return &Composite{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Dates returns the primary dates, or the fallback dates when the primary fails
func (cs *Composite) Dates(ctx context.Context) ([]calendar.Date, error) {
	dates, err := cs.primary.Dates(ctx)
	if err == nil {
		return dates, nil
	}
	if cs.fallback == nil || ctx.Err() != nil {
		return nil, err
	}

	cs.logger.Warn("Primary date source failed, falling back",
		zap.Error(err))

	dates, fallbackErr := cs.fallback.Dates(ctx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return dates, nil
}

// Populate adds every date of src to c, stopping at the first failure
func Populate(ctx context.Context, c *calendar.Calendar, src Source, logger *zap.Logger) error {
	dates, err := src.Dates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dates: %w", err)
	}

	for _, d := range dates {
		if err := c.Add(d); err != nil {
			return fmt.Errorf("failed to add %s to calendar %s: %w", d, c.Name(), err)
		}
	}

	logger.Info("Calendar populated",
		zap.String("calendar", c.Name()),
		zap.Int("loaded", len(dates)),
		zap.Int("dates", c.Len()))
	return nil
}

// FromConfig chains the configured sources, returning nil when none is set.
// A dates file ending in .ics is read as iCalendar, anything else as CSV.
// The isdayoff feed is tried first, then the dates file, then the holiday
// rules; each later source is the fallback of the one before it.
func FromConfig(cfg *config.Config, start, end calendar.Date, logger *zap.Logger) (Source, error) {
	var chain []Source

	if country := cfg.Calendar.IsDayOffCountry; country != "" {
		chain = append(chain, NewIsDayOffSource(cfg.Calendar.IsDayOffURL, country, start, end,
			cfg.Calendar.GetCacheTTL(), logger))
	}
	if path := cfg.Calendar.DatesFile(); path != "" {
		if strings.EqualFold(filepath.Ext(path), ".ics") {
			chain = append(chain, NewICSSource(path, logger))
		} else {
			layout, err := cfg.Calendar.Layout()
			if err != nil {
				return nil, fmt.Errorf("invalid date pattern: %w", err)
			}
			chain = append(chain, NewCSVSource(path, layout, logger))
		}
	}
	if region := cfg.Calendar.HolidayRegion; region != "" {
		hs, err := NewHolidaySource(region, start, end, logger)
		if err != nil {
			return nil, err
		}
		chain = append(chain, hs)
	}

	if len(chain) == 0 {
		return nil, nil
	}
	src := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		src = NewComposite(chain[i], src, logger)
	}
	return src, nil
}

// Build creates the configured calendar. Without sources it holds every day
// of its window; otherwise it starts empty and holds exactly the loaded dates.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, listeners ...calendar.Listener) (*calendar.Calendar, error) {
	end, err := cfg.Calendar.GetEndDate()
	if err != nil {
		return nil, err
	}

	c, err := calendar.New(end, cfg.Calendar.Name, cfg.Calendar.GetDuration(), listeners...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}

	src, err := FromConfig(cfg, c.StartDate(), c.EndDate(), logger)
	if err != nil {
		return nil, err
	}
	if src == nil {
		logger.Info("No date sources configured, keeping every day in range",
			zap.String("calendar", c.Name()))
		return c, nil
	}

	if err := c.RemoveWeekDays(); err != nil {
		return nil, fmt.Errorf("failed to clear calendar: %w", err)
	}
	if err := c.RemoveWeekendDays(); err != nil {
		return nil, fmt.Errorf("failed to clear calendar: %w", err)
	}

	if err := Populate(ctx, c, src, logger); err != nil {
		return nil, err
	}
	return c, nil
}
