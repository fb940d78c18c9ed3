package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/pkg/dateutil"
)

var regionHolidays = map[string][]*cal.Holiday{
	"us": {
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	},
}

// HolidaySource generates the observed public holidays of a region
// within [start, end]
type HolidaySource struct {
	region   string
	start    calendar.Date
	end      calendar.Date
	business *cal.BusinessCalendar
	logger   *zap.Logger
}

// NewHolidaySource creates a HolidaySource for a supported region
func NewHolidaySource(region string, start, end calendar.Date, logger *zap.Logger) (*HolidaySource, error) {
	holidays, ok := regionHolidays[strings.ToLower(region)]
	if !ok {
		return nil, fmt.Errorf("unsupported holiday region '%s'", region)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("holiday window ends %s before it starts %s", end, start)
	}

	business := cal.NewBusinessCalendar()
	business.AddHoliday(holidays...)

	return &HolidaySource{
		region:   strings.ToLower(region),
		start:    start,
		end:      end,
		business: business,
		logger:   logger,
	}, nil
}

// Dates returns every observed holiday in the window, oldest first
func (s *HolidaySource) Dates(ctx context.Context) ([]calendar.Date, error) {
	var dates []calendar.Date
	weekdays := 0
	for d := s.start; !d.After(s.end); d = d.AddDays(1) {
		if d.Day == 1 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t := d.In(time.UTC)
		if _, observed, _ := s.business.IsHoliday(t); observed {
			dates = append(dates, d)
			if dateutil.IsWeekday(t) {
				weekdays++
			}
		}
	}

	s.logger.Debug("Holidays generated",
		zap.String("region", s.region),
		zap.Stringer("start", s.start),
		zap.Stringer("end", s.end),
		zap.Int("dates", len(dates)),
		zap.Int("on_weekdays", weekdays))

	return dates, nil
}
