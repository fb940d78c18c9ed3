package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
)

// ICSSource reads the start dates of the events of an iCalendar file
type ICSSource struct {
	filePath string
	logger   *zap.Logger
}

// NewICSSource creates a new ICSSource instance
func NewICSSource(filePath string, logger *zap.Logger) *ICSSource {
	return &ICSSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Dates returns the DTSTART date of every VEVENT in the file
func (s *ICSSource) Dates(ctx context.Context) ([]calendar.Date, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open iCalendar file: %w", err)
	}
	defer file.Close()

	return s.decode(ctx, file)
}

func (s *ICSSource) decode(ctx context.Context, r io.Reader) ([]calendar.Date, error) {
	decoder := ical.NewDecoder(r)
	var dates []calendar.Date

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode iCalendar data: %w", err)
		}

		for _, event := range cal.Events() {
			start := event.Props.Get(ical.PropDateTimeStart)
			if start == nil {
				uid := ""
				if p := event.Props.Get(ical.PropUID); p != nil {
					uid = p.Value
				}
				s.logger.Warn("Skipping event without start date", zap.String("uid", uid))
				continue
			}
			t, err := start.DateTime(time.UTC)
			if err != nil {
				return nil, fmt.Errorf("failed to parse event start '%s': %w", start.Value, err)
			}
			dates = append(dates, calendar.DateOf(t))
		}
	}

	s.logger.Info("Dates loaded from iCalendar file",
		zap.String("file", s.filePath),
		zap.Int("dates", len(dates)))

	return dates, nil
}
