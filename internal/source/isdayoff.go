package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"cloudeng.io/datetime"
	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/pkg/dateutil"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// IsDayOffSource loads non-working days from the isdayoff.ru bulk API
type IsDayOffSource struct {
	httpClient *http.Client
	logger     *zap.Logger
	baseURL    string
	country    string
	start      calendar.Date
	end        calendar.Date
	cache      map[string]*cachedMonth
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
}

type cachedMonth struct {
	daysOff   []calendar.Date
	fetchedAt time.Time
}

// NewIsDayOffSource creates a new IsDayOffSource instance. An empty baseURL
// selects the public isdayoff.ru service.
func NewIsDayOffSource(baseURL, country string, start, end calendar.Date, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffSource {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &IsDayOffSource{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		baseURL:  baseURL,
		country:  country,
		start:    start,
		end:      end,
		cache:    make(map[string]*cachedMonth),
		cacheTTL: cacheTTL,
	}
}

// Dates returns the non-working days between start and end
func (s *IsDayOffSource) Dates(ctx context.Context) ([]calendar.Date, error) {
	var dates []calendar.Date

	year, month := s.start.Year, s.start.Month
	for {
		daysOff, err := s.MonthDaysOff(ctx, year, month)
		if err != nil {
			return nil, err
		}
		for _, d := range daysOff {
			if !d.Before(s.start) && !d.After(s.end) {
				dates = append(dates, d)
			}
		}

		if year == s.end.Year && month == s.end.Month {
			break
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return dates, nil
}

// MonthDaysOff returns the non-working days of one month
func (s *IsDayOffSource) MonthDaysOff(ctx context.Context, year int, month time.Month) ([]calendar.Date, error) {
	cacheKey := fmt.Sprintf("%04d-%02d", year, int(month))

	s.cacheMu.RLock()
	if cached, ok := s.cache[cacheKey]; ok {
		if time.Since(cached.fetchedAt) < s.cacheTTL {
			s.cacheMu.RUnlock()
			s.logger.Debug("Using cached month",
				zap.String("month", cacheKey))
			return cached.daysOff, nil
		}
	}
	s.cacheMu.RUnlock()

	data, err := s.fetchMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	daysOff, err := parseBulkResponse(year, month, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	s.cacheMu.Lock()
	s.cache[cacheKey] = &cachedMonth{
		daysOff:   daysOff,
		fetchedAt: time.Now(),
	}
	s.cacheMu.Unlock()

	weekends := 0
	for _, d := range daysOff {
		if dateutil.IsWeekend(d.In(time.UTC)) {
			weekends++
		}
	}
	s.logger.Info("Month fetched from isdayoff",
		zap.String("month", cacheKey),
		zap.Int("days_off", len(daysOff)),
		zap.Int("weekends", weekends),
		zap.Int("holidays", len(daysOff)-weekends))

	return daysOff, nil
}

// fetchMonth fetches entire month from isdayoff.ru bulk API
func (s *IsDayOffSource) fetchMonth(ctx context.Context, year int, month time.Month) (string, error) {
	// https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1&cc=ru
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1&cc=%s",
		s.baseURL, year, int(month), s.country)

	s.logger.Debug("Fetching month from isdayoff.ru",
		zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened working day
func parseBulkResponse(year int, month time.Month, data string) ([]calendar.Date, error) {
	daysInMonth := datetime.DaysInMonth(year, datetime.Month(month))

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	var daysOff []calendar.Date
	for i, code := range data {
		switch code {
		case '0', '2':
		case '1':
			daysOff = append(daysOff, calendar.NewDate(year, month, i+1))
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}
	return daysOff, nil
}
