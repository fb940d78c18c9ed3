package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
)

func TestParseBulkResponse(t *testing.T) {
	tests := []struct {
		name        string
		year        int
		month       time.Month
		data        string
		wantDaysOff int
	}{
		{
			name:        "November 2025",
			year:        2025,
			month:       time.November,
			data:        "211100011000001100000110000011", // 30 days
			wantDaysOff: 11,
		},
		{
			name:        "July 2025",
			year:        2025,
			month:       time.July,
			data:        "0000110000011000001100000110000", // 31 days
			wantDaysOff: 8,
		},
		{
			name:        "February leap year",
			year:        2024,
			month:       time.February,
			data:        "00110000011000001100000110000", // 29 days
			wantDaysOff: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			daysOff, err := parseBulkResponse(tt.year, tt.month, tt.data)
			if err != nil {
				t.Fatalf("parseBulkResponse() error = %v", err)
			}

			if len(daysOff) != tt.wantDaysOff {
				t.Errorf("days off = %d, want %d", len(daysOff), tt.wantDaysOff)
			}
			for _, d := range daysOff {
				if d.Year != tt.year || d.Month != tt.month {
					t.Errorf("day off %s outside %d-%02d", d, tt.year, tt.month)
				}
			}
		})
	}
}

func TestParseBulkResponse_ShortenedDayIsWorking(t *testing.T) {
	// Nov 1 2025 is shortened (code '2'), Nov 2 is off
	daysOff, err := parseBulkResponse(2025, time.November, "211100011000001100000110000011")
	if err != nil {
		t.Fatalf("parseBulkResponse() error = %v", err)
	}

	if daysOff[0] != calendar.NewDate(2025, time.November, 2) {
		t.Errorf("first day off = %s, want 2025-11-02", daysOff[0])
	}
}

func TestParseBulkResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "too short", data: "21110001100000110000011000001"},
		{name: "too long", data: "2111000110000011000001100000110"},
		{name: "unknown code", data: "211100011000001100000110000014"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseBulkResponse(2025, time.November, tt.data); err == nil {
				t.Error("parseBulkResponse() expected error, got nil")
			}
		})
	}
}

func newIsDayOffServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/api/getdata" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("cc") != "ru" {
			http.Error(w, "bad country", http.StatusBadRequest)
			return
		}
		switch q.Get("year") + "-" + q.Get("month") {
		case "2025-11":
			fmt.Fprint(w, "211100011000001100000110000011")
		case "2025-12":
			fmt.Fprint(w, "0000011000001100000110000011000")
		default:
			http.Error(w, "no data", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIsDayOffSource_Dates(t *testing.T) {
	var calls int32
	server := newIsDayOffServer(t, &calls)

	start := calendar.NewDate(2025, time.November, 15)
	end := calendar.NewDate(2025, time.December, 10)
	src := NewIsDayOffSource(server.URL, "ru", start, end, time.Hour, zap.NewNop())

	dates, err := src.Dates(context.Background())
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}

	// Nov 15,16,22,23,29,30 and Dec 6,7
	if len(dates) != 8 {
		t.Fatalf("Dates() returned %d dates, want 8: %v", len(dates), dates)
	}
	for _, d := range dates {
		if d.Before(start) || d.After(end) {
			t.Errorf("date %s outside [%s, %s]", d, start, end)
		}
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want 2", calls)
	}

	if _, err := src.Dates(context.Background()); err != nil {
		t.Fatalf("second Dates() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("server calls after cached read = %d, want 2", calls)
	}
}

func TestIsDayOffSource_ServerError(t *testing.T) {
	var calls int32
	server := newIsDayOffServer(t, &calls)

	start := calendar.NewDate(2026, time.January, 1)
	src := NewIsDayOffSource(server.URL, "ru", start, start.AddDays(10), time.Hour, zap.NewNop())

	if _, err := src.Dates(context.Background()); err == nil {
		t.Error("Dates() expected error for missing month, got nil")
	}
}

func TestIsDayOffSource_DefaultURL(t *testing.T) {
	d := calendar.NewDate(2025, time.November, 1)
	src := NewIsDayOffSource("", "ru", d, d, 0, zap.NewNop())

	if src.baseURL != isdayoffBaseURL {
		t.Errorf("baseURL = %s, want %s", src.baseURL, isdayoffBaseURL)
	}
	if src.cacheTTL != defaultCacheTTL {
		t.Errorf("cacheTTL = %v, want %v", src.cacheTTL, defaultCacheTTL)
	}
}
