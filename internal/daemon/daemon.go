package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/internal/export"
)

// BuildFunc builds a fresh calendar for one refresh
type BuildFunc func(ctx context.Context) (*calendar.Calendar, error)

// Daemon periodically rebuilds a calendar and rewrites its iCalendar export
type Daemon struct {
	build    BuildFunc
	outPath  string
	interval time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu        sync.Mutex // Protect against concurrent runs
	running   bool
	lastRun   time.Time
	lastDates int
	lastErr   error
	runs      int
	now       func() time.Time
}

// Status describes the last refresh
type Status struct {
	Running  bool
	Interval time.Duration
	Runs     int
	LastRun  time.Time
	Dates    int
	LastErr  error
	NextRun  time.Time
}

// NewDaemon creates a new daemon instance
func NewDaemon(build BuildFunc, outPath string, interval time.Duration, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		build:    build,
		outPath:  outPath,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// Start refreshes immediately and then on every interval until Stop is
// called or the process receives SIGINT/SIGTERM
func (d *Daemon) Start() error {
	if d.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", d.interval)
	}

	d.logger.Info("Daemon started",
		zap.Duration("interval", d.interval),
		zap.String("out", d.outPath))

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	d.refresh()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return nil

		case <-ticker.C:
			d.refresh()
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) refresh() {
	if err := d.RunOnce(); err != nil {
		d.logger.Error("Refresh failed", zap.Error(err))
	}
}

// RunOnce builds the calendar and replaces the export file.
// The previous file stays in place when anything fails.
func (d *Daemon) RunOnce() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return fmt.Errorf("refresh already in progress")
	}
	d.running = true
	d.mu.Unlock()

	dates, err := d.writeExport()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	d.runs++
	d.lastRun = d.now()
	d.lastErr = err
	if err != nil {
		return err
	}
	d.lastDates = dates

	d.logger.Info("Calendar export refreshed",
		zap.String("out", d.outPath),
		zap.Int("dates", dates))
	return nil
}

func (d *Daemon) writeExport() (int, error) {
	c, err := d.build(d.ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to build calendar: %w", err)
	}

	dir := filepath.Dir(d.outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output path: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(d.outPath)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteICS(tmp, c, d.now()); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to export calendar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.outPath); err != nil {
		return 0, fmt.Errorf("failed to replace export: %w", err)
	}
	return c.Len(), nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := Status{
		Running:  d.running,
		Interval: d.interval,
		Runs:     d.runs,
		LastRun:  d.lastRun,
		Dates:    d.lastDates,
		LastErr:  d.lastErr,
	}
	if !d.lastRun.IsZero() {
		status.NextRun = d.lastRun.Add(d.interval)
	}
	return status
}
