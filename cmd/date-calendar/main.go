package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/internal/config"
	"github.com/username/date-calendar/internal/source"
)

var (
	configPath string
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "date-calendar",
		Short:         "Business date calendar",
		Long:          "Build date calendars from rules, date files and holiday feeds, query them and export them as iCalendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info")
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml or properties)")

	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(daemonCmd())

	return rootCmd
}

// buildCalendar loads the config and builds the configured calendar
func buildCalendar(ctx context.Context) (*calendar.Calendar, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c, err := source.Build(ctx, cfg, logger, calendar.NewLogListener(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}
	return c, nil
}

func printDates(w io.Writer, dates []calendar.Date) {
	for _, d := range dates {
		fmt.Fprintf(w, "%s  %s\n", d, d.Weekday())
	}
	fmt.Fprintf(w, "%d date(s)\n", len(dates))
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// initFileLogger logs JSON to a rotated file. The file is opened on the
// first write, so construction cannot fail.
func initFileLogger(logFile string, level string) *zap.Logger {
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core)
}
