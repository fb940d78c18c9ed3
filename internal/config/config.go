package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cloudeng.io/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/username/date-calendar/internal/calendar"
	"github.com/username/date-calendar/pkg/dateutil"
)

const (
	defaultDatePattern = "yyyy-MM-dd"
	defaultCacheTTL    = 24 * time.Hour
)

// HolidayRegions lists the supported values of calendar.holiday_region
var HolidayRegions = []string{"us"}

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig describes the calendar to build and where its dates come from
type CalendarConfig struct {
	Name        string `mapstructure:"name"`
	EndDate     string `mapstructure:"end_date"` // empty means today
	Duration    int    `mapstructure:"duration"` // days
	DatePattern string `mapstructure:"date_pattern"`

	// CSV date file, read from DatesLocation/FileName
	DatesLocation string `mapstructure:"dates_location"`
	FileName      string `mapstructure:"file_name"`

	// optional generated sources
	HolidayRegion   string `mapstructure:"holiday_region"`
	IsDayOffCountry string `mapstructure:"isdayoff_country"`
	IsDayOffURL     string `mapstructure:"isdayoff_url"`
	CacheTTL        string `mapstructure:"cache_ttl"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from a yaml or .properties file. With an empty
// path the default locations are searched and a missing file is not an error.
// Every key can be overridden from the environment, e.g. CALENDAR_END_DATE.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("calendar")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.date-calendar")
		v.AddConfigPath("/etc/date-calendar")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// every key needs a default for AutomaticEnv to pick it up on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.name", calendar.DefaultName)
	v.SetDefault("calendar.end_date", "")
	v.SetDefault("calendar.duration", calendar.DefaultPeriod)
	v.SetDefault("calendar.date_pattern", defaultDatePattern)
	v.SetDefault("calendar.dates_location", "")
	v.SetDefault("calendar.file_name", "")
	v.SetDefault("calendar.holiday_region", "")
	v.SetDefault("calendar.isdayoff_country", "")
	v.SetDefault("calendar.isdayoff_url", "")
	v.SetDefault("calendar.cache_ttl", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration and reports every problem found
func (c *Config) Validate() error {
	errs := &errors.M{}

	if c.Calendar.Name == "" {
		errs.Append(fmt.Errorf("calendar.name is required"))
	}
	if c.Calendar.Duration <= 0 {
		errs.Append(fmt.Errorf("calendar.duration must be positive, got %d", c.Calendar.Duration))
	}
	if _, err := c.Calendar.Layout(); err != nil {
		errs.Append(fmt.Errorf("calendar.date_pattern: %w", err))
	} else if _, err := c.Calendar.GetEndDate(); err != nil {
		errs.Append(err)
	}
	if c.Calendar.FileName != "" && c.Calendar.DatesLocation == "" {
		errs.Append(fmt.Errorf("calendar.dates_location is required when calendar.file_name is set"))
	}
	if r := c.Calendar.HolidayRegion; r != "" && !isSupportedRegion(r) {
		errs.Append(fmt.Errorf("calendar.holiday_region must be one of %v, got '%s'", HolidayRegions, r))
	}
	if c.Calendar.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Calendar.CacheTTL); err != nil {
			errs.Append(fmt.Errorf("calendar.cache_ttl: %w", err))
		}
	}
	if c.Log.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			errs.Append(fmt.Errorf("log.level: %w", err))
		}
	}

	return errs.Err()
}

// Layout returns the Go time layout for DatePattern
func (c *CalendarConfig) Layout() (string, error) {
	pattern := c.DatePattern
	if pattern == "" {
		pattern = defaultDatePattern
	}
	return dateutil.ConvertPattern(pattern)
}

// GetEndDate returns the configured end date, or today when none is set
func (c *CalendarConfig) GetEndDate() (calendar.Date, error) {
	if c.EndDate == "" {
		return calendar.Today(), nil
	}
	layout, err := c.Layout()
	if err != nil {
		return calendar.Date{}, err
	}
	d, err := calendar.Parse(layout, strings.TrimSpace(c.EndDate))
	if err != nil {
		return calendar.Date{}, fmt.Errorf("calendar.end_date '%s' does not match pattern '%s': %w", c.EndDate, c.DatePattern, err)
	}
	return d, nil
}

// GetDuration returns the window length in days
func (c *CalendarConfig) GetDuration() int {
	if c.Duration <= 0 {
		return calendar.DefaultPeriod
	}
	return c.Duration
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return defaultCacheTTL
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return defaultCacheTTL
	}
	return duration
}

// DatesFile returns the path of the CSV date file, or "" when none is configured
func (c *CalendarConfig) DatesFile() string {
	if c.FileName == "" {
		return ""
	}
	return filepath.Join(c.DatesLocation, c.FileName)
}

func isSupportedRegion(region string) bool {
	for _, r := range HolidayRegions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}
