// Package config holds the runtime settings and the static lookup tables
// used to interpret the published prayer-time PDFs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Settings holds all runtime configuration.
type Settings struct {
	BaseURL        string
	CalendarURL    string
	DownloadDir    string
	OutputDir      string
	OutputFilename string
	// CalendarFilename holds the last Hijri calendar reading.
	CalendarFilename string
	GCSBucket        string
	GCSPrefix        string
	GCSCredentials   string
	ChromePath       string

	Version    string
	DataSource string
	Timezone   string
	Country    string

	RequestTimeout   time.Duration
	DownloadMinDelay time.Duration
	DownloadMaxDelay time.Duration
	DownloadRetries  int

	Production bool
	ServerAddr string
	// CacheTTL is how long the server keeps a loaded dataset.
	CacheTTL time.Duration
}

// Defaults returns the settings used when no environment overrides are set.
func Defaults() Settings {
	return Settings{
		BaseURL:          "https://www.acju.lk/",
		DownloadDir:      "data/prayer_times",
		OutputDir:        "output",
		OutputFilename:   "prayer_times_sri_lanka_full.json",
		CalendarFilename: "acju_calendar_today.json",
		Version:          "1.0",
		DataSource:       "acju.lk",
		Timezone:         "Asia/Colombo",
		Country:          "Sri Lanka",
		RequestTimeout:   20 * time.Second,
		DownloadMinDelay: 1 * time.Second,
		DownloadMaxDelay: 3 * time.Second,
		DownloadRetries:  3,
		ServerAddr:       ":8080",
		CacheTTL:         5 * time.Minute,
	}
}

// Load reads an optional .env file and applies environment overrides on top
// of Defaults.
func Load() (Settings, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	s := Defaults()
	s.BaseURL = getEnv("ACJU_BASE_URL", s.BaseURL)
	s.CalendarURL = getEnv("ACJU_CALENDAR_URL", s.BaseURL)
	s.DownloadDir = getEnv("DOWNLOAD_DIR", s.DownloadDir)
	s.OutputDir = getEnv("OUTPUT_DIR", s.OutputDir)
	s.OutputFilename = getEnv("OUTPUT_FILENAME", s.OutputFilename)
	s.CalendarFilename = getEnv("CALENDAR_FILENAME", s.CalendarFilename)
	s.GCSBucket = getEnv("GCS_BUCKET", "")
	s.GCSPrefix = getEnv("GCS_PREFIX", "")
	s.GCSCredentials = getEnv("GCS_CREDENTIALS_FILE", "")
	s.ChromePath = getEnv("CHROME_PATH", "")
	s.Timezone = getEnv("TIMEZONE", s.Timezone)
	s.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", s.RequestTimeout)
	s.DownloadMinDelay = getEnvAsDuration("DOWNLOAD_MIN_DELAY", s.DownloadMinDelay)
	s.DownloadMaxDelay = getEnvAsDuration("DOWNLOAD_MAX_DELAY", s.DownloadMaxDelay)
	s.DownloadRetries = getEnvAsInt("DOWNLOAD_RETRIES", s.DownloadRetries)
	s.CacheTTL = getEnvAsDuration("CACHE_TTL", s.CacheTTL)
	s.Production = getEnv("APP_ENV", "") == "production"
	if port := os.Getenv("PORT"); port != "" {
		s.ServerAddr = ":" + port
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	var errs []error
	if s.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if s.OutputFilename == "" {
		errs = append(errs, errors.New("output filename is required"))
	}
	if s.CalendarFilename == "" {
		errs = append(errs, errors.New("calendar filename is required"))
	}
	if s.DownloadDir == "" {
		errs = append(errs, errors.New("download directory is required"))
	}
	if s.DownloadMinDelay < 0 || s.DownloadMaxDelay < s.DownloadMinDelay {
		errs = append(errs, fmt.Errorf("invalid download delay range %s-%s", s.DownloadMinDelay, s.DownloadMaxDelay))
	}
	if s.DownloadRetries < 0 {
		errs = append(errs, fmt.Errorf("download retries must not be negative, got %d", s.DownloadRetries))
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", s.Timezone, err))
	}
	return errors.Join(errs...)
}

// OutputPath is the local path of the dataset file.
func (s Settings) OutputPath() string {
	return filepath.Join(s.OutputDir, s.OutputFilename)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
