package util

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Config holds runtime settings and flags.
type Config struct {
	APIKey      string
	Model       string
	SeedText    string
	Target      time.Time
	CommitDelay time.Duration
	CityCount   int
	Theme       string
	LogFile     string
	ReceiptsDir string
	Debug       bool
}

// Defaults returns the configuration used when no flag or variable is set.
func Defaults() Config {
	return Config{
		Model:       "gemini-2.5-flash-image",
		Target:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local),
		CommitDelay: 1500 * time.Millisecond,
		CityCount:   10,
		Theme:       "catppuccin",
		LogFile:     filepath.Join(os.TempDir(), "cometcondo.log"),
		ReceiptsDir: defaultReceiptsDir(),
	}
}

// APIKeyFromEnv prefers GEMINI_API_KEY and falls back to API_KEY.
func APIKeyFromEnv() string {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		return v
	}
	return os.Getenv("API_KEY")
}

// ParseTarget accepts RFC3339 or a bare local timestamp.
func ParseTarget(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse target %q", s)
	}
	return t, nil
}

func (c Config) Validate() error {
	if c.CityCount <= 0 {
		return errors.Errorf("city count must be positive, got %d", c.CityCount)
	}
	if c.CommitDelay < 0 {
		return errors.Errorf("commit delay must not be negative, got %s", c.CommitDelay)
	}
	if c.Target.IsZero() {
		return errors.New("missing countdown target")
	}
	return nil
}

func defaultReceiptsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cometcondo", "receipts")
}
