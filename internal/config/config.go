// Package config holds the explicit configuration object for the CLI.
// Secrets are sourced from environment variables (optionally loaded from
// a .env file by the CLI layer) and passed down by value so the adapters
// stay pure and testable with injected credentials.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. Zero values are filled by
// envDefault tags when parsed from the environment.
type Config struct {
	MurfAPIKey       string   `env:"MURF_API_KEY"`
	MurfBaseURL      string   `env:"MURF_BASE_URL" envDefault:"https://api.murf.ai"`
	MurfAllowedHosts []string `env:"MURF_ALLOWED_HOSTS" envSeparator:","`

	EmulatorBaseURL string `env:"EMULATOR_BASE_URL" envDefault:"http://127.0.0.1:5001/project-4261681351/us-central1"`
	EmulatorUIURL   string `env:"EMULATOR_UI_URL" envDefault:"http://127.0.0.1:4000"`

	DownloadsDir string `env:"DOWNLOADS_DIR" envDefault:"downloads"`
	DubbedDir    string `env:"DUBBED_DIR" envDefault:"dubbed"`
	AudioDir     string `env:"AUDIO_DIR" envDefault:"audio"`

	YtdlpPath    string `env:"YTDLP_PATH" envDefault:"yt-dlp"`
	FFmpegPath   string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	FirebasePath string `env:"FIREBASE_PATH" envDefault:"firebase"`

	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"120"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`

	SubmitTimeout   time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"60s"`
	StatusTimeout   time.Duration `env:"STATUS_TIMEOUT" envDefault:"30s"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"120s"`
	BackendTimeout  time.Duration `env:"BACKEND_TIMEOUT" envDefault:"600s"`
}

// FromEnv parses the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the program relies on.
// The Murf API key is intentionally not required here: only the dubbing
// operations need it and they report its absence themselves.
func (c Config) Validate() error {
	if c.PollMaxAttempts <= 0 {
		return errors.New("poll max attempts must be > 0")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be > 0")
	}
	if c.DownloadsDir == "" || c.DubbedDir == "" || c.AudioDir == "" {
		return errors.New("output directories must not be empty")
	}
	if c.EmulatorBaseURL == "" {
		return errors.New("emulator base URL must not be empty")
	}
	return nil
}

// Mask obscures a secret for display: first and last four characters
// for long values, a presence marker otherwise.
func Mask(v string) string {
	switch {
	case v == "":
		return "not set"
	case len(v) > 8:
		return v[:4] + "..." + v[len(v)-4:]
	default:
		return "set"
	}
}
