package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.murf.ai", cfg.MurfBaseURL)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
	assert.Equal(t, "dubbed", cfg.DubbedDir)
	assert.Equal(t, 120, cfg.PollMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MURF_API_KEY", "mk-test-key-123456")
	t.Setenv("POLL_MAX_ATTEMPTS", "5")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("MURF_ALLOWED_HOSTS", "api.murf.ai,staging.murf.ai")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "mk-test-key-123456", cfg.MurfAPIKey)
	assert.Equal(t, 5, cfg.PollMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, []string{"api.murf.ai", "staging.murf.ai"}, cfg.MurfAllowedHosts)
}

func TestValidate(t *testing.T) {
	base := Config{
		DownloadsDir:    "downloads",
		DubbedDir:       "dubbed",
		AudioDir:        "audio",
		EmulatorBaseURL: "http://127.0.0.1:5001/p/us-central1",
		PollMaxAttempts: 1,
		PollInterval:    time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero attempts", func(c *Config) { c.PollMaxAttempts = 0 }, "poll max attempts"},
		{"zero interval", func(c *Config) { c.PollInterval = 0 }, "poll interval"},
		{"no dubbed dir", func(c *Config) { c.DubbedDir = "" }, "output directories"},
		{"no emulator", func(c *Config) { c.EmulatorBaseURL = "" }, "emulator base URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":                     "not set",
		"short":                "set",
		"mk-live-abcdef123456": "mk-l...3456",
	}
	for in, want := range tests {
		assert.Equal(t, want, Mask(in))
	}
}
