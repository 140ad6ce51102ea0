// Package ytdlp wraps the yt-dlp binary behind the VideoFetcher port.
package ytdlp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// RunFunc executes an external command and returns its combined output.
// Injectable so tests never need the binary installed.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Adapter struct {
	bin string
	run RunFunc
	now func() time.Time
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{
		bin: binPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
		now: time.Now,
	}
}

// Fetch downloads the tweet's video into destDir under a timestamped
// name and returns the written path.
func (a *Adapter) Fetch(ctx context.Context, tweetURL, destDir string) (string, error) {
	norm, err := NormalizeTweetURL(tweetURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(destDir, fmt.Sprintf("video_%d.mp4", a.now().Unix()))

	args := []string{
		"--no-warnings",
		"-o", outPath,
		"--trim-filenames", "100",
		norm,
	}
	b, err := a.run(ctx, a.bin, args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("yt-dlp reported success but produced no file: %w", err)
	}
	return outPath, nil
}

// NormalizeTweetURL rewrites x.com links to twitter.com and validates
// that the URL is absolute. The downloader remains Twitter-only.
func NormalizeTweetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("tweet URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse tweet URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("tweet URL %q: absolute URL with host is required", raw)
	}
	if strings.EqualFold(u.Host, "x.com") || strings.EqualFold(u.Host, "www.x.com") {
		u.Host = "twitter.com"
	}
	return u.String(), nil
}

// WithRun replaces the command runner. For tests.
func (a *Adapter) WithRun(run RunFunc) *Adapter {
	a.run = run
	return a
}

// WithClock replaces the timestamp source. For tests.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}
