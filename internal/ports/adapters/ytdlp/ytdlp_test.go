package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTweetURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"twitter kept", "https://twitter.com/u/status/1", "https://twitter.com/u/status/1", false},
		{"x.com rewritten", "https://x.com/u/status/1", "https://twitter.com/u/status/1", false},
		{"www.x.com rewritten", "https://www.x.com/u/status/1", "https://twitter.com/u/status/1", false},
		{"case insensitive host", "https://X.com/u/status/1", "https://twitter.com/u/status/1", false},
		{"query preserved", "https://x.com/u/status/1?s=20", "https://twitter.com/u/status/1?s=20", false},
		{"empty", "  ", "", true},
		{"relative", "u/status/1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTweetURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeTweetURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFetchWritesTimestampedFile(t *testing.T) {
	dest := t.TempDir()
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	var gotArgs []string
	a := New("yt-dlp").
		WithClock(func() time.Time { return fixed }).
		WithRun(func(_ context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			// the binary would create the output file; emulate that
			for i, arg := range args {
				if arg == "-o" {
					if err := os.WriteFile(args[i+1], []byte("video"), 0o644); err != nil {
						return nil, err
					}
				}
			}
			return []byte("ok"), nil
		})

	got, err := a.Fetch(context.Background(), "https://x.com/u/status/1", dest)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := filepath.Join(dest, "video_"+strconv.FormatInt(fixed.Unix(), 10)+".mp4")
	if got != want {
		t.Fatalf("unexpected output path: %s, want %s", got, want)
	}
	if gotArgs[len(gotArgs)-1] != "https://twitter.com/u/status/1" {
		t.Fatalf("expected normalized URL as last arg, got %v", gotArgs)
	}
}

func TestFetchCommandFailure(t *testing.T) {
	a := New("").WithRun(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("ERROR: no video"), errors.New("exit status 1")
	})
	_, err := a.Fetch(context.Background(), "https://twitter.com/u/status/1", t.TempDir())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "no video") {
		t.Fatalf("expected tool output in error, got: %v", err)
	}
}
