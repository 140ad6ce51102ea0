package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractMP3Args(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in.mp4")
	if err := os.WriteFile(in, []byte("v"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(tmp, "audio", "in.mp3")

	var gotArgs []string
	a := New("").WithRun(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return nil, nil
	})

	if err := a.ExtractMP3(context.Background(), in, out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"ffmpeg", "-vn", "-acodec libmp3lame", "-q:a 2", out} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in command %q", want, joined)
		}
	}
	if _, err := os.Stat(filepath.Dir(out)); err != nil {
		t.Fatalf("expected output dir to be created: %v", err)
	}
}

func TestExtractMP3MissingInput(t *testing.T) {
	a := New("").WithRun(func(context.Context, string, ...string) ([]byte, error) {
		t.Fatal("runner must not be called for a missing input")
		return nil, nil
	})
	err := a.ExtractMP3(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "out.mp3")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestExtractMP3ToolFailure(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in.mp4")
	if err := os.WriteFile(in, []byte("v"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	a := New("").WithRun(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Unknown encoder 'libmp3lame'"), errors.New("exit status 1")
	})
	err := a.ExtractMP3(context.Background(), in, filepath.Join(tmp, "out.mp3"))
	if err == nil || !strings.Contains(err.Error(), "libmp3lame") {
		t.Fatalf("expected tool output in error, got: %v", err)
	}
}
