// Package ffmpeg wraps the ffmpeg binary behind the AudioExtractor port.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Adapter struct {
	bin string
	run RunFunc
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &Adapter{
		bin: binPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// ExtractMP3 drops the video stream and transcodes the audio track to
// VBR mp3 at outPath.
func (a *Adapter) ExtractMP3(ctx context.Context, videoPath, outPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("stat input video: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	b, err := a.run(ctx, a.bin,
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// WithRun replaces the command runner. For tests.
func (a *Adapter) WithRun(run RunFunc) *Adapter {
	a.run = run
	return a
}
