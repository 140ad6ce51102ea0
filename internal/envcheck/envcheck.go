// Package envcheck probes the external tools, credentials and
// directories the harness depends on, and produces a report the
// operator can act on before running a flow.
package envcheck

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/types"
)

// Checker validates external binaries and required filesystem paths.
// OS dependencies are injectable so tests run without the real tools.
type Checker struct {
	lookPath   func(string) (string, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(dir, pattern string) (*os.File, error)
	remove     func(string) error
	now        func() time.Time
}

func New() *Checker {
	return &Checker{
		lookPath:   exec.LookPath,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
		now:        time.Now,
	}
}

// Run executes all checks against the given configuration.
func (c *Checker) Run(cfg config.Config) types.EnvReport {
	checks := []types.ToolCheck{
		c.checkTool("yt-dlp", cfg.YtdlpPath),
		c.checkTool("ffmpeg", cfg.FFmpegPath),
		c.checkTool("firebase", cfg.FirebasePath),
		c.checkAPIKey(cfg.MurfAPIKey),
		c.checkDir("downloads dir", cfg.DownloadsDir),
		c.checkDir("dubbed dir", cfg.DubbedDir),
	}
	return types.EnvReport{GeneratedAt: c.now().UTC(), Checks: checks}
}

func (c *Checker) checkTool(name, path string) types.ToolCheck {
	start := c.now()
	if path == "" {
		path = name
	}
	resolved, err := c.lookPath(path)
	if err != nil {
		return types.ToolCheck{
			Name:    name,
			OK:      false,
			Detail:  fmt.Sprintf("not found in PATH: %s", path),
			Hint:    fmt.Sprintf("install %s and make sure the binary is on PATH", name),
			Elapsed: c.now().Sub(start),
		}
	}
	return types.ToolCheck{
		Name:    name,
		OK:      true,
		Detail:  "found at " + resolved,
		Elapsed: c.now().Sub(start),
	}
}

func (c *Checker) checkAPIKey(key string) types.ToolCheck {
	if key == "" {
		return types.ToolCheck{
			Name:   "MURF_API_KEY",
			OK:     false,
			Detail: "not set",
			Hint:   "export MURF_API_KEY or add it to .env",
		}
	}
	return types.ToolCheck{Name: "MURF_API_KEY", OK: true, Detail: config.Mask(key)}
}

// checkDir verifies the directory exists (creating it if needed) and is
// writable by dropping and removing a temp file.
func (c *Checker) checkDir(name, dir string) types.ToolCheck {
	if err := c.mkdirAll(dir, 0o755); err != nil {
		return types.ToolCheck{
			Name:   name,
			OK:     false,
			Detail: fmt.Sprintf("cannot create %s: %v", dir, err),
		}
	}
	f, err := c.createTemp(dir, ".envcheck-*")
	if err != nil {
		return types.ToolCheck{
			Name:   name,
			OK:     false,
			Detail: fmt.Sprintf("not writable: %v", err),
			Hint:   "check permissions on " + dir,
		}
	}
	name2 := f.Name()
	f.Close()
	_ = c.remove(name2)
	abs, _ := filepath.Abs(dir)
	return types.ToolCheck{Name: name, OK: true, Detail: abs}
}
