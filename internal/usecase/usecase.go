// Package usecase wires the ports together into the operations the
// menu and subcommands expose. It owns artifact naming and directory
// layout; the adapters stay free of policy.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/logger"
	"github.com/forPelevin/tweetdub/internal/ports"
	"github.com/forPelevin/tweetdub/internal/types"
)

// videoExts are the container formats the downloads directory may hold.
var videoExts = []string{".mp4", ".mov", ".mkv", ".webm"}

type Deps struct {
	Fetcher ports.VideoFetcher
	Audio   ports.AudioExtractor
	Dubber  ports.DubProvider
	Backend ports.BackendFunc
	Log     *logger.Logger
}

type Usecase struct {
	d   Deps
	cfg config.Config
	now func() time.Time
}

func New(d Deps, cfg config.Config) Usecase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return Usecase{d: d, cfg: cfg, now: time.Now}
}

// DubResult ties a finished dubbing run together for display.
type DubResult struct {
	JobID    string
	URL      string
	Artifact types.Artifact
}

// FetchVideo downloads the tweet's video into the downloads directory
// and returns the written path.
func (u Usecase) FetchVideo(ctx context.Context, tweetURL string) (string, error) {
	path, err := u.d.Fetcher.Fetch(ctx, tweetURL, u.cfg.DownloadsDir)
	if err != nil {
		return "", err
	}
	u.d.Log.Info().Str("path", path).Msg("video downloaded")
	return path, nil
}

// ExtractAudio transcodes videoPath into an mp3 next to the other audio
// artifacts, named after the video's stem.
func (u Usecase) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	stem := filepath.Base(videoPath)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	outPath := filepath.Join(u.cfg.AudioDir, stem+".mp3")

	if err := u.d.Audio.ExtractMP3(ctx, videoPath, outPath); err != nil {
		return "", err
	}
	u.d.Log.Info().Str("path", outPath).Msg("audio extracted")
	return outPath, nil
}

// DubFile submits a local media file to the dubbing service, waits for
// the job to finish within the configured poll budget, and streams the
// result into the dubbed directory.
func (u Usecase) DubFile(ctx context.Context, videoPath string, target locale.Locale, onProgress ports.ProgressFunc) (DubResult, error) {
	jobID, err := u.d.Dubber.CreateJob(ctx, videoPath, target)
	if err != nil {
		return DubResult{}, err
	}
	u.d.Log.Info().Str("job_id", jobID).Str("locale", target.Code).Msg("dubbing job created")

	url, err := u.d.Dubber.AwaitCompletion(ctx, jobID, u.cfg.PollMaxAttempts, u.cfg.PollInterval)
	if err != nil {
		return DubResult{JobID: jobID}, err
	}
	u.d.Log.Info().Str("job_id", jobID).Msg("dubbing job completed")

	art, err := u.d.Dubber.Download(ctx, url, u.dubbedPath(target), onProgress)
	if err != nil {
		return DubResult{JobID: jobID, URL: url}, err
	}
	return DubResult{JobID: jobID, URL: url, Artifact: art}, nil
}

// DubViaBackend runs the complete flow through the locally emulated
// function and saves the resulting video like DubFile does.
func (u Usecase) DubViaBackend(ctx context.Context, tweetURL string, target locale.Locale, onProgress ports.ProgressFunc) (DubResult, error) {
	url, err := u.d.Backend.DubVideo(ctx, tweetURL, target)
	if err != nil {
		return DubResult{}, err
	}
	u.d.Log.Info().Str("url", url).Msg("backend produced dubbed video")

	art, err := u.d.Dubber.Download(ctx, url, u.dubbedPath(target), onProgress)
	if err != nil {
		return DubResult{URL: url}, err
	}
	return DubResult{URL: url, Artifact: art}, nil
}

// LatestDownload returns the most recently modified video file in the
// downloads directory, to offer as a default input.
func (u Usecase) LatestDownload() (string, bool) {
	entries, err := os.ReadDir(u.cfg.DownloadsDir)
	if err != nil {
		return "", false
	}

	var (
		best     string
		bestTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !hasVideoExt(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = filepath.Join(u.cfg.DownloadsDir, e.Name())
			bestTime = info.ModTime()
		}
	}
	return best, best != ""
}

// RecentDownloads lists up to n files from the downloads directory,
// newest first. Used to help the operator after a bad path entry.
func (u Usecase) RecentDownloads(n int) []string {
	entries, err := os.ReadDir(u.cfg.DownloadsDir)
	if err != nil {
		return nil
	}
	type item struct {
		path string
		mod  time.Time
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{filepath.Join(u.cfg.DownloadsDir, e.Name()), info.ModTime()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod.After(items[j].mod) })
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.path)
	}
	return out
}

// dubbedPath names one output artifact deterministically from the
// current time and locale code so repeated runs never collide.
func (u Usecase) dubbedPath(target locale.Locale) string {
	return filepath.Join(u.cfg.DubbedDir, fmt.Sprintf("dubbed_%d_%s.mp4", u.now().Unix(), target.Short))
}

func hasVideoExt(name string) bool {
	ext := filepath.Ext(name)
	for _, v := range videoExts {
		if ext == v {
			return true
		}
	}
	return false
}
