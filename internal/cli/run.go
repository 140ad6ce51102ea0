package cli

import (
	"fmt"
	"os"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/logger"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/murf"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/tweetdub/internal/tui"
	"github.com/forPelevin/tweetdub/internal/usecase"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if err := murf.ValidateBaseURL(cfg.MurfBaseURL, cfg.MurfAllowedHosts); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildDeps(cfg config.Config, log *logger.Logger) (usecase.Usecase, *fnlocal.Client) {
	backend := fnlocal.New(fnlocal.Config{
		BaseURL:      cfg.EmulatorBaseURL,
		UIURL:        cfg.EmulatorUIURL,
		FirebasePath: cfg.FirebasePath,
		RepoRoot:     workDir(),
		CallTimeout:  cfg.BackendTimeout,
	})

	deps := usecase.Deps{
		Fetcher: ytdlp.New(cfg.YtdlpPath),
		Audio:   ffmpeg.New(cfg.FFmpegPath),
		Dubber: murf.New(murf.Config{
			APIKey:          cfg.MurfAPIKey,
			BaseURL:         cfg.MurfBaseURL,
			SubmitTimeout:   cfg.SubmitTimeout,
			StatusTimeout:   cfg.StatusTimeout,
			DownloadTimeout: cfg.DownloadTimeout,
		}),
		Backend: backend,
		Log:     log,
	}
	return usecase.New(deps, cfg), backend
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewSession("tui")
	uc, backend := buildDeps(cfg, log)
	return tui.Run(uc, backend, cfg, log)
}

func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
