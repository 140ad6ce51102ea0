package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/envcheck"
	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/logger"
	"github.com/forPelevin/tweetdub/internal/ports"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
	"github.com/forPelevin/tweetdub/internal/types"
)

const opTimeout = 30 * time.Minute

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Verify required tools, keys and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			report := envcheck.New().Run(cfg)
			for _, c := range report.Checks {
				mark := "ok"
				if !c.OK {
					mark = "FAIL"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-4s %s\n", c.Name, mark, c.Detail)
				if !c.OK && c.Hint != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s      hint: %s\n", "", c.Hint)
				}
			}
			if !report.AllOK() {
				return errors.New("environment checks failed")
			}
			return nil
		},
	}
}

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <tweet-url>",
		Short: "Download the video attached to a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			uc, _ := buildDeps(cfg, logger.NewStderr("cli"))

			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
			defer cancel()

			path, err := uc.FetchVideo(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%.2f MB)\n", path, fileMB(path))
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <video-file>",
		Short: "Extract the audio track of a local video as mp3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			uc, _ := buildDeps(cfg, logger.NewStderr("cli"))

			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
			defer cancel()

			path, err := uc.ExtractAudio(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%.2f MB)\n", path, fileMB(path))
			return nil
		},
	}
}

func newDubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dub <video-file>",
		Short: "Dub a local video through the remote dubbing service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.MurfAPIKey == "" {
				return errors.New("MURF_API_KEY is required (set it in .env)")
			}
			target, err := resolveLangFlag(cmd)
			if err != nil {
				return err
			}
			uc, _ := buildDeps(cfg, logger.NewStderr("cli"))

			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
			defer cancel()

			fmt.Fprintf(cmd.OutOrStdout(), "dubbing %s to %s (%s)\n", args[0], target.Name, target.Code)
			res, err := uc.DubFile(ctx, args[0], target, printProgress(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\njob %s done\nsaved %s (%d bytes)\n", res.JobID, res.Artifact.Path, res.Artifact.SizeBytes)
			return nil
		},
	}
	cmd.Flags().String("lang", locale.Default.Short, "Target language (code or name)")
	return cmd
}

func newFlowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow <tweet-url>",
		Short: "Run the complete dubbing flow through the local backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			target, err := resolveLangFlag(cmd)
			if err != nil {
				return err
			}
			uc, backend := buildDeps(cfg, logger.NewStderr("cli"))

			ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
			defer cancel()

			if !backend.UIReachable(ctx) {
				return errors.New("emulator is not running; start it with: firebase emulators:start --only functions")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "calling local dubbing backend (this may take several minutes)...")
			res, err := uc.DubViaBackend(ctx, args[0], target, printProgress(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\ndubbed video: %s\nsaved %s (%d bytes)\n", res.URL, res.Artifact.Path, res.Artifact.SizeBytes)
			return nil
		},
	}
	cmd.Flags().String("lang", locale.Default.Short, "Target language (code or name)")
	return cmd
}

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Show recent emulator function logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := fnlocal.TailDebugLog(workDir(), time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the emulator and its function endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, backend := buildDeps(cfg, logger.NewStderr("cli"))

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if backend.UIReachable(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "emulator UI: up (%s)\n", backend.UIURL())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "emulator UI: down (%s)\n", backend.UIURL())
			}
			for _, s := range backend.Probe(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-8s %s\n", s.Name, s.Note, s.URL)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "murf base URL:   %s\n", cfg.MurfBaseURL)
			fmt.Fprintf(w, "MURF_API_KEY:    %s\n", config.Mask(cfg.MurfAPIKey))
			fmt.Fprintf(w, "emulator base:   %s\n", cfg.EmulatorBaseURL)
			fmt.Fprintf(w, "emulator UI:     %s\n", cfg.EmulatorUIURL)
			fmt.Fprintf(w, "downloads dir:   %s (%d items)\n", cfg.DownloadsDir, dirCount(cfg.DownloadsDir))
			fmt.Fprintf(w, "dubbed dir:      %s (%d items)\n", cfg.DubbedDir, dirCount(cfg.DubbedDir))
			fmt.Fprintf(w, "poll budget:     %d attempts x %s\n", cfg.PollMaxAttempts, cfg.PollInterval)
			return nil
		},
	}
}

func resolveLangFlag(cmd *cobra.Command) (locale.Locale, error) {
	lang, _ := cmd.Flags().GetString("lang")
	return locale.Resolve(lang)
}

// printProgress reports download progress without flooding the output:
// whole-percent steps when the size is known, megabyte steps otherwise.
func printProgress(w io.Writer) ports.ProgressFunc {
	var lastStep int64 = -1
	return func(p types.Progress) {
		if p.TotalBytes > 0 {
			step := int64(p.Percent())
			if step/5 != lastStep/5 || step == 100 && lastStep != 100 {
				fmt.Fprintf(w, "\rsaving dubbed video... %3d%%", step)
				lastStep = step
			}
			return
		}
		step := p.Transferred / (1 << 20)
		if step != lastStep {
			fmt.Fprintf(w, "\rsaving dubbed video... %d MB", step)
			lastStep = step
		}
	}
}

func fileMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1 << 20)
}

func dirCount(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
