// Package tui is the interactive menu over the dubbing operations. One
// Bubble Tea page per operation, routed by rootModel.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/logger"
	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
	"github.com/forPelevin/tweetdub/internal/usecase"
)

// Run opens the interactive menu and blocks until the operator quits.
func Run(uc usecase.Usecase, backend *fnlocal.Client, cfg config.Config, log *logger.Logger) error {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	log.Info().Msg("interactive session started")

	pages := map[string]tea.Model{
		"menu":     newMenuModel(),
		"env":      newEnvModel(cfg),
		"download": newDownloadModel(uc),
		"extract":  newExtractModel(uc),
		"dub":      newDubModel(uc, cfg),
		"flow":     newFlowModel(uc, backend),
		"status":   newStatusModel(backend),
		"logs":     newLogsModel(wd),
		"config":   newConfigModel(cfg),
	}

	root := newRootModel(pages, "menu")
	final, err := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(rootModel); ok && m.quitByUser {
		log.Info().Msg("interactive session ended by operator")
	}
	return nil
}
