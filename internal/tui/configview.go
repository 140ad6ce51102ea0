package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/config"
)

// configModel is a read-only view of the runtime configuration with
// secrets masked.
type configModel struct {
	cfg config.Config
}

func newConfigModel(cfg config.Config) *configModel {
	return &configModel{cfg: cfg}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
	}
	return m, nil
}

func (m *configModel) View() string {
	var b strings.Builder
	rows := []struct{ name, value string }{
		{"murf base URL", m.cfg.MurfBaseURL},
		{"MURF_API_KEY", config.Mask(m.cfg.MurfAPIKey)},
		{"emulator base", m.cfg.EmulatorBaseURL},
		{"emulator UI", m.cfg.EmulatorUIURL},
		{"downloads dir", m.cfg.DownloadsDir},
		{"dubbed dir", m.cfg.DubbedDir},
		{"audio dir", m.cfg.AudioDir},
		{"poll budget", fmt.Sprintf("%d attempts x %s", m.cfg.PollMaxAttempts, m.cfg.PollInterval)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-15s │ %s\n", r.name, r.value))
	}
	return renderPage("CONFIG", strings.TrimRight(b.String(), "\n"), "esc: back")
}
