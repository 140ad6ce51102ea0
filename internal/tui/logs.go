package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
)

// logsModel shows the filtered tail of the emulator's debug log.
type logsModel struct {
	repoRoot string
	spinner  spinner.Model

	loading bool
	out     string
	errMsg  string
}

func newLogsModel(repoRoot string) *logsModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return &logsModel{repoRoot: repoRoot, spinner: s}
}

func (m *logsModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.cmdLoad())
}

func (m *logsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		m.loading = false
		m.out = msg.out
		m.errMsg = ""
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.cmdLoad())
			}
		}
	}
	return m, nil
}

func (m *logsModel) View() string {
	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " reading logs...\n")
	case m.errMsg != "":
		b.WriteString(errStyle.Render("error: "+m.errMsg) + "\n")
	case strings.TrimSpace(m.out) == "":
		b.WriteString("no recent log lines\n")
	default:
		b.WriteString(m.out)
	}
	return renderPage("EMULATOR LOGS", strings.TrimRight(b.String(), "\n"), "r: refresh │ esc: back")
}

func (m *logsModel) cmdLoad() tea.Cmd {
	root := m.repoRoot
	return func() tea.Msg {
		out, err := fnlocal.TailDebugLog(root, time.Now().UTC())
		return logsLoadedMsg{out: out, err: err}
	}
}
