package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/envcheck"
	"github.com/forPelevin/tweetdub/internal/types"
)

// envModel runs the environment checks when opened and shows the report.
type envModel struct {
	cfg     config.Config
	spinner spinner.Model

	loading bool
	report  types.EnvReport
}

func newEnvModel(cfg config.Config) *envModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return &envModel{cfg: cfg, spinner: s}
}

func (m *envModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.cmdCheck())
}

func (m *envModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case envReportMsg:
		m.loading = false
		m.report = msg.report
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
				return m, tea.Batch(m.spinner.Tick, m.cmdCheck())
			}
		}
	}
	return m, nil
}

func (m *envModel) View() string {
	var b strings.Builder
	if m.loading {
		b.WriteString(m.spinner.View() + " checking...\n")
	} else {
		for _, c := range m.report.Checks {
			mark := "ok  "
			if !c.OK {
				mark = "FAIL"
			}
			b.WriteString(fmt.Sprintf("%-14s %s %s\n", c.Name, mark, fitText(c.Detail, 60)))
			if !c.OK && c.Hint != "" {
				b.WriteString(helpStyle.Render("               hint: "+c.Hint) + "\n")
			}
		}
		if m.report.AllOK() {
			b.WriteString("\nall checks passed\n")
		} else {
			b.WriteString("\n" + errStyle.Render("some checks failed") + "\n")
		}
	}
	return renderPage("ENVIRONMENT CHECK", strings.TrimRight(b.String(), "\n"), "r: re-run │ esc: back")
}

func (m *envModel) cmdCheck() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return envReportMsg{report: envcheck.New().Run(cfg)}
	}
}
