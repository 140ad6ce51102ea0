package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
)

// statusModel probes the emulator UI and the function endpoints, and can
// start the emulator or open its UI in the browser.
type statusModel struct {
	backend *fnlocal.Client
	spinner spinner.Model

	loading   bool
	starting  bool
	uiUp      bool
	endpoints []fnlocal.EndpointStatus
	note      string
}

func newStatusModel(backend *fnlocal.Client) *statusModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return &statusModel{backend: backend, spinner: s}
}

func (m *statusModel) Init() tea.Cmd {
	m.loading = true
	m.note = ""
	return tea.Batch(m.spinner.Tick, m.cmdProbe())
}

func (m *statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		m.loading = false
		m.uiUp = msg.uiUp
		m.endpoints = msg.endpoints
		return m, nil
	case emulatorStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.note = msg.err.Error()
			return m, nil
		}
		m.note = "emulator started"
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.cmdProbe())
	case spinner.TickMsg:
		if !m.loading && !m.starting {
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
			if !m.loading && !m.starting {
				m.loading = true
				m.note = ""
				return m, tea.Batch(m.spinner.Tick, m.cmdProbe())
			}
		case "s":
			if !m.loading && !m.starting && !m.uiUp {
				m.starting = true
				m.note = ""
				return m, tea.Batch(m.spinner.Tick, m.cmdStart())
			}
		case "o":
			// Best effort: a headless terminal has no browser to open.
			_ = browser.OpenURL(m.backend.UIURL())
			return m, nil
		}
	}
	return m, nil
}

func (m *statusModel) View() string {
	var b strings.Builder
	switch {
	case m.starting:
		b.WriteString(m.spinner.View() + " starting emulator...\n")
	case m.loading:
		b.WriteString(m.spinner.View() + " probing...\n")
	default:
		state := "down"
		if m.uiUp {
			state = "up"
		}
		b.WriteString(fmt.Sprintf("%-14s %-8s %s\n", "emulator UI", state, m.backend.UIURL()))
		for _, s := range m.endpoints {
			b.WriteString(fmt.Sprintf("%-14s %-8s %s\n", s.Name, s.Note, s.URL))
		}
	}
	if m.note != "" {
		b.WriteString("\n" + m.note + "\n")
	}
	return renderPage("EMULATOR STATUS", strings.TrimRight(b.String(), "\n"), "r: refresh │ s: start emulator │ o: open UI │ esc: back")
}

func (m *statusModel) cmdProbe() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return statusLoadedMsg{
			uiUp:      backend.UIReachable(ctx),
			endpoints: backend.Probe(ctx),
		}
	}
}

func (m *statusModel) cmdStart() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		if err := backend.Start(); err != nil {
			return emulatorStartedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return emulatorStartedMsg{err: backend.WaitReady(ctx, time.Minute)}
	}
}
