package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/usecase"
)

// downloadModel fetches the video attached to a tweet URL.
type downloadModel struct {
	uc usecase.Usecase

	input   textinput.Model
	spinner spinner.Model

	running bool
	cancel  context.CancelFunc
	result  string
	errMsg  string
}

func newDownloadModel(uc usecase.Usecase) *downloadModel {
	input := textinput.New()
	input.Placeholder = "https://twitter.com/user/status/..."
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &downloadModel{uc: uc, input: input, spinner: s}
}

func (m *downloadModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.running = false
		m.cancel = nil
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.result = msg.path
		}
		return m, nil
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.running {
				m.cancel()
				return m, nil
			}
			m.result, m.errMsg = "", ""
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "ctrl+e":
			if m.running || m.result == "" {
				return m, nil
			}
			path := m.result
			m.result, m.errMsg = "", ""
			return m, func() tea.Msg {
				return NavigateTo{Page: "extract", Payload: prefillExtractMsg{path: path}}
			}
		case "enter":
			if m.running {
				return m, nil
			}
			url := strings.TrimSpace(m.input.Value())
			if url == "" {
				m.errMsg = "tweet URL is required"
				return m, nil
			}
			m.result, m.errMsg = "", ""
			m.running = true
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			return m, tea.Batch(m.spinner.Tick, m.cmdFetch(ctx, url))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *downloadModel) View() string {
	var b strings.Builder
	b.WriteString("Tweet URL │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	switch {
	case m.running:
		b.WriteString("\n" + m.spinner.View() + " downloading...\n")
	case m.result != "":
		b.WriteString("\nsaved " + m.result + "\n")
		b.WriteString(helpStyle.Render("ctrl+e: extract its audio") + "\n")
	case m.errMsg != "":
		b.WriteString("\n" + errStyle.Render("error: "+fitText(m.errMsg, 200)) + "\n")
	}

	return renderPage("DOWNLOAD TWEET VIDEO", strings.TrimRight(b.String(), "\n"), "enter: download │ esc: back")
}

func (m *downloadModel) cmdFetch(ctx context.Context, url string) tea.Cmd {
	uc := m.uc
	return func() tea.Msg {
		path, err := uc.FetchVideo(ctx, url)
		return fetchDoneMsg{path: path, err: err}
	}
}
