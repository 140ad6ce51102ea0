package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/usecase"
)

// extractModel transcodes a local video into an mp3. An empty path means
// the most recent download.
type extractModel struct {
	uc usecase.Usecase

	input   textinput.Model
	spinner spinner.Model

	running bool
	cancel  context.CancelFunc
	result  string
	errMsg  string
	recent  []string
}

func newExtractModel(uc usecase.Usecase) *extractModel {
	input := textinput.New()
	input.Placeholder = "path to a video (empty = latest download)"
	input.CharLimit = 512
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &extractModel{uc: uc, input: input, spinner: s}
}

func (m *extractModel) Init() tea.Cmd {
	if latest, ok := m.uc.LatestDownload(); ok {
		m.input.Placeholder = latest + " (latest download, default)"
	}
	return textinput.Blink
}

func (m *extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case prefillExtractMsg:
		m.result, m.errMsg, m.recent = "", "", nil
		m.input.SetValue(msg.path)
		m.input.CursorEnd()
		return m, textinput.Blink
	case extractDoneMsg:
		m.running = false
		m.cancel = nil
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.recent = m.uc.RecentDownloads(5)
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
			m.result, m.errMsg, m.recent = "", "", nil
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "enter":
			if m.running {
				return m, nil
			}
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				latest, ok := m.uc.LatestDownload()
				if !ok {
					m.errMsg = "no downloads yet; enter a path"
					return m, nil
				}
				path = latest
			}
			m.result, m.errMsg, m.recent = "", "", nil
			m.running = true
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			return m, tea.Batch(m.spinner.Tick, m.cmdExtract(ctx, path))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *extractModel) View() string {
	var b strings.Builder
	b.WriteString("Video │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	switch {
	case m.running:
		b.WriteString("\n" + m.spinner.View() + " extracting audio...\n")
	case m.result != "":
		b.WriteString("\nsaved " + m.result + "\n")
	case m.errMsg != "":
		b.WriteString("\n" + errStyle.Render("error: "+fitText(m.errMsg, 200)) + "\n")
	}
	if len(m.recent) > 0 {
		b.WriteString("\nrecent downloads:\n")
		for _, p := range m.recent {
			b.WriteString("  " + p + "\n")
		}
	}

	return renderPage("EXTRACT AUDIO", strings.TrimRight(b.String(), "\n"), "enter: extract │ esc: back")
}

func (m *extractModel) cmdExtract(ctx context.Context, path string) tea.Cmd {
	uc := m.uc
	return func() tea.Msg {
		out, err := uc.ExtractAudio(ctx, path)
		return extractDoneMsg{path: out, err: err}
	}
}
