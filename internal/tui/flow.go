package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
	"github.com/forPelevin/tweetdub/internal/types"
	"github.com/forPelevin/tweetdub/internal/usecase"
)

// flowModel runs the complete dubbing flow through the locally emulated
// backend function.
type flowModel struct {
	uc      usecase.Usecase
	backend *fnlocal.Client

	input   textinput.Model
	picker  langPicker
	focus   int
	spinner spinner.Model

	running  bool
	cancel   context.CancelFunc
	ch       chan types.Progress
	progress types.Progress

	result usecase.DubResult
	done   bool
	errMsg string
}

func newFlowModel(uc usecase.Usecase, backend *fnlocal.Client) *flowModel {
	input := textinput.New()
	input.Placeholder = "https://twitter.com/user/status/..."
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &flowModel{uc: uc, backend: backend, input: input, picker: newLangPicker(), spinner: s}
}

func (m *flowModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *flowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dubDoneMsg:
		m.running = false
		m.cancel = nil
		m.result = msg.res
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.done = true
		}
		return m, nil
	case progressMsg:
		m.progress = msg.p
		return m, waitForProgress(m.ch)
	case progressClosedMsg:
		return m, nil
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.updateInput(msg)
}

func (m *flowModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.running {
			m.cancel()
			return m, nil
		}
		m.reset()
		return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
	case "tab", "shift+tab":
		if m.focus == focusPath {
			m.focus = focusLang
			m.input.Blur()
		} else {
			m.focus = focusPath
			m.input.Focus()
		}
		return m, nil
	case "left", "right":
		if m.focus == focusLang {
			if msg.String() == "left" {
				m.picker.prev()
			} else {
				m.picker.next()
			}
			return m, nil
		}
	case "enter":
		return m.start()
	}

	return m.updateInput(msg)
}

func (m *flowModel) start() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	url := strings.TrimSpace(m.input.Value())
	if url == "" {
		m.errMsg = "tweet URL is required"
		return m, nil
	}

	m.reset()
	m.running = true
	m.ch = make(chan types.Progress, 16)
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	return m, tea.Batch(m.spinner.Tick, m.cmdFlow(ctx, url), waitForProgress(m.ch))
}

func (m *flowModel) reset() {
	m.result = usecase.DubResult{}
	m.progress = types.Progress{}
	m.done = false
	m.errMsg = ""
}

func (m *flowModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus != focusPath {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *flowModel) View() string {
	var b strings.Builder

	urlMark, langMark := ">", " "
	if m.focus == focusLang {
		urlMark, langMark = " ", ">"
	}
	b.WriteString(urlMark + " Tweet URL │ [" + m.input.View() + "]\n")
	b.WriteString(langMark + " Language  │ " + m.picker.View() + "\n")

	switch {
	case m.running:
		if m.progress.Transferred > 0 {
			b.WriteString("\n" + m.spinner.View() + " saving dubbed video  " + renderProgress(m.progress) + "\n")
		} else {
			b.WriteString("\n" + m.spinner.View() + " backend is dubbing (this may take several minutes)...\n")
		}
	case m.done:
		b.WriteString("\ndubbed video: " + m.result.URL + "\n")
		b.WriteString("saved " + m.result.Artifact.Path + "\n")
	case m.errMsg != "":
		b.WriteString("\n" + errStyle.Render("error: "+fitText(m.errMsg, 300)) + "\n")
	}

	return renderPage("FULL FLOW VIA BACKEND", strings.TrimRight(b.String(), "\n"), "enter: run │ tab: switch field │ ←/→: language │ esc: back")
}

func (m *flowModel) cmdFlow(ctx context.Context, url string) tea.Cmd {
	uc := m.uc
	backend := m.backend
	target := m.picker.current()
	ch := m.ch
	return func() tea.Msg {
		if !backend.UIReachable(ctx) {
			close(ch)
			return dubDoneMsg{err: errors.New("emulator is not running; start it from the status page")}
		}
		res, err := uc.DubViaBackend(ctx, url, target, sendProgress(ch))
		close(ch)
		return dubDoneMsg{res: res, err: err}
	}
}
