package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/config"
	"github.com/forPelevin/tweetdub/internal/types"
	"github.com/forPelevin/tweetdub/internal/usecase"
)

const (
	focusPath = iota
	focusLang
)

// dubModel submits a local video to the dubbing service and streams the
// result to disk, showing poll and download progress.
type dubModel struct {
	uc  usecase.Usecase
	cfg config.Config

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

func newDubModel(uc usecase.Usecase, cfg config.Config) *dubModel {
	input := textinput.New()
	input.Placeholder = "path to a video (empty = latest download)"
	input.CharLimit = 512
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &dubModel{uc: uc, cfg: cfg, input: input, picker: newLangPicker(), spinner: s}
}

func (m *dubModel) Init() tea.Cmd {
	if latest, ok := m.uc.LatestDownload(); ok {
		m.input.Placeholder = latest + " (latest download, default)"
	}
	return textinput.Blink
}

func (m *dubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m *dubModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (m *dubModel) start() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	if m.cfg.MurfAPIKey == "" {
		m.errMsg = "MURF_API_KEY is required (set it in .env)"
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

	m.reset()
	m.running = true
	m.ch = make(chan types.Progress, 16)
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	return m, tea.Batch(m.spinner.Tick, m.cmdDub(ctx, path), waitForProgress(m.ch))
}

func (m *dubModel) reset() {
	m.result = usecase.DubResult{}
	m.progress = types.Progress{}
	m.done = false
	m.errMsg = ""
}

func (m *dubModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus != focusPath {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *dubModel) View() string {
	var b strings.Builder

	pathMark, langMark := ">", " "
	if m.focus == focusLang {
		pathMark, langMark = " ", ">"
	}
	b.WriteString(pathMark + " Video    │ [" + m.input.View() + "]\n")
	b.WriteString(langMark + " Language │ " + m.picker.View() + "\n")

	switch {
	case m.running:
		if m.progress.Transferred > 0 {
			b.WriteString("\n" + m.spinner.View() + " saving dubbed video  " + renderProgress(m.progress) + "\n")
		} else {
			b.WriteString("\n" + m.spinner.View() + " dubbing (submit, poll, download)...\n")
		}
	case m.done:
		b.WriteString("\njob " + m.result.JobID + " done\n")
		b.WriteString("saved " + m.result.Artifact.Path + "\n")
	case m.errMsg != "":
		b.WriteString("\n" + errStyle.Render("error: "+fitText(m.errMsg, 300)) + "\n")
		if m.result.JobID != "" {
			b.WriteString("job " + m.result.JobID + "\n")
		}
	}

	return renderPage("DUB A LOCAL VIDEO", strings.TrimRight(b.String(), "\n"), "enter: dub │ tab: switch field │ ←/→: language │ esc: back")
}

func (m *dubModel) cmdDub(ctx context.Context, path string) tea.Cmd {
	uc := m.uc
	target := m.picker.current()
	ch := m.ch
	return func() tea.Msg {
		res, err := uc.DubFile(ctx, path, target, sendProgress(ch))
		close(ch)
		return dubDoneMsg{res: res, err: err}
	}
}
