package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type menuItem struct {
	label string
	page  string
}

type menuModel struct {
	items []menuItem
	idx   int
}

func newMenuModel() *menuModel {
	return &menuModel{
		items: []menuItem{
			{"Check environment", "env"},
			{"Download tweet video", "download"},
			{"Extract audio from a video", "extract"},
			{"Dub a local video", "dub"},
			{"Full flow via local backend", "flow"},
			{"Emulator status", "status"},
			{"Emulator logs", "logs"},
			{"Show config", "config"},
			{"Quit", ""},
		},
	}
}

func (m *menuModel) Init() tea.Cmd {
	return nil
}

func (m *menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "q":
		return m, tea.Quit
	case "enter":
		page := m.items[m.idx].page
		if page == "" {
			return m, tea.Quit
		}
		return m, func() tea.Msg { return NavigateTo{Page: page} }
	}

	return m, nil
}

func (m *menuModel) View() string {
	var b strings.Builder
	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", cursor, i+1, item.label))
	}
	return renderPage("TWEETDUB", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: move │ q: quit")
}
