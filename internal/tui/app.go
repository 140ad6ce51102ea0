package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// rootModel is the page router:
// 1) keeps the active page
// 2) handles the global ctrl+c quit
// 3) handles NavigateTo messages
// 4) delegates everything else to the active page
type rootModel struct {
	pages   map[string]tea.Model
	current tea.Model

	quitByUser bool
}

func newRootModel(pages map[string]tea.Model, startPage string) rootModel {
	return rootModel{
		pages:   pages,
		current: pages[startPage],
	}
}

func (r rootModel) Init() tea.Cmd {
	if r.current == nil {
		return nil
	}
	return r.current.Init()
}

func (r rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		r.quitByUser = true
		return r, tea.Quit
	}

	if nav, ok := msg.(NavigateTo); ok {
		next, exists := r.pages[nav.Page]
		if !exists {
			return r, nil
		}
		r.current = next
		if nav.Payload != nil {
			return r, func() tea.Msg { return nav.Payload }
		}
		return r, r.current.Init()
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r rootModel) View() string {
	if r.current == nil {
		return renderPage("tweetdub", "", "")
	}
	return appStyle.Render(r.current.View())
}
