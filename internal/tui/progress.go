package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/tweetdub/internal/types"
)

var bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

// waitForProgress re-arms after every progressMsg so the stream keeps
// flowing until the worker closes the channel.
func waitForProgress(ch <-chan types.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return progressMsg{p: p}
	}
}

// sendProgress never blocks the download goroutine: when the UI lags,
// intermediate updates are dropped.
func sendProgress(ch chan<- types.Progress) func(types.Progress) {
	return func(p types.Progress) {
		select {
		case ch <- p:
		default:
		}
	}
}

func renderProgress(p types.Progress) string {
	if p.Transferred == 0 {
		return ""
	}
	if p.TotalBytes > 0 {
		return bar.ViewAs(p.Percent() / 100)
	}
	return fmt.Sprintf("%.1f MB transferred", float64(p.Transferred)/(1<<20))
}
