package tui

import (
	"github.com/forPelevin/tweetdub/internal/ports/adapters/fnlocal"
	"github.com/forPelevin/tweetdub/internal/types"
	"github.com/forPelevin/tweetdub/internal/usecase"

	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the router to another page. Payload, when set, is
// redelivered to the target page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

type fetchDoneMsg struct {
	path string
	err  error
}

// prefillExtractMsg seeds the extract page with a just-downloaded video.
type prefillExtractMsg struct {
	path string
}

type extractDoneMsg struct {
	path string
	err  error
}

type dubDoneMsg struct {
	res usecase.DubResult
	err error
}

type progressMsg struct {
	p types.Progress
}

type progressClosedMsg struct{}

type envReportMsg struct {
	report types.EnvReport
}

type logsLoadedMsg struct {
	out string
	err error
}

type statusLoadedMsg struct {
	uiUp      bool
	endpoints []fnlocal.EndpointStatus
}

type emulatorStartedMsg struct {
	err error
}
