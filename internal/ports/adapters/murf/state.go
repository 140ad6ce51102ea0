package murf

import "github.com/forPelevin/tweetdub/internal/types"

// The wait loop is a small state machine: every poll attempt lands in
// exactly one of four states, three of them terminal for the loop
// (completed, failed) or for the attempt budget (pending, transient).
type outcomeKind int

const (
	outcomePending outcomeKind = iota
	outcomeCompleted
	outcomeFailed
	outcomeTransient
)

type attemptOutcome struct {
	kind   outcomeKind
	url    string
	reason string
	err    error
}

// classifyAttempt maps one poll (result, error) pair onto the state
// machine. A completed job without a download URL is a terminal failure:
// there is nothing to retrieve and re-polling will not change that.
func classifyAttempt(res PollResult, err error) attemptOutcome {
	if err != nil {
		return attemptOutcome{kind: outcomeTransient, err: err}
	}
	switch res.Status {
	case types.JobCompleted:
		if res.DownloadURL == "" {
			return attemptOutcome{kind: outcomeFailed, reason: "completed without download details"}
		}
		return attemptOutcome{kind: outcomeCompleted, url: res.DownloadURL}
	case types.JobFailed:
		return attemptOutcome{kind: outcomeFailed, reason: res.FailureReason}
	default:
		// PENDING and any future intermediate status the service adds.
		return attemptOutcome{kind: outcomePending}
	}
}
