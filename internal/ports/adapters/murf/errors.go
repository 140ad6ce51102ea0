package murf

import "fmt"

// SubmissionError reports a rejected or malformed job-creation exchange.
type SubmissionError struct {
	StatusCode int
	Msg        string
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("murf submission failed (status %d): %s", e.StatusCode, e.Msg)
	}
	return "murf submission failed: " + e.Msg
}

// PollError reports a single failed status poll. It is transient: the
// bounded wait loop consumes an attempt and keeps going.
type PollError struct {
	JobID      string
	StatusCode int
	Err        error
}

func (e *PollError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("murf poll for job %s: status %d", e.JobID, e.StatusCode)
	}
	return fmt.Sprintf("murf poll for job %s: %v", e.JobID, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// JobFailedError is the terminal failure reported by the service.
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unknown error"
	}
	return fmt.Sprintf("murf job %s failed: %s", e.JobID, reason)
}

// JobTimeoutError means the job reached no terminal state within the
// attempt budget.
type JobTimeoutError struct {
	JobID    string
	Attempts int
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("murf job %s not finished after %d polls", e.JobID, e.Attempts)
}

// DownloadError reports a network or disk failure while streaming a
// result. The partial file is removed; there is no resume.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
