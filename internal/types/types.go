package types

import "time"

// JobStatus is the state of a remote dubbing job as reported by the service.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status is final for the job.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// DubJob tracks one asynchronous dubbing job. It is created on submission
// and mutated only by polling responses.
type DubJob struct {
	ID            string
	SourceFile    string
	TargetLocale  string
	Status        JobStatus
	DownloadURL   string
	FailureReason string
}

// Artifact is a file written to local storage once a completed job's
// result has been streamed to disk. Immutable after creation.
type Artifact struct {
	Path      string
	SizeBytes int64
}

// Progress reports bytes transferred during a streaming download.
// TotalBytes is -1 when the server did not send a Content-Length, in
// which case Percent returns -1 (indeterminate).
type Progress struct {
	Transferred int64
	TotalBytes  int64
}

// Percent returns the exact completion percentage, or -1 when the total
// size is unknown.
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return -1
	}
	return float64(p.Transferred) / float64(p.TotalBytes) * 100
}

// ToolCheck is the result of probing one external dependency.
type ToolCheck struct {
	Name    string
	OK      bool
	Detail  string
	Hint    string
	Elapsed time.Duration
}

// EnvReport aggregates the startup environment checks.
type EnvReport struct {
	GeneratedAt time.Time
	Checks      []ToolCheck
}

// AllOK reports whether every check passed.
func (r EnvReport) AllOK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}
