// Package murf is the client for the Murf dubbing REST API: submit a
// media file, poll the asynchronous job until it reaches a terminal
// state, and stream the dubbed result to disk.
package murf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/ports"
	"github.com/forPelevin/tweetdub/internal/types"
)

const (
	createJobPath = "/v1/murfdub/jobs/create"
	statusPathFmt = "/v1/murfdub/jobs/%s/status"

	// downloadChunkSize bounds how much of the artifact is held in
	// memory at once while streaming to disk.
	downloadChunkSize = 256 * 1024
)

type Config struct {
	APIKey  string
	BaseURL string

	SubmitTimeout   time.Duration
	StatusTimeout   time.Duration
	DownloadTimeout time.Duration
}

type Adapter struct {
	key      string
	client   *resty.Client
	artifact *resty.Client

	submitTimeout time.Duration
	statusTimeout time.Duration
}

func New(cfg Config) *Adapter {
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 60 * time.Second
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = 30 * time.Second
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 120 * time.Second
	}

	cli := resty.New().
		SetBaseURL(normalizeBaseURL(cfg.BaseURL)).
		SetHeader("api-key", cfg.APIKey)

	// The result URL points at the service's artifact host, not the API.
	// Fetch it with a credential-free client so the key is only ever sent
	// to the allowlisted base URL. The timeout bounds dialing and the wait
	// for response headers; the caller's context bounds the stream itself.
	artifact := resty.New().SetTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.DownloadTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.DownloadTimeout,
		ResponseHeaderTimeout: cfg.DownloadTimeout,
	})

	return &Adapter{
		key:           cfg.APIKey,
		client:        cli,
		artifact:      artifact,
		submitTimeout: cfg.SubmitTimeout,
		statusTimeout: cfg.StatusTimeout,
	}
}

// CreateJob uploads the file and returns the new job id. Any non-success
// status or a response without a job id is a *SubmissionError.
func (a *Adapter) CreateJob(ctx context.Context, filePath string, target locale.Locale) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", &SubmissionError{Msg: fmt.Sprintf("stat input file: %v", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.submitTimeout)
	defer cancel()

	resp, err := a.client.R().
		SetContext(reqCtx).
		SetFile("file", filePath).
		SetFormData(map[string]string{
			"file_name":      filepath.Base(filePath),
			"priority":       "LOW",
			"target_locales": target.Code,
		}).
		Post(createJobPath)
	if err != nil {
		return "", &SubmissionError{Msg: err.Error()}
	}
	if !resp.IsSuccess() {
		return "", &SubmissionError{
			StatusCode: resp.StatusCode(),
			Msg:        truncate(redactSecrets(string(resp.Body()), a.key), 400),
		}
	}

	var out struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.JobID == "" {
		return "", &SubmissionError{
			StatusCode: resp.StatusCode(),
			Msg:        "response carries no job_id: " + truncate(redactSecrets(string(resp.Body()), a.key), 400),
		}
	}
	return out.JobID, nil
}

// PollResult is one status snapshot of a dubbing job.
type PollResult struct {
	Status        types.JobStatus
	DownloadURL   string
	FailureReason string
}

// Poll queries the job status once. Transport and HTTP failures come
// back as *PollError so the wait loop can treat them as transient.
func (a *Adapter) Poll(ctx context.Context, jobID string) (PollResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, a.statusTimeout)
	defer cancel()

	resp, err := a.client.R().
		SetContext(reqCtx).
		Get(fmt.Sprintf(statusPathFmt, jobID))
	if err != nil {
		return PollResult{}, &PollError{JobID: jobID, Err: err}
	}
	if !resp.IsSuccess() {
		return PollResult{}, &PollError{JobID: jobID, StatusCode: resp.StatusCode()}
	}

	var out struct {
		Status          string `json:"status"`
		FailureReason   string `json:"failure_reason"`
		DownloadDetails []struct {
			DownloadURL string `json:"download_url"`
		} `json:"download_details"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return PollResult{}, &PollError{JobID: jobID, Err: fmt.Errorf("decode status: %w", err)}
	}

	res := PollResult{Status: types.JobStatus(out.Status), FailureReason: out.FailureReason}
	for _, d := range out.DownloadDetails {
		if d.DownloadURL != "" {
			res.DownloadURL = d.DownloadURL
			break
		}
	}
	return res, nil
}

// AwaitCompletion polls up to maxAttempts times, sleeping interval
// between attempts, and returns the result URL once the job completes.
// A failed poll is transient and only consumes an attempt; a FAILED job
// is a *JobFailedError; exhausting the budget is a *JobTimeoutError.
func (a *Adapter) AwaitCompletion(ctx context.Context, jobID string, maxAttempts int, interval time.Duration) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := a.Poll(ctx, jobID)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		switch o := classifyAttempt(res, err); o.kind {
		case outcomeCompleted:
			return o.url, nil
		case outcomeFailed:
			return "", &JobFailedError{JobID: jobID, Reason: o.reason}
		case outcomePending, outcomeTransient:
			// non-terminal, keep waiting
		}

		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			return "", err
		}
	}
	return "", &JobTimeoutError{JobID: jobID, Attempts: maxAttempts}
}

// Download streams url into destPath in bounded chunks, reporting bytes
// transferred after every chunk. Progress carries the exact total when
// the server sent a Content-Length and -1 otherwise. Any failure removes
// the partial file and returns a *DownloadError. The transfer runs until
// ctx says otherwise; only connecting and the first response are bounded
// by the configured download timeout.
func (a *Adapter) Download(ctx context.Context, url, destPath string, onProgress ports.ProgressFunc) (types.Artifact, error) {
	resp, err := a.artifact.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return types.Artifact{}, &DownloadError{URL: url, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return types.Artifact{}, &DownloadError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode())}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return types.Artifact{}, &DownloadError{URL: url, Err: err}
	}
	f, err := os.Create(destPath)
	if err != nil {
		return types.Artifact{}, &DownloadError{URL: url, Err: err}
	}

	total := int64(-1)
	if resp.RawResponse != nil && resp.RawResponse.ContentLength >= 0 {
		total = resp.RawResponse.ContentLength
	}

	var transferred int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return types.Artifact{}, a.abortDownload(f, destPath, url, werr)
			}
			transferred += int64(n)
			if onProgress != nil {
				onProgress(types.Progress{Transferred: transferred, TotalBytes: total})
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return types.Artifact{}, a.abortDownload(f, destPath, url, rerr)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return types.Artifact{}, &DownloadError{URL: url, Err: err}
	}
	return types.Artifact{Path: destPath, SizeBytes: transferred}, nil
}

func (a *Adapter) abortDownload(f *os.File, destPath, url string, cause error) error {
	f.Close()
	os.Remove(destPath)
	return &DownloadError{URL: url, Err: cause}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ ports.DubProvider = (*Adapter)(nil)
