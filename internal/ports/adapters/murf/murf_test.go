package murf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/types"
)

func testAdapter(t *testing.T, h http.Handler) (*Adapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "mk-test-secret", BaseURL: srv.URL}), srv
}

func writeTempVideo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(p, []byte("not really a video"), 0o644))
	return p
}

func TestCreateJob(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/murfdub/jobs/create", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "mk-test-secret", r.Header.Get("api-key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "clip.mp4", r.FormValue("file_name"))
		assert.Equal(t, "LOW", r.FormValue("priority"))
		assert.Equal(t, "fr_FR", r.FormValue("target_locales"))

		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "clip.mp4", hdr.Filename)

		fmt.Fprint(w, `{"job_id":"JOB_42"}`)
	})
	a, _ := testAdapter(t, mux)

	fr, err := locale.Resolve("fr")
	require.NoError(t, err)

	id, err := a.CreateJob(context.Background(), writeTempVideo(t), fr)
	require.NoError(t, err)
	assert.Equal(t, "JOB_42", id)
}

func TestCreateJobRejected(t *testing.T) {
	a, _ := testAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":"quota exceeded","api_key":"mk-test-secret"}`)
	}))

	_, err := a.CreateJob(context.Background(), writeTempVideo(t), locale.Default)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusPaymentRequired, subErr.StatusCode)
	assert.Contains(t, subErr.Msg, "quota exceeded")
	assert.NotContains(t, err.Error(), "mk-test-secret")
}

func TestCreateJobNoJobID(t *testing.T) {
	a, _ := testAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"accepted"}`)
	}))

	_, err := a.CreateJob(context.Background(), writeTempVideo(t), locale.Default)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Msg, "no job_id")
}

func TestCreateJobMissingFile(t *testing.T) {
	a, _ := testAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be reached for a missing file")
	}))

	_, err := a.CreateJob(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), locale.Default)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
}

func statusHandler(t *testing.T, polls *atomic.Int64, respond func(n int64, w http.ResponseWriter)) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/murfdub/jobs/JOB_42/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mk-test-secret", r.Header.Get("api-key"))
		respond(polls.Add(1), w)
	})
	return mux
}

func TestAwaitCompletionCompletesOnThirdPoll(t *testing.T) {
	var polls atomic.Int64
	a, _ := testAdapter(t, statusHandler(t, &polls, func(n int64, w http.ResponseWriter) {
		if n < 3 {
			fmt.Fprint(w, `{"status":"PENDING"}`)
			return
		}
		fmt.Fprint(w, `{"status":"COMPLETED","download_details":[{"download_url":"https://cdn.example/dub.mp4"}]}`)
	}))

	url, err := a.AwaitCompletion(context.Background(), "JOB_42", 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/dub.mp4", url)
	assert.Equal(t, int64(3), polls.Load(), "must stop polling at the first terminal state")
}

func TestAwaitCompletionTimesOut(t *testing.T) {
	var polls atomic.Int64
	a, _ := testAdapter(t, statusHandler(t, &polls, func(_ int64, w http.ResponseWriter) {
		fmt.Fprint(w, `{"status":"PENDING"}`)
	}))

	_, err := a.AwaitCompletion(context.Background(), "JOB_42", 3, time.Millisecond)
	var timeoutErr *JobTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Equal(t, int64(3), polls.Load(), "attempt budget must be exact")
}

func TestAwaitCompletionJobFailed(t *testing.T) {
	var polls atomic.Int64
	a, _ := testAdapter(t, statusHandler(t, &polls, func(_ int64, w http.ResponseWriter) {
		fmt.Fprint(w, `{"status":"FAILED","failure_reason":"bad audio"}`)
	}))

	_, err := a.AwaitCompletion(context.Background(), "JOB_42", 5, time.Millisecond)
	var failedErr *JobFailedError
	require.ErrorAs(t, err, &failedErr)
	assert.Equal(t, "bad audio", failedErr.Reason)
	assert.Equal(t, int64(1), polls.Load())
}

func TestAwaitCompletionToleratesTransientPollErrors(t *testing.T) {
	var polls atomic.Int64
	a, _ := testAdapter(t, statusHandler(t, &polls, func(n int64, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"status":"COMPLETED","download_details":[{"download_url":"https://cdn.example/dub.mp4"}]}`)
	}))

	url, err := a.AwaitCompletion(context.Background(), "JOB_42", 5, time.Millisecond)
	require.NoError(t, err, "a failed poll must not abort the wait")
	assert.Equal(t, "https://cdn.example/dub.mp4", url)
	assert.Equal(t, int64(2), polls.Load())
}

func TestAwaitCompletionContextCancel(t *testing.T) {
	var polls atomic.Int64
	a, _ := testAdapter(t, statusHandler(t, &polls, func(_ int64, w http.ResponseWriter) {
		fmt.Fprint(w, `{"status":"PENDING"}`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.AwaitCompletion(ctx, "JOB_42", 100, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDownloadKnownLength(t *testing.T) {
	const size = 1 << 20 // content-length: 1048576
	payload := make([]byte, size)
	rnd := rand.New(rand.NewSource(1))
	_, _ = rnd.Read(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(size))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	a := New(Config{APIKey: "mk-test-secret", BaseURL: srv.URL})
	dest := filepath.Join(t.TempDir(), "dubbed", "dub.mp4")

	var last types.Progress
	var calls int
	art, err := a.Download(context.Background(), srv.URL+"/dub.mp4", dest, func(p types.Progress) {
		last = p
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, dest, art.Path)
	assert.Equal(t, int64(size), art.SizeBytes)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, b, size)

	assert.Greater(t, calls, 1, "progress must be reported per chunk")
	assert.Equal(t, int64(size), last.TotalBytes)
	assert.InDelta(t, 100.0, last.Percent(), 0.001, "progress must reach 100%")
}

func TestDownloadUnknownLength(t *testing.T) {
	payload := make([]byte, 700*1024)
	rnd := rand.New(rand.NewSource(2))
	_, _ = rnd.Read(payload)
	wantSum := sha256.Sum256(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		require.True(t, ok)
		// flush between writes so the response is chunked, without a
		// content-length header
		for off := 0; off < len(payload); off += 64 * 1024 {
			end := off + 64*1024
			if end > len(payload) {
				end = len(payload)
			}
			_, _ = w.Write(payload[off:end])
			fl.Flush()
		}
	}))
	defer srv.Close()

	a := New(Config{APIKey: "mk-test-secret", BaseURL: srv.URL})
	dest := filepath.Join(t.TempDir(), "dub.mp4")

	var last types.Progress
	art, err := a.Download(context.Background(), srv.URL+"/dub.mp4", dest, func(p types.Progress) {
		last = p
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), art.SizeBytes)
	assert.Equal(t, int64(-1), last.TotalBytes, "unknown length must be indeterminate")
	assert.Equal(t, float64(-1), last.Percent())

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(wantSum[:]), hex.EncodeToString(sha256SumOf(b)))
}

func sha256SumOf(b []byte) []byte {
	s := sha256.Sum256(b)
	return s[:]
}

func TestDownloadSendsNoCredentials(t *testing.T) {
	var gotKey atomic.Value
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("api-key"))
		_, _ = w.Write([]byte("dubbed bytes"))
	}))
	defer cdn.Close()

	// The artifact host is not the API base URL: the key must stay home.
	a := New(Config{APIKey: "mk-test-secret", BaseURL: "https://api.murf.ai"})
	dest := filepath.Join(t.TempDir(), "dub.mp4")

	_, err := a.Download(context.Background(), cdn.URL+"/dub.mp4", dest, nil)
	require.NoError(t, err)
	assert.Equal(t, "", gotKey.Load().(string), "the artifact host must never receive the API key")
}

func TestDownloadStreamOutlivesTimeout(t *testing.T) {
	chunk := make([]byte, 64*1024)
	const chunks = 6

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		require.True(t, ok)
		for i := 0; i < chunks; i++ {
			_, _ = w.Write(chunk)
			fl.Flush()
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL, DownloadTimeout: 100 * time.Millisecond})
	dest := filepath.Join(t.TempDir(), "dub.mp4")

	art, err := a.Download(context.Background(), srv.URL+"/dub.mp4", dest, nil)
	require.NoError(t, err, "the download timeout bounds the first response, not the whole stream")
	assert.Equal(t, int64(chunks*len(chunk)), art.SizeBytes)
}

func TestDownloadHTTPErrorRemovesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL})
	dest := filepath.Join(t.TempDir(), "dub.mp4")

	_, err := a.Download(context.Background(), srv.URL+"/dub.mp4", dest, nil)
	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no file must be written for an error response")
}

func TestDownloadTruncatedStreamRemovesPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1048576")
		_, _ = w.Write(make([]byte, 10*1024))
		// close the connection early by returning with bytes owed
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL})
	dest := filepath.Join(t.TempDir(), "dub.mp4")

	_, err := a.Download(context.Background(), srv.URL+"/dub.mp4", dest, nil)
	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial file must be removed, downloads do not resume")
}

func TestClassifyAttempt(t *testing.T) {
	tests := []struct {
		name string
		res  PollResult
		err  error
		want outcomeKind
	}{
		{"pending", PollResult{Status: types.JobPending}, nil, outcomePending},
		{"unknown intermediate", PollResult{Status: "QUEUED"}, nil, outcomePending},
		{"completed", PollResult{Status: types.JobCompleted, DownloadURL: "u"}, nil, outcomeCompleted},
		{"completed without url", PollResult{Status: types.JobCompleted}, nil, outcomeFailed},
		{"failed", PollResult{Status: types.JobFailed, FailureReason: "r"}, nil, outcomeFailed},
		{"transport error", PollResult{}, errors.New("boom"), outcomeTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAttempt(tt.res, tt.err)
			assert.Equal(t, tt.want, got.kind)
		})
	}
}
