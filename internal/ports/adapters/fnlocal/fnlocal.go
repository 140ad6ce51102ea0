// Package fnlocal talks to the locally emulated serverless backend: the
// dubVideo function endpoint plus the emulator's UI port for liveness
// probing, startup, and log retrieval.
package fnlocal

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/ports"
)

// FunctionNames lists the emulated entrypoints worth probing.
var FunctionNames = []string{"dubVideo", "handleDubbing", "handleMention"}

type Config struct {
	// BaseURL is the emulated functions base, e.g.
	// http://127.0.0.1:5001/<project>/us-central1.
	BaseURL string
	// UIURL is the Emulator Suite UI, used as the readiness signal.
	UIURL string
	// FirebasePath is the firebase-tools binary used to start the suite.
	FirebasePath string
	// RepoRoot is where the emulator must be started from so the
	// functions register.
	RepoRoot string

	CallTimeout  time.Duration
	ProbeTimeout time.Duration
}

type Client struct {
	client       *resty.Client
	ui           *resty.Client
	uiURL        string
	firebasePath string
	repoRoot     string

	callTimeout  time.Duration
	probeTimeout time.Duration

	start func() error
}

func New(cfg Config) *Client {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Minute
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 2 * time.Second
	}
	if cfg.FirebasePath == "" {
		cfg.FirebasePath = "firebase"
	}

	c := &Client{
		client:       resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
		ui:           resty.New().SetBaseURL(strings.TrimRight(cfg.UIURL, "/")),
		uiURL:        strings.TrimRight(cfg.UIURL, "/"),
		firebasePath: cfg.FirebasePath,
		repoRoot:     cfg.RepoRoot,
		callTimeout:  cfg.CallTimeout,
		probeTimeout: cfg.ProbeTimeout,
	}
	c.start = c.spawnEmulator
	return c
}

// DubVideo runs the complete backend dubbing flow for a tweet and
// returns the URL of the dubbed video. The emulated backend accepts the
// language display name.
func (c *Client) DubVideo(ctx context.Context, tweetURL string, target locale.Locale) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(reqCtx).
		SetQueryParam("tweetUrl", tweetURL).
		SetQueryParam("targetLanguage", target.Name).
		Get("/dubVideo")
	if err != nil {
		return "", fmt.Errorf("call dubVideo: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("dubVideo returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	var out struct {
		DubbedVideoURL string `json:"dubbedVideoUrl"`
		URL            string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("parse dubVideo response: %w", err)
	}
	u := out.DubbedVideoURL
	if u == "" {
		u = out.URL
	}
	if u == "" {
		return "", fmt.Errorf("dubVideo response carries no dubbed video URL: %s", strings.TrimSpace(string(resp.Body())))
	}
	return u, nil
}

// EndpointStatus is the probe result for one emulated function.
type EndpointStatus struct {
	Name string
	URL  string
	Up   bool
	Note string
}

// UIReachable reports whether the Emulator Suite UI answers.
func (c *Client) UIReachable(ctx context.Context) bool {
	reqCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()
	resp, err := c.ui.R().SetContext(reqCtx).Get("/")
	return err == nil && resp.IsSuccess()
}

// Probe checks each known function endpoint. A 200, 400 or 404 still
// means the emulator is serving the entrypoint.
func (c *Client) Probe(ctx context.Context) []EndpointStatus {
	out := make([]EndpointStatus, 0, len(FunctionNames))
	for _, name := range FunctionNames {
		st := EndpointStatus{Name: name, URL: c.client.BaseURL + "/" + name}
		reqCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
		resp, err := c.client.R().SetContext(reqCtx).Get("/" + name)
		cancel()
		switch {
		case err != nil:
			st.Note = "down"
		case resp.StatusCode() == 200 || resp.StatusCode() == 400 || resp.StatusCode() == 404:
			st.Up = true
			st.Note = "up"
		default:
			st.Note = fmt.Sprintf("http %d", resp.StatusCode())
		}
		out = append(out, st)
	}
	return out
}

// Start launches the emulator suite in the background from the repo
// root. It does not wait for readiness; use WaitReady.
func (c *Client) Start() error {
	return c.start()
}

func (c *Client) spawnEmulator() error {
	cmd := exec.Command(c.firebasePath, "emulators:start", "--only", "functions")
	cmd.Dir = c.repoRoot
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start emulator: %w", err)
	}
	// Detach: the emulator outlives this process on purpose.
	return cmd.Process.Release()
}

// WaitReady polls the UI until it answers or the wait budget runs out.
func (c *Client) WaitReady(ctx context.Context, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if c.UIReachable(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1500 * time.Millisecond):
		}
	}
	return fmt.Errorf("emulator did not become ready within %s", wait)
}

// UIURL returns the Emulator Suite UI address for display and browser
// opening.
func (c *Client) UIURL() string { return c.uiURL }

// EndpointURL returns the full URL of one emulated function.
func (c *Client) EndpointURL(name string) string {
	return c.client.BaseURL + "/" + name
}

// WithStart replaces the emulator spawn function. For tests.
func (c *Client) WithStart(start func() error) *Client {
	c.start = start
	return c
}

var _ ports.BackendFunc = (*Client)(nil)
