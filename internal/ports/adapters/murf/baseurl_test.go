package murf

import (
	"strings"
	"testing"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		hosts   []string
		wantErr string
	}{
		{"default empty", "", nil, ""},
		{"api host", "https://api.murf.ai", nil, ""},
		{"trailing slash", "https://api.murf.ai/", nil, ""},
		{"custom allowed host", "https://staging.murf.ai", []string{"staging.murf.ai"}, ""},
		{"http rejected", "http://api.murf.ai", nil, "https is required"},
		{"unknown host", "https://evil.example", nil, "not in MURF_ALLOWED_HOSTS"},
		{"userinfo rejected", "https://user:pw@api.murf.ai", nil, "userinfo"},
		{"query rejected", "https://api.murf.ai?x=1", nil, "query and fragment"},
		{"relative rejected", "api.murf.ai", nil, "absolute URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.baseURL, tt.hosts)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestRedactSecrets(t *testing.T) {
	apiKey := "mk-live-super-secret"
	in := `status 401; Bearer mk-live-super-secret; api-key: mk-live-super-secret`
	got := redactSecrets(in, apiKey)

	if strings.Contains(got, apiKey) {
		t.Fatalf("expected API key to be redacted, got: %q", got)
	}
	if !strings.Contains(got, "api-key: [REDACTED]") {
		t.Fatalf("expected api-key field to be redacted, got: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 3); got != "hél" {
		t.Fatalf("truncate should count runes, got %q", got)
	}
	if got := truncate("ok", 10); got != "ok" {
		t.Fatalf("short strings pass through, got %q", got)
	}
}
