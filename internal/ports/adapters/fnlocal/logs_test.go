package fnlocal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailDebugLog(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	content := strings.Join([]string{
		"[2026-08-30T11:55:00.000Z] functions[us-central1-dubVideo]: Created Murf Job MJ1",
		"[2026-08-30T10:00:00.000Z] functions[us-central1-dubVideo]: stale entry outside window",
		"[2026-08-30T11:56:00.000Z] Error: write EPIPE",
		"at Object.<anonymous> (internal/stream.js:10)",
		"[2026-08-30T11:57:00.000Z] unrelated chatter about nothing",
		"[2026-08-30T11:58:00.000Z] INFO Dubbed video URL ready",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "firebase-debug.log"), []byte(content), 0o644))

	out, err := TailDebugLog(root, now)
	require.NoError(t, err)

	assert.Contains(t, out, "Created Murf Job MJ1")
	assert.Contains(t, out, "Dubbed video URL ready")
	assert.NotContains(t, out, "stale entry", "entries older than the window must be dropped")
	assert.NotContains(t, out, "EPIPE")
	assert.NotContains(t, out, "unrelated chatter")
}

func TestTailDebugLogPicksNewestFile(t *testing.T) {
	root := t.TempDir()
	now := time.Now().UTC()

	old := filepath.Join(root, "firebase-debug.log")
	fresh := filepath.Join(root, "firebase-debug.1.log")
	require.NoError(t, os.WriteFile(old, []byte("INFO from old file\n"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("INFO from fresh file\n"), 0o644))
	past := now.Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	out, err := TailDebugLog(root, now)
	require.NoError(t, err)
	assert.Contains(t, out, "from fresh file")
	assert.NotContains(t, out, "from old file")
}

func TestTailDebugLogMissing(t *testing.T) {
	_, err := TailDebugLog(t.TempDir(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no emulator debug log")
}

func TestTailDebugLogFallsBackWhenNothingMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "firebase-debug.log"),
		[]byte("plain line one\nplain line two\n"), 0o644))

	out, err := TailDebugLog(root, time.Now().UTC())
	require.NoError(t, err)
	assert.Contains(t, out, "plain line one", "raw tail is shown when no line matches the keywords")
}
