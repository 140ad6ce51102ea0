package fnlocal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	logTailLines   = 1000
	logWindow      = 15 * time.Minute
	logOutputLimit = 300
)

var logTimestampRE = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z)\]`)

// logKeywords marks the lines worth surfacing from the emulator debug
// log: our function entrypoints, job lifecycle messages, and log levels.
var logKeywords = []string{
	"functions[", "us-central1-", "dubVideo", "handleDubbing", "handleMention",
	"Created Murf Job", "Dubbed video URL", "Downloading video", "Video downloaded successfully",
	"Murf", "ERROR", "INFO", "[error]", "[info]",
}

// TailDebugLog reads the newest firebase-debug*.log under repoRoot and
// returns recent, relevant lines: the last logTailLines lines, narrowed
// to the last 15 minutes where timestamps are present, then filtered by
// keyword. Lines without a parseable timestamp are kept.
func TailDebugLog(repoRoot string, now time.Time) (string, error) {
	matches, err := filepath.Glob(filepath.Join(repoRoot, "firebase-debug*.log"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no emulator debug log found under %s", repoRoot)
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})

	b, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", matches[0], err)
	}

	lines := strings.Split(string(b), "\n")
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}

	recent := filterRecent(lines, now)
	filtered := filterRelevant(recent)

	display := filtered
	if len(display) == 0 {
		display = recent
		if len(display) > 200 {
			display = display[len(display)-200:]
		}
	} else if len(display) > logOutputLimit {
		display = display[len(display)-logOutputLimit:]
	}
	return strings.Join(display, "\n"), nil
}

func filterRecent(lines []string, now time.Time) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		m := logTimestampRE.FindStringSubmatch(ln)
		if m == nil {
			out = append(out, ln)
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, m[1])
		if err != nil || now.Sub(ts) <= logWindow {
			out = append(out, ln)
		}
	}
	return out
}

func filterRelevant(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		s := strings.TrimSpace(ln)
		if s == "" {
			continue
		}
		// stack frames and broken-pipe noise from the emulator
		if strings.Contains(s, "Error: write EPIPE") || strings.HasPrefix(s, "at ") {
			continue
		}
		for _, k := range logKeywords {
			if strings.Contains(s, k) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func modTime(p string) time.Time {
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
