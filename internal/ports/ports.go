package ports

import (
	"context"
	"time"

	"github.com/forPelevin/tweetdub/internal/locale"
	"github.com/forPelevin/tweetdub/internal/types"
)

// ProgressFunc receives byte-level progress while an artifact streams to
// disk. Implementations must be cheap; it is called per chunk.
type ProgressFunc func(types.Progress)

// VideoFetcher downloads the video attached to a tweet into destDir and
// returns the path of the written file.
type VideoFetcher interface {
	Fetch(ctx context.Context, tweetURL, destDir string) (string, error)
}

// AudioExtractor transcodes a local video file into an audio file.
type AudioExtractor interface {
	ExtractMP3(ctx context.Context, videoPath, outPath string) error
}

// DubProvider is the client for the asynchronous remote dubbing service:
// submit a file, wait for the job to reach a terminal state, stream the
// result to disk.
type DubProvider interface {
	CreateJob(ctx context.Context, filePath string, target locale.Locale) (string, error)
	AwaitCompletion(ctx context.Context, jobID string, maxAttempts int, interval time.Duration) (string, error)
	Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) (types.Artifact, error)
}

// BackendFunc invokes the locally emulated serverless dubbing function,
// which runs the whole download+dub flow server-side and returns the
// URL of the dubbed video.
type BackendFunc interface {
	DubVideo(ctx context.Context, tweetURL string, target locale.Locale) (string, error)
}
