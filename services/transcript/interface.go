package transcript

import (
	"context"

	"yt-transcript/models"
)

// Service runs the acquisition pipeline for one video reference.
type Service interface {
	// Fetch resolves videoRef, selects the best caption track for the
	// requested language priorities (empty = default policy), optionally
	// requests a machine translation, and returns the parsed transcript.
	Fetch(ctx context.Context, videoRef string, languages []string, translateTo string) (*models.Transcript, error)

	// List returns every caption track the video exposes.
	List(ctx context.Context, videoRef string) (*models.TranscriptList, error)
}

// PlatformClient is the capability surface the pipeline needs from the
// session client. The innertube request/response shapes are an unstable,
// reverse-engineered contract; keeping them behind this interface means the
// selector, parser, and renderer never see them.
type PlatformClient interface {
	ListTranscripts(ctx context.Context, videoID models.VideoID) (*models.TranscriptList, error)
	FetchCaptionTrack(ctx context.Context, videoID models.VideoID, locator string) ([]byte, error)
}

// Config holds the pipeline's policy knobs.
type Config struct {
	// DefaultLanguages is the priority list applied when the caller passes
	// none. Empty means "first manual track, else first generated".
	DefaultLanguages []string
}
