package validation

import (
	"net/url"
	"regexp"
	"strings"

	"yt-transcript/errors"
	"yt-transcript/models"
)

// videoIDPattern is YouTube's fixed-length identifier grammar.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ResolveVideoID extracts a validated video identifier from a raw ID or any
// of the known YouTube URL shapes (watch, youtu.be, embed), tolerating extra
// query parameters, fragments, and a missing scheme. Pure; never touches the
// network.
func ResolveVideoID(raw string) (models.VideoID, error) {
	const op = "validation.ResolveVideoID"

	input := strings.TrimSpace(raw)
	if input == "" {
		return "", errors.InvalidVideoID(op, nil, "video URL or ID is required")
	}

	if videoIDPattern.MatchString(input) {
		return models.VideoID(input), nil
	}

	if id, ok := extractFromURL(input); ok {
		return models.VideoID(id), nil
	}

	return "", errors.InvalidVideoID(op, nil,
		input+" is not an 11-character video ID or a recognized YouTube URL")
}

func extractFromURL(input string) (string, bool) {
	urlStr := input
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		if !strings.Contains(input, "youtube.com") && !strings.Contains(input, "youtu.be") {
			return "", false
		}
		urlStr = "https://" + input
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", false
	}

	host := parsed.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return "", false
	}

	// Standard watch URL: ?v=VIDEO_ID, regardless of surrounding parameters.
	if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
		return id, true
	}

	segments := splitPath(parsed.Path)

	// Short URL: youtu.be/VIDEO_ID, query and fragment tolerated.
	if host == "youtu.be" && len(segments) > 0 && videoIDPattern.MatchString(segments[0]) {
		return segments[0], true
	}

	// Embed URL: youtube.com/embed/VIDEO_ID.
	if len(segments) >= 2 && segments[0] == "embed" && videoIDPattern.MatchString(segments[1]) {
		return segments[1], true
	}

	return "", false
}

func splitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
