// Package format renders a transcript into one of the supported output
// encodings. Rendering is deterministic and locale-independent: fixed
// decimal points, no grouping, no localized dates.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"yt-transcript/models"
)

// Format is the closed set of output encodings.
type Format string

const (
	JSON     Format = "json"
	Text     Format = "text"
	SRT      Format = "srt"
	Markdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name, including the txt/md
// aliases, onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "text", "txt":
		return Text, nil
	case "srt":
		return SRT, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (supported: json, text, srt, markdown)", s)
}

// Render produces the output string for a transcript. withTimestamps only
// affects the text and markdown encodings; JSON always carries offsets and
// SRT is timestamped by construction.
func Render(t *models.Transcript, f Format, withTimestamps bool) (string, error) {
	switch f {
	case JSON:
		return renderJSON(t)
	case Text:
		return renderText(t, withTimestamps), nil
	case SRT:
		return renderSRT(t), nil
	case Markdown:
		return renderMarkdown(t, withTimestamps), nil
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

func renderJSON(t *models.Transcript) (string, error) {
	cues := t.Cues
	if cues == nil {
		cues = []models.Cue{}
	}
	data, err := json.Marshal(cues)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	return string(data), nil
}

func renderText(t *models.Transcript, withTimestamps bool) string {
	if len(t.Cues) == 0 {
		return ""
	}

	var b strings.Builder
	for _, cue := range t.Cues {
		if withTimestamps {
			fmt.Fprintf(&b, "[%.2f] ", cue.Start)
		}
		b.WriteString(cue.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func renderSRT(t *models.Transcript) string {
	var b strings.Builder
	for i, cue := range t.Cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(cue.Start), srtTimestamp(cue.End()), cue.Text)
	}
	return b.String()
}

// srtTimestamp formats seconds as the subtitle timecode HH:MM:SS,mmm with a
// comma decimal separator per the SRT convention.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	s := (total / 1000) % 60
	m := (total / 60000) % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func renderMarkdown(t *models.Transcript, withTimestamps bool) string {
	var b strings.Builder
	b.WriteString("# Transcript\n")
	for _, cue := range t.Cues {
		b.WriteString("\n")
		if withTimestamps {
			fmt.Fprintf(&b, "**[%.2f]** ", cue.Start)
		}
		b.WriteString(cue.Text)
		b.WriteString("\n")
	}
	return b.String()
}
