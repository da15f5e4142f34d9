package models

import (
	"yt-transcript/errors"
)

// VideoID is a validated 11-character YouTube video identifier. Construct
// one through validation.ResolveVideoID.
type VideoID string

func (id VideoID) String() string { return string(id) }

// TrackKind distinguishes human-authored caption tracks from tracks produced
// by automatic speech recognition.
type TrackKind string

const (
	TrackKindManual        TrackKind = "manual"
	TrackKindAutoGenerated TrackKind = "auto_generated"
)

// TranslationLanguage is one target language YouTube can machine-translate a
// translatable track into.
type TranslationLanguage struct {
	LanguageCode string `json:"language_code"`
	Language     string `json:"language"`
}

// TranscriptMeta describes one discoverable caption track. Immutable once
// built by the session client.
type TranscriptMeta struct {
	LanguageCode         string                `json:"language_code"`
	Language             string                `json:"language"`
	Kind                 TrackKind             `json:"kind"`
	IsTranslatable       bool                  `json:"is_translatable"`
	BaseURL              string                `json:"-"`
	TranslationLanguages []TranslationLanguage `json:"-"`
}

func (m TranscriptMeta) IsGenerated() bool { return m.Kind == TrackKindAutoGenerated }

// TranslationLocator builds the fetch locator for a machine-translated
// variant of this track. The track must be translatable and the target must
// be one of its advertised translation languages.
func (m TranscriptMeta) TranslationLocator(videoID VideoID, target string) (string, error) {
	const op = "TranscriptMeta.TranslationLocator"

	if !m.IsTranslatable {
		return "", errors.TranslationNotSupported(op, videoID.String(), m.LanguageCode)
	}

	found := false
	for _, tl := range m.TranslationLanguages {
		if tl.LanguageCode == target {
			found = true
			break
		}
	}
	if !found {
		return "", errors.TranslationLanguageNotAvailable(op, videoID.String(), target)
	}

	return m.BaseURL + "&tlang=" + target, nil
}

// TranslationLanguageName returns the human-readable name for a translation
// target, falling back to the code when the name is unknown.
func (m TranscriptMeta) TranslationLanguageName(target string) string {
	for _, tl := range m.TranslationLanguages {
		if tl.LanguageCode == target {
			return tl.Language
		}
	}
	return target
}

// TranscriptList holds every caption track discovered for one video, in
// document order as the platform returned them.
type TranscriptList struct {
	VideoID VideoID
	Tracks  []TranscriptMeta
}

// ManuallyCreated returns the human-authored tracks in document order.
func (l *TranscriptList) ManuallyCreated() []TranscriptMeta {
	return l.filter(TrackKindManual)
}

// Generated returns the auto-generated tracks in document order.
func (l *TranscriptList) Generated() []TranscriptMeta {
	return l.filter(TrackKindAutoGenerated)
}

func (l *TranscriptList) filter(kind TrackKind) []TranscriptMeta {
	var out []TranscriptMeta
	for _, t := range l.Tracks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// AvailableLanguages lists the language codes present in the list, in
// document order, without duplicates.
func (l *TranscriptList) AvailableLanguages() []string {
	seen := make(map[string]bool, len(l.Tracks))
	var out []string
	for _, t := range l.Tracks {
		if !seen[t.LanguageCode] {
			seen[t.LanguageCode] = true
			out = append(out, t.LanguageCode)
		}
	}
	return out
}

// Find selects one track under the language-priority policy. A non-empty
// languages slice is walked in caller priority order; the first code with any
// match wins, manual tracks beating auto-generated ones at the same code. An
// empty slice selects the first manual track, falling back to the first
// auto-generated one. Language codes match exactly; no primary-subtag
// widening is attempted.
func (l *TranscriptList) Find(languages []string) (TranscriptMeta, error) {
	const op = "TranscriptList.Find"

	if len(languages) == 0 {
		if manual := l.ManuallyCreated(); len(manual) > 0 {
			return manual[0], nil
		}
		if generated := l.Generated(); len(generated) > 0 {
			return generated[0], nil
		}
		return TranscriptMeta{}, errors.NoTranscriptFound(
			op, l.VideoID.String(), nil, l.AvailableLanguages())
	}

	for _, code := range languages {
		if meta, ok := l.findCode(code); ok {
			return meta, nil
		}
	}

	return TranscriptMeta{}, errors.NoTranscriptFound(
		op, l.VideoID.String(), languages, l.AvailableLanguages())
}

// findCode returns the best track for one exact language code, preferring
// manual over auto-generated.
func (l *TranscriptList) findCode(code string) (TranscriptMeta, bool) {
	var generated *TranscriptMeta
	for i, t := range l.Tracks {
		if t.LanguageCode != code {
			continue
		}
		if t.Kind == TrackKindManual {
			return t, true
		}
		if generated == nil {
			generated = &l.Tracks[i]
		}
	}
	if generated != nil {
		return *generated, true
	}
	return TranscriptMeta{}, false
}

// FindManuallyCreated is Find restricted to human-authored tracks.
func (l *TranscriptList) FindManuallyCreated(languages []string) (TranscriptMeta, error) {
	const op = "TranscriptList.FindManuallyCreated"
	return l.findKind(op, languages, TrackKindManual)
}

// FindGenerated is Find restricted to auto-generated tracks.
func (l *TranscriptList) FindGenerated(languages []string) (TranscriptMeta, error) {
	const op = "TranscriptList.FindGenerated"
	return l.findKind(op, languages, TrackKindAutoGenerated)
}

func (l *TranscriptList) findKind(op string, languages []string, kind TrackKind) (TranscriptMeta, error) {
	for _, code := range languages {
		for _, t := range l.Tracks {
			if t.Kind == kind && t.LanguageCode == code {
				return t, nil
			}
		}
	}
	return TranscriptMeta{}, errors.NoTranscriptFound(
		op, l.VideoID.String(), languages, l.AvailableLanguages())
}

// Cue is one timed caption unit. Start and Duration are seconds.
type Cue struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the cue end offset in seconds.
func (c Cue) End() float64 { return c.Start + c.Duration }

// Transcript is the terminal artifact of one pipeline run: the resolved
// track's cues plus the language metadata they were fetched under. Never
// mutated after creation.
type Transcript struct {
	VideoID      VideoID   `json:"video_id"`
	LanguageCode string    `json:"language_code"`
	Language     string    `json:"language"`
	Kind         TrackKind `json:"kind"`
	Cues         []Cue     `json:"transcript"`
}

func (t *Transcript) IsGenerated() bool { return t.Kind == TrackKindAutoGenerated }
