package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure so callers can react to the class of
// error without string matching.
type Kind string

const (
	KindInvalidVideoID                  Kind = "invalid_video_id"
	KindVideoUnavailable                Kind = "video_unavailable"
	KindAgeRestricted                   Kind = "age_restricted"
	KindTranscriptsDisabled             Kind = "transcripts_disabled"
	KindNoTranscriptFound               Kind = "no_transcript_found"
	KindTranslationNotSupported         Kind = "translation_not_supported"
	KindTranslationLanguageNotAvailable Kind = "translation_language_not_available"
	KindPoTokenRequired                 Kind = "po_token_required"
	KindIPBlocked                       Kind = "ip_blocked"
	KindRequestBlocked                  Kind = "request_blocked"
	KindXMLParse                        Kind = "xml_parse_error"
	KindNetwork                         Kind = "network_error"
)

// TranscriptError is the structured error every pipeline stage surfaces.
// Op names the operation that failed, Message is safe to show to a user,
// and Err carries the underlying cause for logs.
type TranscriptError struct {
	Kind    Kind
	Op      string
	Message string
	Err     error

	// Diagnostic context, set where it is known.
	VideoID            string
	RequestedLanguages []string
	AvailableLanguages []string
}

func (e *TranscriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TranscriptError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two TranscriptErrors by kind.
func (e *TranscriptError) Is(target error) bool {
	var t *TranscriptError
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of err, or "" when err is not a TranscriptError.
func KindOf(err error) Kind {
	var t *TranscriptError
	if stderrors.As(err, &t) {
		return t.Kind
	}
	return ""
}

// IsKind reports whether err is a TranscriptError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func InvalidVideoID(op string, err error, message string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindInvalidVideoID,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func VideoUnavailable(op, videoID, message string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindVideoUnavailable,
		Op:      op,
		Message: message,
		VideoID: videoID,
	}
}

func AgeRestricted(op, videoID string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindAgeRestricted,
		Op:      op,
		Message: "video is age restricted",
		VideoID: videoID,
	}
}

func TranscriptsDisabled(op, videoID string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindTranscriptsDisabled,
		Op:      op,
		Message: "subtitles are disabled for this video",
		VideoID: videoID,
	}
}

func NoTranscriptFound(op, videoID string, requested, available []string) *TranscriptError {
	message := "no transcript found for requested languages"
	if len(available) > 0 {
		message = fmt.Sprintf(
			"no transcript found for languages [%s], available: [%s]",
			strings.Join(requested, ", "),
			strings.Join(available, ", "),
		)
	}
	return &TranscriptError{
		Kind:               KindNoTranscriptFound,
		Op:                 op,
		Message:            message,
		VideoID:            videoID,
		RequestedLanguages: requested,
		AvailableLanguages: available,
	}
}

func TranslationNotSupported(op, videoID, languageCode string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindTranslationNotSupported,
		Op:      op,
		Message: fmt.Sprintf("track %q is not translatable", languageCode),
		VideoID: videoID,
	}
}

func TranslationLanguageNotAvailable(op, videoID, target string) *TranscriptError {
	return &TranscriptError{
		Kind:               KindTranslationLanguageNotAvailable,
		Op:                 op,
		Message:            fmt.Sprintf("translation language %q is not available", target),
		VideoID:            videoID,
		RequestedLanguages: []string{target},
	}
}

func PoTokenRequired(op, videoID string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindPoTokenRequired,
		Op:      op,
		Message: "video requires a proof-of-origin token to access captions",
		VideoID: videoID,
	}
}

func IPBlocked(op, videoID string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindIPBlocked,
		Op:      op,
		Message: "requests from this IP are being blocked",
		VideoID: videoID,
	}
}

func RequestBlocked(op, videoID, message string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindRequestBlocked,
		Op:      op,
		Message: message,
		VideoID: videoID,
	}
}

func XMLParse(op, videoID string, err error) *TranscriptError {
	return &TranscriptError{
		Kind:    KindXMLParse,
		Op:      op,
		Message: "failed to parse caption document",
		VideoID: videoID,
		Err:     err,
	}
}

func Network(op string, err error, message string) *TranscriptError {
	return &TranscriptError{
		Kind:    KindNetwork,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
