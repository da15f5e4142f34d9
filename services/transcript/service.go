package transcript

import (
	"context"
	stderrors "errors"

	"github.com/sirupsen/logrus"

	"yt-transcript/errors"
	"yt-transcript/models"
	"yt-transcript/timedtext"
	"yt-transcript/validation"
)

type service struct {
	client PlatformClient
	config Config
}

func NewService(client PlatformClient, cfg Config) Service {
	return &service{client: client, config: cfg}
}

func (s *service) List(ctx context.Context, videoRef string) (*models.TranscriptList, error) {
	videoID, err := validation.ResolveVideoID(videoRef)
	if err != nil {
		return nil, err
	}
	return s.client.ListTranscripts(ctx, videoID)
}

func (s *service) Fetch(ctx context.Context, videoRef string, languages []string, translateTo string) (*models.Transcript, error) {
	const op = "TranscriptService.Fetch"

	logger := logrus.WithFields(logrus.Fields{
		"operation": op,
		"video_ref": videoRef,
		"languages": languages,
	})
	logger.Info("Starting transcript fetch")

	videoID, err := validation.ResolveVideoID(videoRef)
	if err != nil {
		logger.WithError(err).Info("Video reference rejected")
		return nil, err
	}

	list, err := s.client.ListTranscripts(ctx, videoID)
	if err != nil {
		logger.WithError(err).Error("Track discovery failed")
		return nil, err
	}

	if len(languages) == 0 {
		languages = s.config.DefaultLanguages
	}

	meta, err := list.Find(languages)
	if err != nil {
		logger.WithError(err).Info("No track matched requested languages")
		return nil, err
	}

	locator := meta.BaseURL
	languageCode := meta.LanguageCode
	language := meta.Language
	kind := meta.Kind

	if translateTo != "" {
		locator, err = meta.TranslationLocator(videoID, translateTo)
		if err != nil {
			logger.WithError(err).Info("Translation request rejected")
			return nil, err
		}
		// A translated track is machine output regardless of its source.
		languageCode = translateTo
		language = meta.TranslationLanguageName(translateTo)
		kind = models.TrackKindAutoGenerated
	}

	body, err := s.client.FetchCaptionTrack(ctx, videoID, locator)
	if err != nil {
		logger.WithError(err).Error("Caption track fetch failed")
		return nil, err
	}

	cues, err := timedtext.Parse(body)
	if err != nil {
		logger.WithError(err).Error("Caption document did not parse")
		return nil, attachVideoID(err, videoID)
	}

	logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"language": languageCode,
		"cues":     len(cues),
	}).Info("Transcript fetched")

	return &models.Transcript{
		VideoID:      videoID,
		LanguageCode: languageCode,
		Language:     language,
		Kind:         kind,
		Cues:         cues,
	}, nil
}

// attachVideoID fills in the video context on errors raised by stages that
// do not know which video they are working on.
func attachVideoID(err error, videoID models.VideoID) error {
	var terr *errors.TranscriptError
	if stderrors.As(err, &terr) && terr.VideoID == "" {
		terr.VideoID = videoID.String()
	}
	return err
}
