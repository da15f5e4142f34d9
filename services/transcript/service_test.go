package transcript

import (
	"context"
	stderrors "errors"
	"testing"

	"yt-transcript/errors"
	"yt-transcript/models"
)

// fakeClient serves canned discovery and caption data so the pipeline can be
// exercised without the network.
type fakeClient struct {
	list    *models.TranscriptList
	listErr error

	document    []byte
	documentErr error

	fetchedLocator string
}

func (f *fakeClient) ListTranscripts(ctx context.Context, videoID models.VideoID) (*models.TranscriptList, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeClient) FetchCaptionTrack(ctx context.Context, videoID models.VideoID, locator string) ([]byte, error) {
	f.fetchedLocator = locator
	if f.documentErr != nil {
		return nil, f.documentErr
	}
	return f.document, nil
}

func testList() *models.TranscriptList {
	return &models.TranscriptList{
		VideoID: "dQw4w9WgXcQ",
		Tracks: []models.TranscriptMeta{
			{
				LanguageCode:   "en",
				Language:       "English",
				Kind:           models.TrackKindManual,
				IsTranslatable: true,
				BaseURL:        "https://example.com/track?lang=en",
				TranslationLanguages: []models.TranslationLanguage{
					{LanguageCode: "de", Language: "German"},
				},
			},
			{
				LanguageCode: "es",
				Language:     "Spanish (auto-generated)",
				Kind:         models.TrackKindAutoGenerated,
				BaseURL:      "https://example.com/track?lang=es",
			},
		},
	}
}

const captionDoc = `<transcript><text start="0" dur="2.5">Hello &amp; world</text><text start="2.5" dur="1">Bye</text></transcript>`

func TestFetch(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(captionDoc)}
	svc := NewService(client, Config{})

	got, err := svc.Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", []string{"en"}, "")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if got.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", got.VideoID)
	}
	if got.LanguageCode != "en" || got.Language != "English" || got.Kind != models.TrackKindManual {
		t.Errorf("language metadata = %q/%q/%q", got.LanguageCode, got.Language, got.Kind)
	}
	if len(got.Cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(got.Cues))
	}
	if got.Cues[0].Text != "Hello & world" || got.Cues[0].Duration != 2.5 {
		t.Errorf("first cue = %+v", got.Cues[0])
	}
	if client.fetchedLocator != "https://example.com/track?lang=en" {
		t.Errorf("fetched locator = %q", client.fetchedLocator)
	}
}

func TestFetch_DefaultLanguagesFromConfig(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(captionDoc)}
	svc := NewService(client, Config{DefaultLanguages: []string{"es"}})

	got, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", nil, "")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.LanguageCode != "es" || got.Kind != models.TrackKindAutoGenerated {
		t.Errorf("selected %q/%q, want es/auto_generated", got.LanguageCode, got.Kind)
	}
}

func TestFetch_Translation(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(captionDoc)}
	svc := NewService(client, Config{})

	got, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"en"}, "de")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if client.fetchedLocator != "https://example.com/track?lang=en&tlang=de" {
		t.Errorf("fetched locator = %q", client.fetchedLocator)
	}
	if got.LanguageCode != "de" || got.Language != "German" {
		t.Errorf("translated metadata = %q/%q, want de/German", got.LanguageCode, got.Language)
	}
	if got.Kind != models.TrackKindAutoGenerated {
		t.Error("a translated transcript must be reported as generated")
	}
}

func TestFetch_TranslationOnNonTranslatableTrack(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(captionDoc)}
	svc := NewService(client, Config{})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"es"}, "de")
	if !errors.IsKind(err, errors.KindTranslationNotSupported) {
		t.Errorf("error = %v, want translation_not_supported", err)
	}
	if client.fetchedLocator != "" {
		t.Error("no document request should be issued when translation is rejected")
	}
}

func TestFetch_InvalidReference(t *testing.T) {
	svc := NewService(&fakeClient{}, Config{})

	_, err := svc.Fetch(context.Background(), "definitely not a video", nil, "")
	if !errors.IsKind(err, errors.KindInvalidVideoID) {
		t.Errorf("error = %v, want invalid_video_id", err)
	}
}

func TestFetch_DiscoveryFailurePropagates(t *testing.T) {
	client := &fakeClient{listErr: errors.TranscriptsDisabled("test", "dQw4w9WgXcQ")}
	svc := NewService(client, Config{})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", nil, "")
	if !errors.IsKind(err, errors.KindTranscriptsDisabled) {
		t.Errorf("error = %v, want transcripts_disabled", err)
	}
}

func TestFetch_NoMatchingLanguage(t *testing.T) {
	client := &fakeClient{list: testList()}
	svc := NewService(client, Config{})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"fr"}, "")
	if !errors.IsKind(err, errors.KindNoTranscriptFound) {
		t.Errorf("error = %v, want no_transcript_found", err)
	}
}

func TestFetch_ParseFailureCarriesVideoID(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(`<transcript><text start="0">broken`)}
	svc := NewService(client, Config{})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"en"}, "")
	if !errors.IsKind(err, errors.KindXMLParse) {
		t.Fatalf("error = %v, want xml_parse_error", err)
	}

	var terr *errors.TranscriptError
	if !stderrors.As(err, &terr) || terr.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("parse error should carry the video id, got %+v", terr)
	}
}

func TestFetch_EmptyDocumentIsValid(t *testing.T) {
	client := &fakeClient{list: testList(), document: []byte(`<transcript></transcript>`)}
	svc := NewService(client, Config{})

	got, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"en"}, "")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got.Cues) != 0 {
		t.Errorf("got %d cues, want 0", len(got.Cues))
	}
}

func TestList(t *testing.T) {
	client := &fakeClient{list: testList()}
	svc := NewService(client, Config{})

	list, err := svc.List(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list.Tracks) != 2 {
		t.Errorf("got %d tracks, want 2", len(list.Tracks))
	}

	if _, err := svc.List(context.Background(), "nope"); !errors.IsKind(err, errors.KindInvalidVideoID) {
		t.Errorf("error = %v, want invalid_video_id", err)
	}
}
