package youtube

// Wire shapes for the innertube player endpoint. This is an undocumented,
// unversioned contract: every field here is optional and may disappear or
// move between platform regions, so nothing below is exported.

type playerRequest struct {
	Context playerContext `json:"context"`
	VideoID string        `json:"videoId"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type playerResponse struct {
	PlayabilityStatus playabilityStatus `json:"playabilityStatus"`
	Captions          struct {
		Renderer *captionsRenderer `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type playabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type captionsRenderer struct {
	CaptionTracks        []captionTrack        `json:"captionTracks"`
	TranslationLanguages []translationLanguage `json:"translationLanguages"`
}

type captionTrack struct {
	BaseURL        string   `json:"baseUrl"`
	Name           textRuns `json:"name"`
	LanguageCode   string   `json:"languageCode"`
	Kind           string   `json:"kind"`
	IsTranslatable bool     `json:"isTranslatable"`
}

type translationLanguage struct {
	LanguageCode string   `json:"languageCode"`
	LanguageName textRuns `json:"languageName"`
}

// textRuns covers both label encodings the platform is known to emit.
type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
	SimpleText string `json:"simpleText"`
}

func (t textRuns) text() string {
	if len(t.Runs) > 0 {
		return t.Runs[0].Text
	}
	return t.SimpleText
}
