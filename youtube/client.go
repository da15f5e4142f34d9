package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"yt-transcript/errors"
	"yt-transcript/models"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	defaultTimeout = 30 * time.Second

	// The ANDROID client profile is served caption metadata without the
	// signature ceremony the web client requires.
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "20.10.38"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	consentFormMarker = `action="https://consent.youtube.com/s"`
	recaptchaMarker   = "g-recaptcha"
)

var (
	apiKeyPattern       = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)
	consentValuePattern = regexp.MustCompile(`name="v" value="(.*?)"`)
)

// Config controls the session client's HTTP behavior.
type Config struct {
	// BaseURL overrides the platform origin, for tests.
	BaseURL string

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration

	UserAgent string

	// RequestDelay throttles consecutive platform requests. Zero disables
	// throttling.
	RequestDelay time.Duration
}

// Client performs all network interaction with the platform's internal API.
// A Client holds a cookie jar for consent state and nothing else; discard it
// with the pipeline run.
type Client struct {
	http    *http.Client
	config  Config
	limiter *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		config:  cfg,
		limiter: limiter,
	}, nil
}

// ListTranscripts discovers every caption track the video exposes. It fetches
// the watch page, negotiates the consent interstitial when one is served,
// scrapes the innertube API key, asks the player endpoint for the caption
// track list, and classifies any playability failure into the error taxonomy.
func (c *Client) ListTranscripts(ctx context.Context, videoID models.VideoID) (*models.TranscriptList, error) {
	const op = "youtube.Client.ListTranscripts"

	html, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if strings.Contains(html, recaptchaMarker) {
		return nil, errors.RequestBlocked(op, videoID.String(),
			"the platform served a captcha challenge")
	}

	match := apiKeyPattern.FindStringSubmatch(html)
	if match == nil {
		return nil, errors.Network(op, nil, "could not locate the player API key in the watch page")
	}

	data, err := c.fetchPlayerData(ctx, videoID, match[1])
	if err != nil {
		return nil, err
	}

	if err := classifyPlayability(op, videoID, data.PlayabilityStatus); err != nil {
		return nil, err
	}

	if data.Captions.Renderer == nil {
		return nil, errors.TranscriptsDisabled(op, videoID.String())
	}

	list := buildTranscriptList(videoID, data.Captions.Renderer)
	if len(list.Tracks) == 0 {
		return nil, errors.TranscriptsDisabled(op, videoID.String())
	}

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"tracks":   len(list.Tracks),
	}).Debug("Discovered caption tracks")

	return list, nil
}

// FetchCaptionTrack retrieves the timed-text document behind a track locator
// previously discovered by ListTranscripts.
func (c *Client) FetchCaptionTrack(ctx context.Context, videoID models.VideoID, locator string) ([]byte, error) {
	const op = "youtube.Client.FetchCaptionTrack"

	// Locators carrying the experiment flag require a proof-of-origin token
	// this client cannot produce; fail before wasting the request.
	if strings.Contains(locator, "&exp=xpe") {
		return nil, errors.PoTokenRequired(op, videoID.String())
	}

	resp, err := c.get(ctx, locator)
	if err != nil {
		return nil, errors.Network(op, err, "failed to fetch caption track")
	}
	defer resp.Body.Close()

	if err := checkStatus(op, videoID, resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(op, err, "failed to read caption track")
	}

	return body, nil
}

func (c *Client) fetchWatchPage(ctx context.Context, videoID models.VideoID) (string, error) {
	const op = "youtube.Client.fetchWatchPage"

	watchURL := c.config.BaseURL + "/watch?v=" + url.QueryEscape(videoID.String())

	html, err := c.getPage(ctx, op, videoID, watchURL)
	if err != nil {
		return "", err
	}

	if !strings.Contains(html, consentFormMarker) {
		return html, nil
	}

	logrus.WithField("video_id", videoID).Debug("Consent interstitial served, setting consent cookie")

	if err := c.setConsentCookie(html); err != nil {
		return "", errors.RequestBlocked(op, videoID.String(),
			"could not extract a consent token from the interstitial")
	}

	html, err = c.getPage(ctx, op, videoID, watchURL)
	if err != nil {
		return "", err
	}
	if strings.Contains(html, consentFormMarker) {
		return "", errors.RequestBlocked(op, videoID.String(),
			"consent cookie was not accepted by the platform")
	}

	return html, nil
}

// setConsentCookie mirrors the value the consent form would submit, so
// caption endpoints become reachable without a click-through.
func (c *Client) setConsentCookie(html string) error {
	match := consentValuePattern.FindStringSubmatch(html)
	if match == nil {
		return fmt.Errorf("consent form value not found")
	}

	origin, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return err
	}

	c.http.Jar.SetCookies(origin, []*http.Cookie{{
		Name:  "CONSENT",
		Value: "YES+" + match[1],
		Path:  "/",
	}})
	return nil
}

func (c *Client) fetchPlayerData(ctx context.Context, videoID models.VideoID, apiKey string) (*playerResponse, error) {
	const op = "youtube.Client.fetchPlayerData"

	payload, err := json.Marshal(playerRequest{
		Context: playerContext{
			Client: playerClient{
				ClientName:    innertubeClientName,
				ClientVersion: innertubeClientVersion,
			},
		},
		VideoID: videoID.String(),
	})
	if err != nil {
		return nil, errors.Network(op, err, "failed to encode player request")
	}

	playerURL := c.config.BaseURL + "/youtubei/v1/player?key=" + url.QueryEscape(apiKey)

	if err := c.wait(ctx); err != nil {
		return nil, errors.Network(op, err, "request cancelled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, playerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Network(op, err, "failed to build player request")
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network(op, err, "player request failed")
	}
	defer resp.Body.Close()

	if err := checkStatus(op, videoID, resp); err != nil {
		return nil, err
	}

	var data playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.Network(op, err, "failed to decode player response")
	}

	return &data, nil
}

func (c *Client) getPage(ctx context.Context, op string, videoID models.VideoID, pageURL string) (string, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return "", errors.Network(op, err, "failed to fetch watch page")
	}
	defer resp.Body.Close()

	if err := checkStatus(op, videoID, resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Network(op, err, "failed to read watch page")
	}

	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	return c.http.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// wait applies the inter-request throttle. Callers fetching many videos can
// set Config.RequestDelay to space platform requests out.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func checkStatus(op string, videoID models.VideoID, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden:
		return errors.IPBlocked(op, videoID.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Network(op, nil,
			fmt.Sprintf("unexpected status %d from platform", resp.StatusCode))
	}
	return nil
}

func classifyPlayability(op string, videoID models.VideoID, status playabilityStatus) error {
	if status.Status == "" || status.Status == "OK" {
		return nil
	}

	reason := status.Reason

	switch status.Status {
	case "LOGIN_REQUIRED":
		if strings.Contains(reason, "not a bot") {
			return errors.RequestBlocked(op, videoID.String(),
				"the platform flagged this client as automated traffic")
		}
		if strings.Contains(reason, "inappropriate") {
			return errors.AgeRestricted(op, videoID.String())
		}
		return errors.VideoUnavailable(op, videoID.String(),
			"this video is private or requires sign-in")
	case "ERROR":
		if reason == "" {
			reason = "video is unavailable"
		}
		return errors.VideoUnavailable(op, videoID.String(), reason)
	}

	if reason == "" {
		reason = "video is not playable (" + status.Status + ")"
	}
	return errors.VideoUnavailable(op, videoID.String(), reason)
}

func buildTranscriptList(videoID models.VideoID, renderer *captionsRenderer) *models.TranscriptList {
	translations := make([]models.TranslationLanguage, 0, len(renderer.TranslationLanguages))
	for _, tl := range renderer.TranslationLanguages {
		if tl.LanguageCode == "" {
			continue
		}
		translations = append(translations, models.TranslationLanguage{
			LanguageCode: tl.LanguageCode,
			Language:     tl.LanguageName.text(),
		})
	}

	list := &models.TranscriptList{VideoID: videoID}
	for _, track := range renderer.CaptionTracks {
		if track.LanguageCode == "" || track.BaseURL == "" {
			continue
		}

		kind := models.TrackKindManual
		if track.Kind == "asr" {
			kind = models.TrackKindAutoGenerated
		}

		language := track.Name.text()
		if language == "" {
			language = track.LanguageCode
		}

		meta := models.TranscriptMeta{
			LanguageCode:   track.LanguageCode,
			Language:       language,
			Kind:           kind,
			IsTranslatable: track.IsTranslatable,
			// The srv3 format flag must go: srv3 bodies are JSON events,
			// not the timed-text XML the parser consumes.
			BaseURL: strings.ReplaceAll(track.BaseURL, "&fmt=srv3", ""),
		}
		if track.IsTranslatable {
			meta.TranslationLanguages = translations
		}

		list.Tracks = append(list.Tracks, meta)
	}

	return list
}
