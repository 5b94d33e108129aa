// Package tube scrapes caption transcripts from YouTube watch pages.
//
// No API key is needed: the watch page embeds a JSON blob under the
// "captions" key that lists every caption track with a fetch URL.
package tube

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultWatchBase = "https://www.youtube.com"

	// Transcripts shorter than this are useless for summarization and are
	// treated as a failure, not a degraded result.
	MinTranscriptLen = 50
)

var (
	ErrNotOk          = errors.New("unexpected non 200 status code")
	ErrToManyRequests = errors.New("too many requests")
	ErrNoCaptions     = errors.New("no caption tracks")
	ErrNoTrack        = errors.New("no suitable caption track")
	ErrTooShort       = errors.New("transcript empty or too short")
)

type Client struct {
	// WatchBase is the scheme+host watch pages are fetched from,
	// overridable in tests.
	WatchBase string
	HTTP      *http.Client
}

func NewClient() *Client {
	return &Client{
		WatchBase: DefaultWatchBase,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// More is returned, this just outlines what we actually use.
type resCaptionsList struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []Track
	}
}

type Track struct {
	BaseUrl      string
	LanguageCode string
}

var (
	textRe = regexp.MustCompile(`(?is)<text[^>]*>(.*?)</text>`)
	tagRe  = regexp.MustCompile(`<[^>]+>`)

	// The payload uses numeric entities for the characters that matter,
	// &#10; becomes a space because the transcript is flattened to one line.
	entities = strings.NewReplacer(`&#39;`, "'", `&quot;`, `"`, `&#10;`, " ")
)

// Transcript fetches the watch page for videoId, locates the embedded
// caption track list, fetches the best track and flattens it to plain text.
//
// Track selection prefers the first track whose language code contains "en",
// falling back to the first track of any language. This means a video with
// only, say, German captions silently yields a German transcript.
func (c *Client) Transcript(videoId string) (string, error) {
	res, err := c.HTTP.Get(fmt.Sprintf("%s/watch?v=%s", c.WatchBase, videoId))
	if err != nil {
		return "", fmt.Errorf("requesting watch page: %w", err)
	}
	defer res.Body.Close()

	content, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("reading watch page body: %w", err)
	}
	sContent := string(content)

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page for %q got code %d: %w", videoId, res.StatusCode, ErrNotOk)
	}

	split := strings.Split(sContent, `"captions":`)
	if len(split) <= 1 {
		if strings.Contains(sContent, `class="g-recaptcha"`) {
			return "", fmt.Errorf("video %q got captcha: %w", videoId, ErrToManyRequests)
		}

		// Private videos and videos without captions are indistinguishable here.
		return "", fmt.Errorf("no captions json for %q: %w", videoId, ErrNoCaptions)
	}

	rawCaptions := strings.ReplaceAll(strings.Split(split[1], `,"videoDetails`)[0], "\n", "")
	captionsList := resCaptionsList{}
	if err := json.Unmarshal([]byte(rawCaptions), &captionsList); err != nil {
		return "", fmt.Errorf("could not unmarshal caption results %q: %w", rawCaptions, err)
	}

	track, err := pickTrack(captionsList.PlayerCaptionsTracklistRenderer.CaptionTracks)
	if err != nil {
		return "", err
	}

	res, err = c.HTTP.Get(track.BaseUrl)
	if err != nil {
		return "", fmt.Errorf("captions request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("reading captions body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("captions file status code %d: %w", res.StatusCode, ErrNotOk)
	}

	transcript := flatten(string(body))
	if len(transcript) < MinTranscriptLen {
		return "", fmt.Errorf("transcript of %q is %d characters: %w", videoId, len(transcript), ErrTooShort)
	}

	return transcript, nil
}

// pickTrack returns the first track whose language code contains "en",
// the first track otherwise.
func pickTrack(tracks []Track) (*Track, error) {
	for _, t := range tracks {
		if strings.Contains(strings.ToLower(t.LanguageCode), "en") {
			return &t, nil
		}
	}

	if len(tracks) > 0 {
		return &tracks[0], nil
	}

	return nil, ErrNoTrack
}

// flatten joins the content of every <text> element in the caption payload
// into a single space-separated line, decoding entities and stripping any
// nested markup.
func flatten(payload string) string {
	b := strings.Builder{}
	b.Grow(len(payload))
	for _, match := range textRe.FindAllStringSubmatch(payload, -1) {
		inner := entities.Replace(match[1])
		inner = tagRe.ReplaceAllString(inner, "")
		b.WriteString(inner)
		b.WriteByte(' ')
	}

	return strings.TrimSpace(b.String())
}
