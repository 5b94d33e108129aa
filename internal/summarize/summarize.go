// Package summarize turns a transcript into a structured summary using the
// Gemini generateContent REST endpoint.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel    = "gemini-1.5-flash"

	// Transcripts are cut off here before submission. Cost control, long
	// videos still summarize fine from the first chunk.
	MaxPromptRunes = 15000
)

var (
	ErrNoKey   = errors.New("GEMINI_API_KEY is not set")
	ErrNotJSON = errors.New("model did not return parseable JSON")
)

// APIError is an error object reported by the generative API itself.
type APIError struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generative api: %s", e.Message)
}

// Result is the response body of a successful summarize request. The model
// is asked for 5-10 terms and 5-8 points but nothing enforces that, callers
// must not assume the lengths.
type Result struct {
	Summary string   `json:"summary"`
	Terms   []string `json:"terms"`
	Points  []string `json:"points"`
}

type Client struct {
	Key      string
	Model    string
	Endpoint string
	HTTP     *http.Client
}

// NewFromEnv reads GEMINI_API_KEY and GEMINI_MODEL. A missing key is not
// fatal here, Summarize reports it per request.
func NewFromEnv() *Client {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		Key:      os.Getenv("GEMINI_API_KEY"),
		Model:    model,
		Endpoint: DefaultEndpoint,
		HTTP:     &http.Client{Timeout: 90 * time.Second},
	}
}

const promptFormat = `Summarize the following video transcript. Respond with a single JSON object with exactly these keys:
"summary": a 3-5 sentence summary of the video,
"terms": an array of 5-10 key terms mentioned in the video,
"points": an array of 5-8 bullet points covering the main ideas.
Respond with raw JSON only, do not wrap it in markdown fencing.

Transcript:
%s`

type reqContents struct {
	Contents []reqContent `json:"contents"`
}

type reqContent struct {
	Parts []reqPart `json:"parts"`
}

type reqPart struct {
	Text string `json:"text"`
}

// More is returned, this just outlines what we actually use.
type resGenerate struct {
	Error      *APIError `json:"error"`
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize submits the transcript in a single shot, no retries and no
// streaming, and parses the model's reply into a Result.
//
// Models like to wrap their JSON in prose or fencing despite instructions,
// so the reply is scanned for the first '{' through the last '}' and only
// that substring is parsed.
func (c *Client) Summarize(ctx context.Context, transcript string) (*Result, error) {
	if c.Key == "" {
		return nil, ErrNoKey
	}

	payload, err := json.Marshal(reqContents{
		Contents: []reqContent{{Parts: []reqPart{{Text: fmt.Sprintf(promptFormat, truncate(transcript))}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.Endpoint, c.Model, c.Key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading generate response: %w", err)
	}

	result := resGenerate{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshalling generate response %q: %w", string(body), err)
	}

	if result.Error != nil {
		return nil, result.Error
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generate status code %d: %q", res.StatusCode, string(body))
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("generate response has no candidates: %w", ErrNotJSON)
	}

	return parseReply(result.Candidates[0].Content.Parts[0].Text)
}

func parseReply(text string) (*Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply %q: %w", text, ErrNotJSON)
	}

	summary := Result{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &summary); err != nil {
		return nil, fmt.Errorf("parsing reply %q: %v: %w", text, err, ErrNotJSON)
	}

	return &summary, nil
}

func truncate(transcript string) string {
	runes := []rune(transcript)
	if len(runes) <= MaxPromptRunes {
		return transcript
	}

	return string(runes[:MaxPromptRunes])
}
