package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interview-coach/internal/speech"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "EXAVITQu4vr4xnSDxMaL" // Sarah
	modelID        = "eleven_monolingual_v1"
)

// Client implements speech.Synthesizer using the ElevenLabs text-to-speech API.
type Client struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an ElevenLabs client. An empty voiceID selects the default voice.
func NewClient(apiKey, voiceID string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is required")
	}
	if strings.TrimSpace(voiceID) == "" {
		voiceID = defaultVoiceID
	}
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize returns MP3 bytes for the given text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty synthesis text")
	}

	payload, err := json.Marshal(synthesisRequest{Text: text, ModelID: modelID})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs error: status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("elevenlabs response empty audio")
	}
	return body, nil
}

func truncate(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}

var _ speech.Synthesizer = (*Client)(nil)
