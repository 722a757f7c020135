package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"interview-coach/internal/speech"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultModel  = "whisper-1"
)

// Client implements speech.Transcriber using OpenAI audio transcriptions.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a Whisper transcription client.
func NewClient(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	return &Client{
		apiKey: apiKey,
		model:  defaultModel,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Transcribe uploads the audio bytes and returns the transcription text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = "audio.webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("whisper response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("whisper error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", fmt.Errorf("whisper response empty text")
	}
	return parsed.Text, nil
}

var _ speech.Transcriber = (*Client)(nil)
