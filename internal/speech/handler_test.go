package speech

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newSpeechRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestSpeechService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func TestTranscribeEndpointRequiresIDs(t *testing.T) {
	router, _ := newSpeechRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speech/transcriptions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTranscribeEndpointReturnsTranscriptionAndPath(t *testing.T) {
	router, _ := newSpeechRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("conversationId", "conv-1"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("questionId", "q-1"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := writer.CreateFormFile("audio", "take.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("webm-bytes")); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speech/transcriptions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var parsed struct {
		Transcription string `json:"transcription"`
		AudioPath     string `json:"audioPath"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if parsed.Transcription == "" || parsed.AudioPath == "" {
		t.Fatalf("incomplete response: %+v", parsed)
	}
}

func TestSynthesizeEndpointValidatesBody(t *testing.T) {
	router, _ := newSpeechRouter(t)

	payload, _ := json.Marshal(map[string]string{"text": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speech/syntheses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSynthesizeThenStreamAudio(t *testing.T) {
	router, _ := newSpeechRouter(t)

	payload, _ := json.Marshal(map[string]string{
		"text":           "Tell me about Go.",
		"conversationId": "conv-1",
		"questionId":     "q-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speech/syntheses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("synthesize: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var parsed struct {
		AudioPath string `json:"audioPath"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// audioPath already carries the audio/ prefix that the route supplies
	req = httptest.NewRequest(http.MethodGet, "/api/v1/"+parsed.AudioPath, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("stream: expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %s", got)
	}
	if resp.Body.String() != "mp3-bytes" {
		t.Fatalf("unexpected audio bytes: %q", resp.Body.String())
	}
}
