package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"interview-coach/internal/shared/storage/object"
	"interview-coach/internal/shared/telemetry"
	"interview-coach/internal/shared/util"
)

// ErrInvalidInput marks malformed transcription/synthesis requests.
var ErrInvalidInput = errors.New("invalid input")

// ErrProviderNotConfigured is returned when no provider credentials were set.
var ErrProviderNotConfigured = errors.New("speech provider not configured")

// Service stores audio artifacts and calls the speech providers.
type Service struct {
	Store       object.ObjectStore
	Transcriber Transcriber
	Synthesizer Synthesizer
}

// TranscribeAnswer saves the recorded answer under the conversation's audio
// namespace and returns its transcription. The blob write completes before the
// provider call so a stored audio path always refers to an existing file.
func (s *Service) TranscribeAnswer(ctx context.Context, conversationID, questionID, fileName string, audio []byte) (transcription, audioPath string, err error) {
	cid, err := util.SanitizeFileName(conversationID)
	if err != nil {
		return "", "", fmt.Errorf("%w: conversation id", ErrInvalidInput)
	}
	qid, err := util.SanitizeFileName(questionID)
	if err != nil {
		return "", "", fmt.Errorf("%w: question id", ErrInvalidInput)
	}
	if len(audio) == 0 {
		return "", "", fmt.Errorf("%w: empty audio", ErrInvalidInput)
	}
	if s.Transcriber == nil {
		return "", "", ErrProviderNotConfigured
	}

	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".webm"
	}
	key := fmt.Sprintf("audio/%s/responses/%s_%d%s", cid, qid, time.Now().UnixMilli(), ext)

	if _, err := s.Store.Save(ctx, key, contentTypeFor(ext), bytes.NewReader(audio)); err != nil {
		return "", "", fmt.Errorf("save answer audio: %w", err)
	}

	text, err := s.Transcriber.Transcribe(ctx, audio, "answer"+ext)
	if err != nil {
		return "", "", err
	}
	return text, key, nil
}

// SynthesizeQuestion returns the audio path for a spoken question, synthesizing
// and caching it by (conversation, question) key on first use.
func (s *Service) SynthesizeQuestion(ctx context.Context, conversationID, questionID, text string) (string, error) {
	cid, err := util.SanitizeFileName(conversationID)
	if err != nil {
		return "", fmt.Errorf("%w: conversation id", ErrInvalidInput)
	}
	qid, err := util.SanitizeFileName(questionID)
	if err != nil {
		return "", fmt.Errorf("%w: question id", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrInvalidInput)
	}

	key := fmt.Sprintf("audio/%s/questions/%s.mp3", cid, qid)
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		telemetry.Info("speech.synthesis.cached", map[string]any{
			"conversation_id": conversationID,
			"question_id":     questionID,
		})
		return key, nil
	}
	if s.Synthesizer == nil {
		return "", ErrProviderNotConfigured
	}

	audio, err := s.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	if _, err := s.Store.Save(ctx, key, "audio/mpeg", bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("save question audio: %w", err)
	}
	return key, nil
}

// OpenAudio opens a stored audio artifact for streaming.
func (s *Service) OpenAudio(ctx context.Context, key string) (io.ReadCloser, string, error) {
	body, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return body, contentTypeFor(strings.ToLower(path.Ext(key))), nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return "audio/webm"
	}
}
