package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"interview-coach/internal/shared/storage/object/local"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

func newTestSpeechService(t *testing.T) (*Service, *fakeSynthesizer) {
	t.Helper()
	synth := &fakeSynthesizer{audio: []byte("mp3-bytes")}
	return &Service{
		Store:       local.New(t.TempDir()),
		Transcriber: &fakeTranscriber{text: "I led a Go migration."},
		Synthesizer: synth,
	}, synth
}

func TestTranscribeAnswerSavesAudioAndReturnsPath(t *testing.T) {
	svc, _ := newTestSpeechService(t)

	text, audioPath, err := svc.TranscribeAnswer(context.Background(), "conv-1", "q-1", "take.webm", []byte("webm-bytes"))
	if err != nil {
		t.Fatalf("TranscribeAnswer: %v", err)
	}
	if text != "I led a Go migration." {
		t.Fatalf("unexpected transcription: %q", text)
	}
	if !strings.HasPrefix(audioPath, "audio/conv-1/responses/q-1_") || !strings.HasSuffix(audioPath, ".webm") {
		t.Fatalf("unexpected audio path: %s", audioPath)
	}

	exists, err := svc.Store.Exists(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("audio blob was not saved at %s", audioPath)
	}
}

func TestTranscribeAnswerRejectsTraversalIDs(t *testing.T) {
	svc, _ := newTestSpeechService(t)

	_, _, err := svc.TranscribeAnswer(context.Background(), "../etc", "q-1", "take.webm", []byte("x"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTranscribeAnswerRequiresProvider(t *testing.T) {
	svc, _ := newTestSpeechService(t)
	svc.Transcriber = nil

	_, _, err := svc.TranscribeAnswer(context.Background(), "conv-1", "q-1", "take.webm", []byte("x"))
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestSynthesizeQuestionCachesByKey(t *testing.T) {
	svc, synth := newTestSpeechService(t)

	first, err := svc.SynthesizeQuestion(context.Background(), "conv-1", "q-1", "Tell me about Go.")
	if err != nil {
		t.Fatalf("first SynthesizeQuestion: %v", err)
	}
	second, err := svc.SynthesizeQuestion(context.Background(), "conv-1", "q-1", "Tell me about Go.")
	if err != nil {
		t.Fatalf("second SynthesizeQuestion: %v", err)
	}
	if first != second {
		t.Fatalf("cache key changed: %s vs %s", first, second)
	}
	if synth.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", synth.calls)
	}
	if first != "audio/conv-1/questions/q-1.mp3" {
		t.Fatalf("unexpected audio path: %s", first)
	}
}

func TestSynthesizeQuestionCachedAudioNeedsNoProvider(t *testing.T) {
	svc, _ := newTestSpeechService(t)

	key, err := svc.SynthesizeQuestion(context.Background(), "conv-1", "q-1", "Tell me about Go.")
	if err != nil {
		t.Fatalf("SynthesizeQuestion: %v", err)
	}

	svc.Synthesizer = nil
	again, err := svc.SynthesizeQuestion(context.Background(), "conv-1", "q-1", "Tell me about Go.")
	if err != nil {
		t.Fatalf("cached synthesis should not need a provider: %v", err)
	}
	if again != key {
		t.Fatalf("unexpected key: %s", again)
	}
}

func TestOpenAudioStreamsSavedBytes(t *testing.T) {
	svc, _ := newTestSpeechService(t)

	key, err := svc.SynthesizeQuestion(context.Background(), "conv-1", "q-1", "Tell me about Go.")
	if err != nil {
		t.Fatalf("SynthesizeQuestion: %v", err)
	}

	body, contentType, err := svc.OpenAudio(context.Background(), key)
	if err != nil {
		t.Fatalf("OpenAudio: %v", err)
	}
	defer body.Close()
	if contentType != "audio/mpeg" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("unexpected audio bytes: %q", data)
	}
}
