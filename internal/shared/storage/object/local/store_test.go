package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key := "audio/conv-1/responses/q-1_123.webm"
	n, err := store.Save(ctx, key, "audio/webm", bytes.NewReader([]byte("webm-bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("webm-bytes")) {
		t.Fatalf("expected %d bytes written, got %d", len("webm-bytes"), n)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	body, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "webm-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = store.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("expected object gone, ok=%v err=%v", ok, err)
	}
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Delete(context.Background(), "audio/conv-1/responses/missing.webm"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestDeletePrefixRemovesTree(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	keys := []string{
		"audio/conv-1/questions/q-1.mp3",
		"audio/conv-1/responses/q-1_1.webm",
		"audio/conv-2/responses/q-9_1.webm",
	}
	for _, key := range keys {
		if _, err := store.Save(ctx, key, "application/octet-stream", strings.NewReader("x")); err != nil {
			t.Fatalf("Save %s: %v", key, err)
		}
	}

	if err := store.DeletePrefix(ctx, "audio/conv-1"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}

	for _, key := range keys[:2] {
		if ok, _ := store.Exists(ctx, key); ok {
			t.Fatalf("expected %s removed", key)
		}
	}
	if ok, _ := store.Exists(ctx, keys[2]); !ok {
		t.Fatalf("expected other conversation's audio untouched")
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "../outside.txt", "", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal key rejected on Save")
	}
	if _, err := store.Open(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("expected absolute key rejected on Open")
	}
	if err := store.DeletePrefix(ctx, "."); err == nil {
		t.Fatalf("expected root prefix rejected on DeletePrefix")
	}
}
