package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts generative-model providers behind a JSON-mode completion call.
// Implementations must return a syntactically valid JSON document or an error.
type Client interface {
	Complete(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm not configured")

// PlaceholderClient is a stub implementation used when no provider key is set.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	_ = ctx
	_ = prompt
	return nil, ErrNotConfigured
}

var _ Client = PlaceholderClient{}
