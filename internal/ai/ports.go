package ai

import "context"

// Provider is the raw, blocking generation call. It knows nothing about
// WhatsApp, Shopify or apology messages.
type Provider interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// ModelLister reports the models the configured API key may use.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Replier produces a user-facing reply and never fails.
type Replier interface {
	GenerateReply(ctx context.Context, text string, meta map[string]any) string
}

// ModelChooser picks the model to use for a request.
type ModelChooser interface {
	Choose(ctx context.Context, preferred string) (model string, fallback bool)
}

// ModelInfo describes one model available to the API key.
type ModelInfo struct {
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
}

// AskRequest is a direct question to the model.
type AskRequest struct {
	Text    string
	Model   string
	Timeout int64 // milliseconds, 0 = configured default
}

// Result is the outcome of a direct ask.
type Result struct {
	Model     string `json:"model"`
	Fallback  bool   `json:"fallback"`
	LatencyMS int64  `json:"latency_ms"`
	Reply     string `json:"reply"`
}
