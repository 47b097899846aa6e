package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse reports a completion that came back with no
// candidates or no text.
var ErrEmptyResponse = errors.New("oracle: empty response from model")

// DefaultModel is the model consulted when none is configured.
const DefaultModel = "gemini-2.5-flash"

// systemInstruction pins the wire contract. The target rule matters:
// models like to invent generic names such as "document.fb2" instead of
// quoting the listing.
const systemInstruction = `You must reply ONLY with JSON, with no explanations, comments or text outside the JSON.
Your reply must be a valid JSON object with one of two structures:

1. To rename:
{"decision": "rename", "new_name": "file_name.extension"}

2. To request more data:
{"decision": "need_more_data", "action": "action", "target": "concrete_file_name.extension", "parameters": {"type": "type", "amount": number}}

IMPORTANT: in the "target" field always give a concrete existing file name from the archive structure, not a generic name like 'document.fb2'.`

// GeminiConfig configures the production oracle client.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. Falls back to the
	// GEMINI_API_KEY environment variable when empty.
	APIKey string

	// Model names the model to consult. Defaults to DefaultModel.
	Model string

	// Timeout bounds one completion call, retries included. The oracle
	// is an untrusted network dependency; zero means 60s.
	Timeout time.Duration

	Logger *slog.Logger
}

// Gemini is the production Oracle backed by the Gemini API.
type Gemini struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGemini creates a Gemini oracle client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return nil, errors.New("no Gemini API key: set GEMINI_API_KEY or provide one in the config")
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{cli: cli, model: model, timeout: timeout, logger: logger}, nil
}

// Complete sends the prompt, preceded by the wire-contract instruction,
// and returns the raw response text. Transient failures are retried with
// backoff inside the timeout.
func (g *Gemini) Complete(ctx context.Context, promptText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	full := systemInstruction + "\n\n" + promptText
	g.logger.Debug("oracle request", "model", g.model, "bytes", len(full))

	temperature := float32(0.1)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
		MaxOutputTokens:  1000,
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}}, cfg)
		switch {
		case err != nil:
			lastErr = err
		case len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0:
			lastErr = ErrEmptyResponse
		default:
			text := resp.Candidates[0].Content.Parts[0].Text
			g.logger.Debug("oracle response", "bytes", len(text))
			return text, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
		}
	}
	return "", fmt.Errorf("oracle call failed after retries: %w", lastErr)
}
