package oracle

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// fallbackFormats pairs a format keyword with the glob target a
// synthesized decision should ask about. Order is priority: the first
// keyword found in the prompt wins.
var fallbackFormats = []struct {
	keyword string
	target  string
}{
	{".pdf", "*.pdf"},
	{".docx", "*.docx"},
	{".fb2", "*.fb2"},
	{".epub", "*.epub"},
	{".djvu", "*.djvu"},
	{".txt", "*.txt"},
}

var (
	fallbackOnce    sync.Once
	fallbackMatcher *ahocorasick.Matcher
)

// FallbackResponse synthesizes a need_more_data decision from the prompt
// text when the oracle itself is unreachable, so a single transport
// hiccup does not kill the run. It scans the prompt for known format
// keywords and targets the first format family found.
func FallbackResponse(promptText string) string {
	fallbackOnce.Do(func() {
		keywords := make([]string, len(fallbackFormats))
		for i, f := range fallbackFormats {
			keywords[i] = f.keyword
		}
		fallbackMatcher = ahocorasick.NewStringMatcher(keywords)
	})

	target := "document.*"
	hits := fallbackMatcher.Match([]byte(strings.ToLower(promptText)))
	best := len(fallbackFormats)
	for _, idx := range hits {
		if idx < best {
			best = idx
		}
	}
	if best < len(fallbackFormats) {
		target = fallbackFormats[best].target
	}

	reply, _ := json.Marshal(map[string]any{
		"decision": "need_more_data",
		"action":   "extract_text",
		"target":   target,
		"parameters": map[string]any{
			"type":   "first_chars",
			"amount": 1000,
		},
	})
	return string(reply)
}

// WithFallback wraps an Oracle so transport failures produce a
// synthesized decision instead of an error.
func WithFallback(o Oracle) Oracle {
	return Func(func(ctx context.Context, promptText string) (string, error) {
		reply, err := o.Complete(ctx, promptText)
		if err != nil {
			return FallbackResponse(promptText), nil
		}
		return reply, nil
	})
}
