// Package extract pulls bounded text and metadata out of individual
// files through a fixed set of per-format handlers.
//
// Handlers never let failures escape to callers of Text: a corrupt
// document, a missing external tool or an unreadable container all
// produce a human-readable message string, which the decision protocol
// treats as a (low-value) extraction result.
package extract

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// Handler is a format-specific adapter for one file type.
type Handler interface {
	// CanHandle reports whether the handler understands the file.
	CanHandle(path string) bool

	// ExtractText pulls bounded text from the file. Internal failures
	// are returned as errors and stringified at the package boundary.
	ExtractText(path string, req types.ExtractionRequest) (string, error)

	// Metadata returns best-effort document metadata. Formats without a
	// metadata concept, and parse failures, yield an empty map. Empty
	// values are omitted.
	Metadata(path string) map[string]string
}

var (
	registryOnce sync.Once
	registry     []Handler
)

// handlers returns the process-wide handler list in priority order.
// Built once, immutable afterwards, safe for concurrent reads.
func handlers() []Handler {
	registryOnce.Do(func() {
		registry = []Handler{
			&txtHandler{},
			&pdfHandler{},
			&docxHandler{},
			&fb2Handler{},
			&djvuHandler{},
			&containerHandler{},
			&epubHandler{},
			&imageHandler{},
		}
	})
	return registry
}

// HandlerFor returns the first handler claiming the path, or a raw-read
// fallback when none does.
func HandlerFor(path string) Handler {
	for _, h := range handlers() {
		if h.CanHandle(path) {
			return h
		}
	}
	return rawHandler{}
}

// Text extracts bounded text from path. It never fails: errors come back
// as descriptive message strings.
func Text(path string, req types.ExtractionRequest) string {
	text, err := HandlerFor(path).ExtractText(path, req)
	if err != nil {
		return fmt.Sprintf("extraction failed: %v", err)
	}
	return text
}

// Metadata extracts best-effort metadata from path.
func Metadata(path string) map[string]string {
	return HandlerFor(path).Metadata(path)
}

// firstRunes truncates s to at most n characters. n <= 0 yields empty.
func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// cleanText collapses whitespace runs and drops non-printable runes.
func cleanText(s string) string {
	var result strings.Builder
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				result.WriteRune(' ')
				lastSpace = true
			}
		} else if unicode.IsPrint(r) {
			result.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(result.String())
}

// pruneEmpty removes keys whose values are blank.
func pruneEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			delete(m, k)
		}
	}
	return m
}
