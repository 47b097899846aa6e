package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// readPrefix reads at most limit bytes from path.
func readPrefix(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

// byteBudget converts a character budget to a byte bound. 4 bytes covers
// the widest UTF-8 rune.
func byteBudget(chars int) int64 {
	if chars <= 0 {
		return 0
	}
	return int64(chars) * 4
}

// txtHandler reads plain-text files. first_pages falls back to
// first_chars since plain text has no page concept.
type txtHandler struct{}

func (txtHandler) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".txt"
}

func (txtHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	data, err := readPrefix(path, byteBudget(req.Amount))
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return firstRunes(strings.ToValidUTF8(string(data), ""), req.Amount), nil
}

func (txtHandler) Metadata(string) map[string]string {
	return map[string]string{}
}

// rawHandler is the no-op fallback for unrecognized files: a bounded raw
// read with invalid UTF-8 dropped.
type rawHandler struct{}

func (rawHandler) CanHandle(string) bool { return true }

func (rawHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	data, err := readPrefix(path, byteBudget(req.Amount))
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return firstRunes(strings.ToValidUTF8(string(data), ""), req.Amount), nil
}

func (rawHandler) Metadata(string) map[string]string {
	return map[string]string{}
}
