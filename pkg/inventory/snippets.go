package inventory

import (
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// snippetLimit bounds how much of a metadata file is kept, in characters.
const snippetLimit = 2000

// metadataPatterns match files worth quoting verbatim in the initial
// prompt: scene descriptors and readmes. Matched case-insensitively
// against the base name.
var metadataPatterns = []string{
	"file_id.diz",
	"readme.*",
	"read*me*",
	"*.nfo",
}

// SetMetadataPatterns replaces the metadata-file patterns. Called at
// most once, at startup, before any analysis run. An empty list keeps
// the defaults.
func SetMetadataPatterns(patterns []string) {
	if len(patterns) == 0 {
		return
	}
	metadataPatterns = patterns
}

func isMetadataFile(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range metadataPatterns {
		if ok, _ := path.Match(pat, lower); ok {
			return true
		}
	}
	return false
}

// snippetCodepages is the decode order for non-UTF-8 metadata files.
// Library archives from Russian-language collections commonly carry
// cp1251 or cp866 text.
var snippetCodepages = []*charmap.Charmap{
	charmap.Windows1251,
	charmap.CodePage866,
}

// readSnippet decodes up to snippetLimit characters from a metadata
// file. Valid UTF-8 wins; otherwise the legacy codepages are tried in
// order, rejecting any decode that hits an undefined byte so cp866 text
// is not accepted as cp1251 mojibake.
func readSnippet(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	// Decode a bounded prefix only; 4 bytes covers the widest UTF-8 rune.
	if len(data) > snippetLimit*4 {
		data = data[:snippetLimit*4]
		// Do not let the cut strand a partial trailing rune.
		for i := 0; i < 3 && len(data) > 0 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}

	if utf8.Valid(data) {
		return truncateRunes(string(data), snippetLimit), true
	}
	for _, cm := range snippetCodepages {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil || strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return truncateRunes(string(decoded), snippetLimit), true
	}

	// Last resort: keep whatever decodes, dropping invalid bytes.
	return truncateRunes(strings.ToValidUTF8(string(data), ""), snippetLimit), true
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
