package inventory

import (
	"path"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// documentExtensions is the set of extensions considered "main
// document" candidates. Fixed after startup.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".fb2":  true,
	".djvu": true,
	".epub": true,
	".zip":  true,
}

// SetDocumentExtensions replaces the candidate-extension set. Called at
// most once, at startup, before any analysis run; leading dots are
// optional. An empty list keeps the default set.
func SetDocumentExtensions(exts []string) {
	if len(exts) == 0 {
		return
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	documentExtensions = set
}

// SelectMainDocument picks the single most likely main file of an
// inventory: the largest file with a document extension, ties broken by
// first-encountered order. The second return is false when no candidate
// exists.
func SelectMainDocument(files []types.FileEntry) (string, bool) {
	var best types.FileEntry
	var bestSize int64 = -1

	for _, f := range files {
		if !f.IsFile() {
			continue
		}
		ext := strings.ToLower(path.Ext(f.Name))
		if !documentExtensions[ext] {
			continue
		}
		size := int64(0)
		if f.Size != nil {
			size = *f.Size
		}
		if size > bestSize {
			best = f
			bestSize = size
		}
	}

	if bestSize < 0 {
		return "", false
	}
	return best.Name, true
}

// ResolveTarget maps an oracle-supplied target to a concrete inventory
// entry. An exact name match wins; a target with glob metacharacters is
// matched against file names; anything else falls back to the main
// document. The bool reports whether the result came from fallback
// rather than the oracle's own target.
func ResolveTarget(inv *types.ArchiveInventory, target string) (types.FileEntry, bool, bool) {
	if e, ok := inv.Lookup(target); ok && e.IsFile() {
		return e, false, true
	}

	if strings.ContainsAny(target, "*?[") {
		for _, f := range inv.Files {
			if !f.IsFile() {
				continue
			}
			if ok, _ := path.Match(target, f.Name); ok {
				return f, false, true
			}
			// Patterns like "*.pdf" should also match nested members.
			if ok, _ := path.Match(target, path.Base(f.Name)); ok {
				return f, false, true
			}
		}
	}

	if name, ok := SelectMainDocument(inv.Files); ok {
		if e, ok := inv.Lookup(name); ok {
			return e, true, true
		}
	}
	return types.FileEntry{}, false, false
}
