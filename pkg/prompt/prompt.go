// Package prompt serializes archive context into the two prompt strings
// the decision protocol sends to the oracle. Construction is pure: same
// inventory in, same text out.
package prompt

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/inventory"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// previewLimit bounds the extracted-text preview in follow-up prompts.
const previewLimit = 2000

const initialTemplate = `Analyze the structure and available metadata of a compressed archive.

Original archive name: %q
Archive extensions: %q
Main document inside: %q

Archive contents:
%s

Reply with a JSON object in exactly one of these two forms:

1. If the information is SUFFICIENT to determine the contents:
{"decision": "rename", "new_name": "Proposed_archive_name.extension"}

2. If the information is INSUFFICIENT:
{"decision": "need_more_data", "action": "extract_text", "target": %q, "parameters": {"type": "first_chars", "amount": 1000}}

IMPORTANT:
- The proposed name must describe the CONTENTS of the archive
- Keep the original archive extension (%s)
- In "target" always give a concrete existing file name from the listing above`

const followupTemplate = `Analyze text extracted from a file inside an archive and propose a name for the ARCHIVE itself.

Archive: %s
Archive extension: %s
File inside the archive: %s
Characters extracted: %d

Text: %s

Reply with a JSON object:
{"decision": "rename", "new_name": "Proposed_archive_name%s"}

IMPORTANT:
- The proposed name must describe the CONTENTS of the archive
- Keep the original archive extension (%s)
- The name must be readable and describe the main document`

// Initial builds the first-round classification prompt: archive name,
// main-document annotation and the full serialized inventory.
func Initial(archivePath string, inv *types.ArchiveInventory) string {
	archiveName := filepath.Base(archivePath)
	ext := filepath.Ext(archiveName)

	mainDoc, ok := inventory.SelectMainDocument(inv.Files)
	mainDocDesc := mainDoc
	if !ok {
		mainDocDesc = "not identified"
	}
	if names := snippetNames(inv); len(names) > 0 {
		mainDocDesc = fmt.Sprintf("%s (metadata files present: %s)", mainDocDesc, strings.Join(names, ", "))
	}

	listing, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		// The inventory is plain data; marshaling cannot realistically
		// fail, but the prompt must still be produced.
		listing = []byte("{}")
	}

	return fmt.Sprintf(initialTemplate,
		archiveName, ext, mainDocDesc, listing, mainDoc, ext)
}

// Followup builds the second-round prompt around extracted text. The
// preview is bounded and normalized so free-form document content cannot
// break out of the surrounding instruction text.
func Followup(archivePath, targetFile, extracted string) string {
	archiveName := filepath.Base(archivePath)
	ext := filepath.Ext(archiveName)
	return fmt.Sprintf(followupTemplate,
		archiveName, ext, targetFile, len([]rune(extracted)),
		normalizePreview(extracted), ext, ext)
}

// normalizePreview bounds the preview and collapses characters that
// would disturb the prompt structure.
func normalizePreview(s string) string {
	runes := []rune(s)
	if len(runes) > previewLimit {
		s = string(runes[:previewLimit])
	}
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, `\`, "/")
	return s
}

func snippetNames(inv *types.ArchiveInventory) []string {
	names := make([]string, 0, len(inv.MetadataSnippets))
	for name := range inv.MetadataSnippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
