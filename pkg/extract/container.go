package extract

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// containerHandler describes nested archives found inside the inventory.
// It lists their contents rather than extracting prose; the listing
// itself is often enough for the oracle to classify a software dump.
type containerHandler struct{}

func (containerHandler) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".zip" || ext == ".rar" || ext == ".7z"
}

func (containerHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".zip" {
		return fmt.Sprintf("nested %s archive; contents not listed", strings.TrimPrefix(ext, ".")), nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening nested zip: %w", err)
	}
	defer r.Close()

	const listLimit = 20
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		if len(names) == listLimit {
			break
		}
	}
	listing := fmt.Sprintf("zip archive with %d members: %s", len(r.File), strings.Join(names, ", "))
	if len(r.File) > listLimit {
		listing += ", ..."
	}
	return firstRunes(listing, req.Amount), nil
}

func (containerHandler) Metadata(string) map[string]string {
	return map[string]string{}
}
