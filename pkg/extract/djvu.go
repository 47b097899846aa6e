package extract

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// djvuHandler extracts text from DjVu scans by rendering pages with
// ddjvu (djvulibre) and recognizing them. Page-oriented, so first_pages
// is honored directly.
type djvuHandler struct{}

func (djvuHandler) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".djvu"
}

func (djvuHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	if _, err := exec.LookPath("ddjvu"); err != nil {
		return "", fmt.Errorf("ddjvu not found in PATH; install djvulibre to process djvu files")
	}
	if !ocrAvailable() {
		return "", errOCRUnavailable
	}

	pages := 1
	maxChars := 0
	switch req.Mode {
	case types.FirstPages:
		pages = req.Amount
	case types.FirstChars:
		maxChars = req.Amount
	}

	tmpDir, err := os.MkdirTemp("", "arcname-djvu-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var rendered []string
	for page := 1; page <= pages; page++ {
		out := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.tif", page))
		cmd := exec.Command("ddjvu", "-format=tiff", "-page="+strconv.Itoa(page), path, out)
		if err := cmd.Run(); err != nil {
			if page == 1 {
				return "", fmt.Errorf("rendering djvu page: %w", err)
			}
			break
		}
		rendered = append(rendered, out)
	}

	text, err := ocrImages(rendered, maxChars)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("OCR produced no text")
	}
	return text, nil
}

func (djvuHandler) Metadata(string) map[string]string {
	return map[string]string{}
}
