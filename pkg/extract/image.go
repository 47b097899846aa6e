package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// imageHandler recognizes text in standalone images, covering scanned
// covers and title pages stored loose in an archive.
type imageHandler struct{}

func (imageHandler) CanHandle(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

func (imageHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	text, err := ocrImage(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("OCR produced no text")
	}
	if req.Mode == types.FirstChars {
		text = firstRunes(text, req.Amount)
	}
	return text, nil
}

func (imageHandler) Metadata(string) map[string]string {
	return map[string]string{}
}
