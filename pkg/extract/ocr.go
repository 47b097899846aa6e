package extract

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ocrLanguages is the tesseract language pack used for recognition.
// Library archives in this collection are predominantly Russian with
// English mixed in.
const ocrLanguages = "rus+eng"

// errOCRUnavailable is surfaced as a capability-missing message rather
// than a crash when no OCR tooling is installed.
var errOCRUnavailable = fmt.Errorf("tesseract not found in PATH; install tesseract-ocr with the rus and eng language packs")

// ocrAvailable reports whether the tesseract binary can be invoked.
func ocrAvailable() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ocrImage recognizes text in one image file via the tesseract CLI.
func ocrImage(imagePath string) (string, error) {
	if !ocrAvailable() {
		return "", errOCRUnavailable
	}
	out, err := exec.Command("tesseract", imagePath, "stdout", "-l", ocrLanguages).Output()
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return string(out), nil
}

// ocrImages recognizes a set of image files in sorted order, stopping
// once maxChars characters have been collected. maxChars <= 0 means no
// bound.
func ocrImages(paths []string, maxChars int) (string, error) {
	if !ocrAvailable() {
		return "", errOCRUnavailable
	}
	sort.Strings(paths)

	var parts []string
	total := 0
	for _, p := range paths {
		text, err := ocrImage(p)
		if err != nil {
			// Keep going; a single unreadable page should not lose the rest.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
		total += len([]rune(text))
		if maxChars > 0 && total >= maxChars {
			break
		}
	}

	joined := strings.Join(parts, "\n")
	if maxChars > 0 {
		joined = firstRunes(joined, maxChars)
	}
	return joined, nil
}
