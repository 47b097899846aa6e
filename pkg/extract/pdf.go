package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// pdfHandler extracts text from PDF files, falling back to OCR over
// rasterized pages for scanned documents without a text layer.
type pdfHandler struct{}

func (pdfHandler) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

func (pdfHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	text, err := pdfPlainText(path, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	// No text layer. Scanned book: pull page images and OCR them.
	maxChars := 0
	if req.Mode == types.FirstChars {
		maxChars = req.Amount
	}
	ocrText, err := pdfOCR(path, maxChars)
	if err != nil {
		return "", fmt.Errorf("PDF has no text layer and OCR failed: %w", err)
	}
	return ocrText, nil
}

// pdfPlainText walks the PDF's text layer page by page, honoring the
// extraction budget.
func pdfPlainText(path string, req types.ExtractionRequest) (out string, err error) {
	defer func() {
		// The pdf parser panics on some malformed files.
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := r.NumPage()
	pageLimit := totalPages
	if req.Mode == types.FirstPages && req.Amount < pageLimit {
		pageLimit = req.Amount
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= pageLimit; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Extract what we can from the remaining pages.
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")

		if req.Mode == types.FirstChars && len([]rune(text.String())) >= req.Amount {
			break
		}
	}

	out = text.String()
	if req.Mode == types.FirstChars {
		out = firstRunes(out, req.Amount)
	}
	return out, nil
}

// pdfOCR extracts the embedded page images of a scanned PDF into a
// scratch directory and recognizes them, bounded by maxChars.
func pdfOCR(path string, maxChars int) (string, error) {
	if !ocrAvailable() {
		return "", errOCRUnavailable
	}

	tmpDir, err := os.MkdirTemp("", "arcname-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating OCR scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := pdfcpu.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
		return "", fmt.Errorf("rasterizing PDF pages: %w", err)
	}

	images, err := filepath.Glob(filepath.Join(tmpDir, "*"))
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("PDF contains no extractable page images")
	}

	text, err := ocrImages(images, maxChars)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("OCR produced no text")
	}
	return text, nil
}

func (pdfHandler) Metadata(path string) map[string]string {
	meta := map[string]string{}

	f, r, err := pdf.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	defer func() {
		// Trailer access panics on malformed cross-reference tables.
		recover()
	}()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer"} {
		v := info.Key(key)
		if v.Kind() == pdf.String {
			meta[strings.ToLower(key)] = v.RawString()
		}
	}
	return pruneEmpty(meta)
}
