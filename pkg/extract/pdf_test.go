package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScannedPDF materializes a structurally valid single-page PDF
// whose only content stream is empty, the shape of a scanned book with
// no text layer. The xref offsets are computed while assembling so the
// file parses cleanly.
func writeScannedPDF(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	obj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	obj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>\nendobj\n")
	obj("4 0 obj\n<< /Length 0 >>\nstream\nendstream\nendobj\n")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xref)

	p := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

// A scanned PDF on a machine without tesseract must surface the
// capability-missing message as extraction text, not crash.
func TestPDFHandler_NoTextLayerWithoutOCR(t *testing.T) {
	p := writeScannedPDF(t)
	t.Setenv("PATH", t.TempDir())

	_, err := pdfHandler{}.ExtractText(p, chars(500))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text layer")
	assert.Contains(t, err.Error(), "tesseract not found")

	got := Text(p, chars(500))
	assert.NotEmpty(t, got)
	assert.Contains(t, got, "extraction failed")
	assert.Contains(t, got, "tesseract not found")
}

func TestPDFPlainText_EmptyTextLayer(t *testing.T) {
	p := writeScannedPDF(t)

	got, err := pdfPlainText(p, chars(500))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(got))
}

func TestPDFHandler_Metadata_NoInfoDict(t *testing.T) {
	p := writeScannedPDF(t)
	assert.Empty(t, pdfHandler{}.Metadata(p))
}
