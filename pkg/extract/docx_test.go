package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip materializes a zip file with the given member contents.
func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range members {
		mw, err := w.Create(name)
		require.NoError(t, err)
		_, err = mw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

const docxDocument = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Годовой отчёт за 2024 год.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Раздел первый: финансы.</w:t></w:r></w:p>
  </w:body>
</w:document>`

const docxCoreProps = `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
    xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Годовой отчёт</dc:title>
  <dc:creator>Иванов</dc:creator>
  <dc:subject></dc:subject>
</cp:coreProperties>`

func TestDocxHandler_ExtractText(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.docx")
	writeZip(t, p, map[string]string{
		"word/document.xml": docxDocument,
		"docProps/core.xml": docxCoreProps,
	})

	h := docxHandler{}

	got, err := h.ExtractText(p, chars(1000))
	require.NoError(t, err)
	assert.Contains(t, got, "Годовой отчёт за 2024 год.")
	assert.Contains(t, got, "Раздел первый: финансы.")

	bounded, err := h.ExtractText(p, chars(7))
	require.NoError(t, err)
	assert.Equal(t, 7, len([]rune(bounded)))
}

func TestDocxHandler_MissingDocumentXML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "odd.docx")
	writeZip(t, p, map[string]string{"other.xml": "<x/>"})

	_, err := docxHandler{}.ExtractText(p, chars(100))
	assert.Error(t, err)
}

func TestDocxHandler_Metadata(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.docx")
	writeZip(t, p, map[string]string{
		"word/document.xml": docxDocument,
		"docProps/core.xml": docxCoreProps,
	})

	meta := docxHandler{}.Metadata(p)
	assert.Equal(t, "Годовой отчёт", meta["title"])
	assert.Equal(t, "Иванов", meta["author"])
	assert.NotContains(t, meta, "subject")
}

func TestDocxHandler_CorruptContainer(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.docx")
	require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o644))

	_, err := docxHandler{}.ExtractText(p, chars(100))
	assert.Error(t, err)
	assert.Empty(t, docxHandler{}.Metadata(p))
}
