package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerHandler_ListsZipMembers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested.zip")
	writeZip(t, p, map[string]string{
		"src/main.c":  "int main(void) { return 0; }",
		"Makefile":    "all:",
		"LICENSE.txt": "MIT",
	})

	got, err := containerHandler{}.ExtractText(p, chars(2000))
	require.NoError(t, err)
	assert.Contains(t, got, "zip archive with 3 members")
	assert.Contains(t, got, "src/main.c")
}

func TestContainerHandler_NonZipNotListed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested.rar")
	require.NoError(t, os.WriteFile(p, []byte("Rar!"), 0o644))

	got, err := containerHandler{}.ExtractText(p, chars(2000))
	require.NoError(t, err)
	assert.Contains(t, got, "nested rar archive")
}

func TestContainerHandler_CorruptZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(p, []byte("definitely not a zip"), 0o644))

	_, err := containerHandler{}.ExtractText(p, chars(2000))
	assert.Error(t, err)
}

func TestOCRUnavailableMessage(t *testing.T) {
	if ocrAvailable() {
		t.Skip("tesseract installed, capability-missing path not reachable")
	}

	_, err := ocrImage("whatever.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract not found")
}
