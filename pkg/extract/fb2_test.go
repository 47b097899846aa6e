package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fb2Sample = `<?xml version="1.0" encoding="utf-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0">
  <description>
    <title-info>
      <genre>prose</genre>
      <author>
        <first-name>Иван</first-name>
        <last-name>Иванов</last-name>
      </author>
      <book-title>Роман о жизни</book-title>
      <lang>ru</lang>
      <date>1999</date>
    </title-info>
  </description>
  <body>
    <section>
      <p>Была тёмная осенняя ночь.</p>
      <p>Дождь стучал по крышам старого города.</p>
    </section>
  </body>
</FictionBook>`

func writeFB2(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "book.fb2")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestFB2Handler_ExtractText(t *testing.T) {
	p := writeFB2(t, fb2Sample)
	h := fb2Handler{}

	got, err := h.ExtractText(p, chars(500))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Роман о жизни"))
	assert.Contains(t, got, "Была тёмная осенняя ночь.")
	assert.Contains(t, got, "Дождь стучал по крышам старого города.")

	bounded, err := h.ExtractText(p, chars(13))
	require.NoError(t, err)
	assert.Equal(t, "Роман о жизни", bounded)
}

func TestFB2Handler_MalformedXMLFallsBackToRaw(t *testing.T) {
	p := writeFB2(t, "<FictionBook><body>обрыв докум")
	got, err := fb2Handler{}.ExtractText(p, chars(100))
	require.NoError(t, err)
	assert.Contains(t, got, "обрыв докум")
}

func TestFB2Handler_Metadata(t *testing.T) {
	p := writeFB2(t, fb2Sample)
	meta := fb2Handler{}.Metadata(p)

	assert.Equal(t, "Роман о жизни", meta["title"])
	assert.Equal(t, "Иван Иванов", meta["author"])
	assert.Equal(t, "prose", meta["genre"])
	assert.Equal(t, "ru", meta["language"])
	assert.Equal(t, "1999", meta["date"])
}

func TestFB2Handler_MetadataOnMalformedXML(t *testing.T) {
	p := writeFB2(t, "not xml")
	assert.Empty(t, fb2Handler{}.Metadata(p))
}
