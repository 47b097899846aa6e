package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// treeExtractor pretends to unpack an archive by materializing the
// given relative-path-to-content mapping in the output directory.
func treeExtractor(tree map[string]string) Extractor {
	return func(ctx context.Context, archivePath, outputDir string) error {
		for rel, content := range tree {
			dst := filepath.Join(outputDir, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	tree := map[string]string{
		"book.fb2":         strings.Repeat("проза ", 100),
		"covers/front.jpg": "jpegdata",
		"readme.txt":       "Автор: Иванов",
	}
	b := NewBuilderWithExtractor(treeExtractor(tree), nil)

	inv, cleanup, err := b.Build(context.Background(), "novel.zip")
	require.NoError(t, err)
	defer cleanup()

	byName := map[string]types.FileEntry{}
	for _, e := range inv.Files {
		byName[e.Name] = e
	}

	require.Contains(t, byName, "book.fb2")
	require.Contains(t, byName, "covers")
	require.Contains(t, byName, "covers/front.jpg")

	assert.Equal(t, types.KindDirectory, byName["covers"].Kind)
	assert.Nil(t, byName["covers"].Size)

	entry := byName["book.fb2"]
	assert.Equal(t, types.KindFile, entry.Kind)
	require.NotNil(t, entry.Size)
	assert.Equal(t, int64(len(tree["book.fb2"])), *entry.Size)
	assert.FileExists(t, entry.AbsolutePath)

	// Exactly the on-disk tree, nothing more.
	assert.Len(t, inv.Files, 4)
}

func TestBuild_MetadataSnippets(t *testing.T) {
	tree := map[string]string{
		"book.pdf":        "%PDF-1.4",
		"readme.txt":      "Автор: Иванов",
		"FILE_ID.DIZ":     "scene release",
		"notes/about.nfo": "nfo text",
		"chapter1.txt":    "not metadata",
	}
	b := NewBuilderWithExtractor(treeExtractor(tree), nil)

	inv, cleanup, err := b.Build(context.Background(), "novel.zip")
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "Автор: Иванов", inv.MetadataSnippets["readme.txt"])
	assert.Contains(t, inv.MetadataSnippets, "FILE_ID.DIZ")
	assert.Contains(t, inv.MetadataSnippets, "about.nfo")
	assert.NotContains(t, inv.MetadataSnippets, "chapter1.txt")
}

func TestBuild_CleanupRemovesDir(t *testing.T) {
	b := NewBuilderWithExtractor(treeExtractor(map[string]string{"a.txt": "hello"}), nil)

	inv, cleanup, err := b.Build(context.Background(), "a.zip")
	require.NoError(t, err)
	require.NotEmpty(t, inv.Files)

	root := filepath.Dir(inv.Files[0].AbsolutePath)
	require.DirExists(t, root)
	cleanup()
	assert.NoDirExists(t, root)
}

func TestBuild_ExtractionFailureIsFatal(t *testing.T) {
	boom := errors.New("unsupported format")
	b := NewBuilderWithExtractor(func(ctx context.Context, _, _ string) error {
		return boom
	}, nil)

	_, _, err := b.Build(context.Background(), "broken.rar")
	require.ErrorIs(t, err, boom)
}

func TestReadSnippet_Encodings(t *testing.T) {
	dir := t.TempDir()

	t.Run("cp1251", func(t *testing.T) {
		encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte("Автор: Иванов"))
		require.NoError(t, err)
		p := filepath.Join(dir, "readme_1251.txt")
		require.NoError(t, os.WriteFile(p, encoded, 0o644))

		got, ok := readSnippet(p)
		require.True(t, ok)
		assert.Equal(t, "Автор: Иванов", got)
	})

	t.Run("cp866", func(t *testing.T) {
		// 'Ш' is cp866 0x98, which cp1251 leaves undefined: the cp1251
		// attempt must be rejected rather than stored as mojibake.
		encoded, err := charmap.CodePage866.NewEncoder().Bytes([]byte("Автор: Шишкин"))
		require.NoError(t, err)
		p := filepath.Join(dir, "readme_866.txt")
		require.NoError(t, os.WriteFile(p, encoded, 0o644))

		got, ok := readSnippet(p)
		require.True(t, ok)
		assert.Equal(t, "Автор: Шишкин", got)
	})

	t.Run("utf8 passthrough", func(t *testing.T) {
		p := filepath.Join(dir, "readme_utf8.txt")
		require.NoError(t, os.WriteFile(p, []byte("Автор: Иванов"), 0o644))

		got, ok := readSnippet(p)
		require.True(t, ok)
		assert.Equal(t, "Автор: Иванов", got)
	})

	t.Run("bounded to snippet limit", func(t *testing.T) {
		p := filepath.Join(dir, "readme_long.txt")
		require.NoError(t, os.WriteFile(p, []byte(strings.Repeat("ы", 3000)), 0o644))

		got, ok := readSnippet(p)
		require.True(t, ok)
		assert.Len(t, []rune(got), snippetLimit)
	})
}

func TestIsMetadataFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"readme.txt", true},
		{"README.TXT", true},
		{"file_id.diz", true},
		{"release.nfo", true},
		{"read_me_first.txt", true},
		{"chapter1.txt", false},
		{"book.fb2", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isMetadataFile(tt.name), tt.name)
	}
}
