package rename

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testArchive(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "badly-named.zip")
	require.NoError(t, os.WriteFile(p, []byte("PK"), 0o644))
	return p
}

func TestApply_Auto(t *testing.T) {
	archive := testArchive(t)
	e := New(true, nil)

	applied, err := e.Apply(archive, "Иванов_роман.zip")
	require.NoError(t, err)
	assert.True(t, applied)

	assert.NoFileExists(t, archive)
	assert.FileExists(t, filepath.Join(filepath.Dir(archive), "Иванов_роман.zip"))
}

func TestApply_Confirmed(t *testing.T) {
	archive := testArchive(t)
	var out bytes.Buffer
	e := &Executor{
		In:         strings.NewReader("y\n"),
		Out:        &out,
		IsTerminal: func() bool { return true },
		Logger:     discardLogger(),
	}

	applied, err := e.Apply(archive, "named.zip")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Contains(t, out.String(), "badly-named.zip")
	assert.Contains(t, out.String(), "named.zip")
}

func TestApply_Declined(t *testing.T) {
	archive := testArchive(t)
	e := &Executor{
		In:         strings.NewReader("n\n"),
		Out:        &bytes.Buffer{},
		IsTerminal: func() bool { return true },
		Logger:     discardLogger(),
	}

	applied, err := e.Apply(archive, "named.zip")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.FileExists(t, archive)
}

func TestApply_NonInteractivePreviewsOnly(t *testing.T) {
	archive := testArchive(t)
	e := &Executor{
		IsTerminal: func() bool { return false },
		Logger:     discardLogger(),
	}

	applied, err := e.Apply(archive, "named.zip")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.FileExists(t, archive)
}

func TestApply_StaysInDirectory(t *testing.T) {
	archive := testArchive(t)
	e := New(true, nil)

	applied, err := e.Apply(archive, "../../escape.zip")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.FileExists(t, filepath.Join(filepath.Dir(archive), "escape.zip"))
}

func TestApply_DestinationExists(t *testing.T) {
	archive := testArchive(t)
	taken := filepath.Join(filepath.Dir(archive), "taken.zip")
	require.NoError(t, os.WriteFile(taken, []byte("x"), 0o644))

	_, err := New(true, nil).Apply(archive, "taken.zip")
	assert.Error(t, err)
	assert.FileExists(t, archive)
}

func TestApply_SameName(t *testing.T) {
	archive := testArchive(t)

	applied, err := New(true, nil).Apply(archive, "badly-named.zip")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.FileExists(t, archive)
}
