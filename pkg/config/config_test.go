package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.Equal(t, 10000, cfg.Limits.MaxFiles)
	assert.Empty(t, cfg.DocumentExtensions)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcname.yaml")
	yaml := `
model: gemini-2.5-pro
timeout_seconds: 120
document_extensions:
  - pdf
  - fb2
metadata_patterns:
  - "readme.*"
limits:
  max_files: 500
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 120, cfg.TimeoutSeconds)
	assert.Equal(t, []string{"pdf", "fb2"}, cfg.DocumentExtensions)
	assert.Equal(t, []string{"readme.*"}, cfg.MetadataPatterns)
	assert.Equal(t, 500, cfg.Limits.MaxFiles)

	// Unset fields keep their defaults.
	assert.Equal(t, int64(256), cfg.Limits.MaxFileMB)
	assert.Equal(t, int64(2048), cfg.Limits.MaxTotalMB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
