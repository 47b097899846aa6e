// Package inventory builds the content listing of an extracted archive
// and selects its most likely main document.
package inventory

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/unpack"
)

// Extractor unpacks an archive into a directory. Satisfied by
// unpack.Extract; tests substitute their own.
type Extractor func(ctx context.Context, archivePath, outputDir string) error

// Builder produces an ArchiveInventory from an archive on disk.
type Builder struct {
	extract Extractor
	logger  *slog.Logger
}

// NewBuilder creates a Builder using the default decompression capability.
func NewBuilder(logger *slog.Logger) *Builder {
	return NewBuilderWithExtractor(unpack.Extract, logger)
}

// NewBuilderWithExtractor creates a Builder with a custom extractor.
func NewBuilderWithExtractor(extract Extractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{extract: extract, logger: logger}
}

// Build extracts archivePath into a fresh temporary directory and walks
// the result. The returned cleanup removes the directory and must be
// called when the analysis run ends, whatever its outcome. Decompression
// failure is fatal: no partial inventory is returned.
func (b *Builder) Build(ctx context.Context, archivePath string) (*types.ArchiveInventory, func(), error) {
	tmpDir, err := os.MkdirTemp("", "arcname-*")
	if err != nil {
		return nil, nil, fmt.Errorf("creating extraction dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			b.logger.Warn("failed to remove extraction dir", "dir", tmpDir, "error", err)
		}
	}

	if err := b.extract(ctx, archivePath, tmpDir); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("extracting archive: %w", err)
	}

	inv, err := b.scan(tmpDir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	b.logger.Debug("inventory built",
		"archive", filepath.Base(archivePath),
		"entries", len(inv.Files),
		"metadata_files", len(inv.MetadataSnippets))
	return inv, cleanup, nil
}

// scan walks root and records every file and directory as a FileEntry,
// reading bounded snippets from recognized metadata files.
func (b *Builder) scan(root string) (*types.ArchiveInventory, error) {
	inv := &types.ArchiveInventory{
		MetadataSnippets: make(map[string]string),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		entry := types.FileEntry{
			Name:         rel,
			Kind:         types.KindDirectory,
			AbsolutePath: path,
		}
		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size := info.Size()
			entry.Kind = types.KindFile
			entry.Size = &size

			if isMetadataFile(d.Name()) {
				if snippet, ok := readSnippet(path); ok {
					inv.MetadataSnippets[d.Name()] = snippet
				}
			}
		}
		inv.Files = append(inv.Files, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking extracted tree: %w", err)
	}
	return inv, nil
}
