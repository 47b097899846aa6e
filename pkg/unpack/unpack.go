// Package unpack extracts compressed archives into a directory tree.
//
// It is the decompression capability consumed by the inventory builder:
// a failed extraction is fatal to an analysis run, there is no partial
// recovery.
package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported reports an archive extension no extractor understands.
var ErrUnsupported = errors.New("unsupported archive format")

// Limits guard against archive bombs during extraction. Fixed after
// startup.
var (
	maxFiles      = 10000
	maxFileBytes  = int64(256 << 20) // per member
	maxTotalBytes = int64(2 << 30)   // whole archive
)

// SetLimits replaces the extraction caps. Called at most once, at
// startup, before any analysis run. Non-positive values keep the
// current cap.
func SetLimits(files int, fileBytes, totalBytes int64) {
	if files > 0 {
		maxFiles = files
	}
	if fileBytes > 0 {
		maxFileBytes = fileBytes
	}
	if totalBytes > 0 {
		maxTotalBytes = totalBytes
	}
}

// Extract unpacks archivePath into outputDir, which must already exist.
// Supported: zip, 7z, tar, tar.gz, tgz, rar.
func Extract(ctx context.Context, archivePath, outputDir string) error {
	name := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return extractZip(ctx, archivePath, outputDir)
	case strings.HasSuffix(name, ".7z"):
		return extract7z(ctx, archivePath, outputDir)
	case strings.HasSuffix(name, ".rar"):
		return extractRar(ctx, archivePath, outputDir)
	case strings.HasSuffix(name, ".tar"):
		return extractTar(ctx, archivePath, outputDir, false)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return extractTar(ctx, archivePath, outputDir, true)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(archivePath))
	}
}

// securePath resolves a member name inside outputDir, rejecting absolute
// paths and parent-directory traversal (zip-slip).
func securePath(outputDir, memberName string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(memberName))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("suspicious archive member path: %s", memberName)
	}
	return filepath.Join(outputDir, clean), nil
}

// writeMember copies one member to disk, creating parent directories.
func writeMember(dst string, r io.Reader, size int64) error {
	if size > maxFileBytes {
		return fmt.Errorf("archive member too large: %d bytes", size)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, io.LimitReader(r, maxFileBytes))
	return err
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
