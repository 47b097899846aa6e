package unpack

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
)

func extractZip(ctx context.Context, archivePath, outputDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	if len(r.File) > maxFiles {
		return fmt.Errorf("archive has too many members: %d", len(r.File))
	}

	var total int64
	for _, f := range r.File {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		dst, err := securePath(outputDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			continue
		}

		total += int64(f.UncompressedSize64)
		if total > maxTotalBytes {
			return fmt.Errorf("archive expands past %d bytes", int64(maxTotalBytes))
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening member %s: %w", f.Name, err)
		}
		err = writeMember(dst, rc, int64(f.UncompressedSize64))
		rc.Close()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractTar(ctx context.Context, archivePath, outputDir string, gzipped bool) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	tr := tar.NewReader(reader)
	var total int64
	count := 0
	for {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}

		count++
		if count > maxFiles {
			return fmt.Errorf("archive has too many members")
		}

		dst, err := securePath(outputDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			total += hdr.Size
			if total > maxTotalBytes {
				return fmt.Errorf("archive expands past %d bytes", int64(maxTotalBytes))
			}
			if err := writeMember(dst, tr, hdr.Size); err != nil {
				return fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
		}
	}
}
