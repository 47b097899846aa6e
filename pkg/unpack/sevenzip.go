package unpack

import (
	"context"
	"fmt"
	"os"

	"github.com/bodgit/sevenzip"
)

func extract7z(ctx context.Context, archivePath, outputDir string) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening 7z: %w", err)
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
		info := f.FileInfo()
		if info.IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			continue
		}

		total += info.Size()
		if total > maxTotalBytes {
			return fmt.Errorf("archive expands past %d bytes", int64(maxTotalBytes))
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening member %s: %w", f.Name, err)
		}
		err = writeMember(dst, rc, info.Size())
		rc.Close()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}
