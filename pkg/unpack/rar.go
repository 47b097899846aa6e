package unpack

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nwaples/rardecode/v2"
)

func extractRar(ctx context.Context, archivePath, outputDir string) error {
	r, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening rar: %w", err)
	}
	defer r.Close()

	var total int64
	count := 0
	for {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading rar: %w", err)
		}

		count++
		if count > maxFiles {
			return fmt.Errorf("archive has too many members")
		}

		dst, err := securePath(outputDir, hdr.Name)
		if err != nil {
			return err
		}
		if hdr.IsDir {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			continue
		}

		total += hdr.UnPackedSize
		if total > maxTotalBytes {
			return fmt.Errorf("archive expands past %d bytes", int64(maxTotalBytes))
		}
		if err := writeMember(dst, r, hdr.UnPackedSize); err != nil {
			return fmt.Errorf("extracting %s: %w", hdr.Name, err)
		}
	}
}
