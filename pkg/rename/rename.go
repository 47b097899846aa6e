// Package rename applies a proposed archive name on disk, or previews
// it without touching the filesystem.
package rename

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// Executor applies the final proposed name to an archive. The new file
// keeps the archive's directory: a proposed name never moves the
// archive elsewhere.
type Executor struct {
	// Auto applies the rename without asking. Without it the executor
	// asks for confirmation on a terminal, and only previews otherwise.
	Auto bool

	// In and Out carry the confirmation dialog. Default stdin/stdout.
	In  io.Reader
	Out io.Writer

	// IsTerminal reports whether a confirmation prompt can be shown.
	// Defaults to a real TTY check on stdin.
	IsTerminal func() bool

	Logger *slog.Logger
}

// New creates an Executor wired to the process terminal.
func New(auto bool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		Auto:   auto,
		In:     os.Stdin,
		Out:    os.Stdout,
		Logger: logger,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Apply renames archivePath to newName inside the same directory. The
// bool reports whether the rename actually happened; declining the
// confirmation or running non-interactively without Auto leaves the
// archive untouched and is not an error.
func (e *Executor) Apply(archivePath, newName string) (bool, error) {
	newName = filepath.Base(filepath.Clean(newName))
	if newName == "" || newName == "." || newName == string(filepath.Separator) {
		return false, fmt.Errorf("proposed name %q is not a file name", newName)
	}

	dst := filepath.Join(filepath.Dir(archivePath), newName)
	if dst == archivePath {
		e.Logger.Info("archive already has the proposed name", "name", newName)
		return false, nil
	}
	if _, err := os.Stat(dst); err == nil {
		return false, fmt.Errorf("destination already exists: %s", dst)
	}

	if !e.Auto {
		if e.IsTerminal == nil || !e.IsTerminal() {
			e.Logger.Info("not a terminal, proposal not applied", "new_name", newName)
			return false, nil
		}
		ok, err := e.confirm(filepath.Base(archivePath), newName)
		if err != nil {
			return false, err
		}
		if !ok {
			e.Logger.Info("rename declined", "new_name", newName)
			return false, nil
		}
	}

	if err := os.Rename(archivePath, dst); err != nil {
		return false, fmt.Errorf("renaming archive: %w", err)
	}
	e.Logger.Info("archive renamed", "from", filepath.Base(archivePath), "to", newName)
	return true, nil
}

func (e *Executor) confirm(oldName, newName string) (bool, error) {
	fmt.Fprintf(e.Out, "Rename %q -> %q? [y/N]: ", oldName, newName)

	reader := bufio.NewReader(e.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
