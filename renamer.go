// Package renamer proposes content-aware names for poorly-named
// compressed archives.
//
// An analysis run unpacks the archive into a temporary directory, builds
// an inventory of its contents, and negotiates with an external decision
// oracle: the oracle either proposes a name immediately or asks for a
// bounded text extraction from one file inside the archive, after which
// it must commit to a name.
//
// # Basic Usage
//
// Create an analyzer and analyze an archive:
//
//	analyzer, err := renamer.NewAnalyzer(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := analyzer.Analyze(ctx, "downloads/badly-named.zip")
//	if result.Outcome != renamer.OutcomeFailed {
//	    fmt.Println("proposed:", result.NewName)
//	}
//
// By default proposals are only surfaced; pass WithAutoApply to rename
// the archive on disk without confirmation.
package renamer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/config"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/inventory"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/oracle"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/protocol"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/rename"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/unpack"
)

// Re-export commonly used types for convenience.
// Users can import just the module root without subpackages.
type (
	// Result is the terminal state of one analysis run.
	Result = protocol.Result

	// Outcome classifies how a run terminated.
	Outcome = protocol.Outcome

	// ArchiveInventory is the content listing built from an archive.
	ArchiveInventory = types.ArchiveInventory

	// FileEntry is one inventoried item.
	FileEntry = types.FileEntry
)

// Re-export outcome constants.
const (
	OutcomeRenamed  = protocol.OutcomeRenamed
	OutcomeProposed = protocol.OutcomeProposed
	OutcomeFailed   = protocol.OutcomeFailed
)

// Analyzer analyzes archives one at a time. It holds no state between
// archives; each Analyze call works from a fresh temporary directory.
type Analyzer struct {
	oracle  oracle.Oracle
	builder *inventory.Builder
	exec    *rename.Executor
	logger  *slog.Logger
}

// analyzerConfig holds construction options.
type analyzerConfig struct {
	oracle    oracle.Oracle
	cfg       config.Config
	autoApply bool
	preview   bool
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

// WithOracle uses a custom decision oracle instead of the default
// Gemini client. Tests use this to script oracle behavior.
func WithOracle(o oracle.Oracle) Option {
	return func(c *analyzerConfig) {
		c.oracle = o
	}
}

// WithConfig applies a loaded configuration: oracle model, call
// timeout, document-extension set, metadata patterns, extraction caps.
func WithConfig(cfg config.Config) Option {
	return func(c *analyzerConfig) {
		c.cfg = cfg
	}
}

// WithAutoApply renames archives on disk without confirmation. Without
// it the analyzer asks on a terminal and only previews otherwise.
func WithAutoApply() Option {
	return func(c *analyzerConfig) {
		c.autoApply = true
	}
}

// WithPreviewOnly surfaces proposals without ever touching the
// filesystem, terminal or not.
func WithPreviewOnly() Option {
	return func(c *analyzerConfig) {
		c.preview = true
	}
}

// WithLogger sets the analyzer logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *analyzerConfig) {
		c.logger = l
	}
}

// NewAnalyzer creates an Analyzer with the given options.
//
// Without WithOracle, a Gemini client is constructed from the
// configured model and the GEMINI_API_KEY environment variable, wrapped
// so transport failures synthesize a fallback decision instead of
// killing the run.
func NewAnalyzer(ctx context.Context, opts ...Option) (*Analyzer, error) {
	ac := &analyzerConfig{cfg: config.Default()}
	for _, opt := range opts {
		opt(ac)
	}
	if ac.logger == nil {
		ac.logger = slog.Default()
	}

	inventory.SetDocumentExtensions(ac.cfg.DocumentExtensions)
	inventory.SetMetadataPatterns(ac.cfg.MetadataPatterns)
	unpack.SetLimits(ac.cfg.Limits.MaxFiles,
		ac.cfg.Limits.MaxFileMB<<20, ac.cfg.Limits.MaxTotalMB<<20)

	o := ac.oracle
	if o == nil {
		gemini, err := oracle.NewGemini(ctx, oracle.GeminiConfig{
			Model:   ac.cfg.Model,
			Timeout: ac.cfg.Timeout(),
			Logger:  ac.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating oracle client: %w", err)
		}
		o = oracle.WithFallback(gemini)
	}

	var exec *rename.Executor
	if !ac.preview {
		exec = rename.New(ac.autoApply, ac.logger)
	}

	return &Analyzer{
		oracle:  o,
		builder: inventory.NewBuilder(ac.logger),
		exec:    exec,
		logger:  ac.logger,
	}, nil
}

// Analyze runs the full decision protocol for one archive. Every exit
// path produces a Result; a failed run reports its reason in Result.Err
// rather than being returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, archivePath string) Result {
	inv, cleanup, err := a.builder.Build(ctx, archivePath)
	if err != nil {
		a.logger.Error("inventory build failed", "archive", archivePath, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	defer cleanup()

	opts := []protocol.Option{protocol.WithLogger(a.logger)}
	if a.exec != nil {
		opts = append(opts, protocol.WithApplier(func(newName string) (bool, error) {
			return a.exec.Apply(archivePath, newName)
		}))
	}
	engine := protocol.New(a.oracle, opts...)
	return engine.Run(ctx, archivePath, inv)
}
