// Package protocol runs the negotiation loop with the decision oracle:
// send a prompt, validate the structured reply, and either finish with a
// rename proposal or perform one bounded extraction round and ask again.
package protocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/extract"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/inventory"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/oracle"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/prompt"
	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// maxExtraRounds bounds how many need_more_data rounds one analysis may
// honor. The follow-up prompt instructs the oracle to commit to a final
// name, and the engine enforces the same limit with a counter: a second
// need_more_data reply terminates the run instead of recursing.
const maxExtraRounds = 1

// ErrNoSuitableFile reports that the oracle's target could not be
// resolved and the inventory offers no fallback document.
var ErrNoSuitableFile = errors.New("no suitable file in archive for extraction")

// Outcome classifies how a run terminated.
type Outcome string

const (
	// OutcomeRenamed: a name was proposed and applied to the archive.
	OutcomeRenamed Outcome = "renamed"

	// OutcomeProposed: a name was proposed but not applied.
	OutcomeProposed Outcome = "proposed"

	// OutcomeFailed: the run ended without a usable proposal.
	OutcomeFailed Outcome = "failed"
)

// Result is the terminal state of one analysis run. Failures are data,
// not panics: every exit path of the engine produces a Result.
type Result struct {
	Outcome Outcome
	NewName string
	Rounds  int // need_more_data rounds honored
	Err     error
}

// Applier receives the final proposed name and applies (or previews) it,
// reporting whether the archive was actually renamed. The CLI wires the
// interactive confirmation and the filesystem rename through this.
type Applier func(newName string) (applied bool, err error)

// Engine drives the decision protocol for one archive at a time. It
// holds no state across runs.
type Engine struct {
	oracle      oracle.Oracle
	apply       Applier
	extractText func(path string, req types.ExtractionRequest) string
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithApplier sets the rename application callback. Without one,
// proposals are surfaced but never applied.
func WithApplier(a Applier) Option {
	return func(e *Engine) { e.apply = a }
}

// WithExtractor overrides the text-extraction function. Tests use this
// to avoid real format parsing.
func WithExtractor(f func(path string, req types.ExtractionRequest) string) Option {
	return func(e *Engine) { e.extractText = f }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates a protocol engine around the given oracle.
func New(o oracle.Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:      o,
		extractText: extract.Text,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full negotiation for one archive. The inventory is
// borrowed for the duration of the call and not retained.
func (e *Engine) Run(ctx context.Context, archivePath string, inv *types.ArchiveInventory) Result {
	initial := prompt.Initial(archivePath, inv)
	reply, err := e.oracle.Complete(ctx, initial)
	if err != nil {
		return e.fail(0, fmt.Errorf("initial oracle call: %w", err))
	}

	rounds := 0
	for {
		decision, err := types.ParseDecision(reply)
		if err != nil {
			var unknown *types.ErrUnknownDecision
			if errors.As(err, &unknown) {
				e.logger.Warn("oracle returned unknown decision", "tag", unknown.Tag)
			} else {
				e.logger.Error("unparsable oracle reply", "error", err, "reply", preview(reply))
			}
			return e.fail(rounds, err)
		}

		switch decision.Kind {
		case types.DecisionRename:
			return e.finish(rounds, decision.NewName)

		case types.DecisionNeedMoreData:
			if rounds >= maxExtraRounds {
				err := fmt.Errorf("oracle requested more data after the follow-up round")
				e.logger.Warn("extraction round budget exhausted", "target", decision.Target)
				return e.fail(rounds, err)
			}

			target, substituted, ok := inventory.ResolveTarget(inv, decision.Target)
			if !ok {
				e.logger.Error("target resolution failed", "target", decision.Target)
				return e.fail(rounds, ErrNoSuitableFile)
			}
			if substituted {
				e.logger.Info("oracle target not in inventory, using main document",
					"requested", decision.Target, "substituted", target.Name)
			}

			extracted := e.extractText(target.AbsolutePath, decision.Parameters)
			e.logger.Debug("extracted text for follow-up",
				"file", target.Name, "chars", len([]rune(extracted)))

			followup := prompt.Followup(archivePath, target.Name, extracted)
			reply, err = e.oracle.Complete(ctx, followup)
			if err != nil {
				return e.fail(rounds, fmt.Errorf("follow-up oracle call: %w", err))
			}
			rounds++
		}
	}
}

// finish applies the proposal and produces the terminal success state.
func (e *Engine) finish(rounds int, newName string) Result {
	e.logger.Info("oracle proposed archive name", "new_name", newName)
	if e.apply == nil {
		return Result{Outcome: OutcomeProposed, NewName: newName, Rounds: rounds}
	}
	applied, err := e.apply(newName)
	if err != nil {
		e.logger.Error("applying rename failed", "new_name", newName, "error", err)
		return Result{Outcome: OutcomeProposed, NewName: newName, Rounds: rounds, Err: err}
	}
	if !applied {
		return Result{Outcome: OutcomeProposed, NewName: newName, Rounds: rounds}
	}
	return Result{Outcome: OutcomeRenamed, NewName: newName, Rounds: rounds}
}

func (e *Engine) fail(rounds int, err error) Result {
	return Result{Outcome: OutcomeFailed, Rounds: rounds, Err: err}
}

// preview bounds reply text quoted into logs.
func preview(s string) string {
	const limit = 500
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s
}
