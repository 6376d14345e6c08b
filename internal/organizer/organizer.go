package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"renamer/internal/fileutil"
	"renamer/internal/logging"
	"renamer/internal/preflight"
	"renamer/internal/selection"
	"renamer/internal/services"
)

// LockFileName is created in the output root while a run executes.
const LockFileName = ".renamer.lock"

// Mode selects how sources reach their destinations.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// Options configures Execute.
type Options struct {
	OutputRoot string
	Mode       Mode
	Logger     *slog.Logger
}

// Action records what happened to one entry.
type Action string

const (
	ActionMoved     Action = "moved"
	ActionCopied    Action = "copied"
	ActionUnchanged Action = "unchanged"
)

// Outcome is the result of applying one plan entry.
type Outcome struct {
	Entry selection.Entry
	// Target is the absolute destination path.
	Target string
	Action Action
}

// Execute applies plan under opts.OutputRoot and returns the outcomes of the
// entries it completed.
func Execute(ctx context.Context, plan *selection.Result, opts Options) ([]Outcome, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "organizer"))
	if plan == nil || len(plan.Entries) == 0 {
		logger.Info("nothing to execute")
		return nil, nil
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeMove
	}
	if mode != ModeMove && mode != ModeCopy {
		return nil, services.Wrap(services.ErrConfiguration, "execute", "select mode", fmt.Sprintf("unknown mode %q", mode), nil)
	}

	root, err := filepath.Abs(strings.TrimSpace(opts.OutputRoot))
	if err != nil || strings.TrimSpace(opts.OutputRoot) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "execute", "resolve output root", opts.OutputRoot, err)
	}
	if check := preflight.PrepareOutputRoot(root); !check.Passed {
		return nil, services.Wrap(services.ErrValidation, "execute", "prepare output root", check.Detail, nil)
	}

	lockPath := filepath.Join(root, LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "execute", "acquire lock", lockPath, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "execute", "acquire lock", fmt.Sprintf("another run is using %s", root), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release output lock", "lock_release_failed",
				logging.String("lock", lockPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "the lock is released when the process exits"),
			)
		}
	}()

	targets, err := resolveTargets(root, plan.Entries)
	if err != nil {
		return nil, err
	}

	logger.Info("executing plan",
		logging.String("output_root", root),
		logging.String("mode", string(mode)),
		logging.Int("entries", len(plan.Entries)),
	)
	outcomes := make([]Outcome, 0, len(plan.Entries))
	for i, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcome, err := apply(entry, targets[i], mode)
		if err != nil {
			return outcomes, services.Wrap(services.ErrTransient, "execute", string(mode),
				fmt.Sprintf("%s -> %s", entry.RelSource, entry.Destination), err)
		}
		outcomes = append(outcomes, outcome)
		logger.Info("title placed",
			logging.String("source", entry.RelSource),
			logging.String("destination", entry.Destination),
			logging.String("action", string(outcome.Action)),
		)
	}
	return outcomes, nil
}

// resolveTargets maps every entry to an absolute path and fails, before any
// file is touched, when a destination is already occupied. A destination that
// is its own source is allowed and left alone.
func resolveTargets(root string, entries []selection.Entry) ([]string, error) {
	targets := make([]string, len(entries))
	var occupied []string
	for i, entry := range entries {
		target := filepath.Join(root, filepath.FromSlash(entry.Destination))
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, services.Wrap(services.ErrValidation, "execute", "resolve destination", entry.Destination, err)
		}
		targets[i] = target
		if target == filepath.Clean(entry.Source) {
			continue
		}
		exists, err := fileutil.Exists(target)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "execute", "check destination", target, err)
		}
		if exists {
			occupied = append(occupied, target)
		}
	}
	if len(occupied) > 0 {
		return nil, services.Wrap(services.ErrValidation, "execute", "check destinations",
			"refusing to overwrite existing files: "+strings.Join(occupied, ", "), fileutil.ErrDestinationExists)
	}
	return targets, nil
}

func apply(entry selection.Entry, target string, mode Mode) (Outcome, error) {
	outcome := Outcome{Entry: entry, Target: target}
	if target == filepath.Clean(entry.Source) {
		outcome.Action = ActionUnchanged
		return outcome, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return outcome, fmt.Errorf("create destination directory: %w", err)
	}
	switch mode {
	case ModeCopy:
		if err := fileutil.CopyFileVerified(entry.Source, target); err != nil {
			return outcome, err
		}
		outcome.Action = ActionCopied
	default:
		if err := fileutil.MoveFile(entry.Source, target); err != nil {
			return outcome, err
		}
		outcome.Action = ActionMoved
	}
	return outcome, nil
}
