package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"renamer/internal/config"
	"renamer/internal/discovery"
	"renamer/internal/logging"
	"renamer/internal/media/ffprobe"
	"renamer/internal/organizer"
	"renamer/internal/preflight"
	"renamer/internal/probecache"
	"renamer/internal/selection"
	"renamer/internal/services"
)

// runDeps holds the collaborators tests replace.
type runDeps struct {
	newProber    func(cfg *config.Config) discovery.Prober
	preflight    func(cfg *config.Config, inputRoot, outputRoot string) error
	checkFFprobe func(binary string) preflight.Result
	isTerminal   func(w io.Writer) bool
}

func defaultRunDeps() runDeps {
	return runDeps{
		newProber: func(cfg *config.Config) discovery.Prober {
			return ffprobe.NewProber(cfg.Probe.Binary, time.Duration(cfg.Probe.TimeoutSeconds)*time.Second)
		},
		preflight: func(cfg *config.Config, inputRoot, outputRoot string) error {
			return preflight.Err(preflight.RunAll(cfg, inputRoot, outputRoot))
		},
		checkFFprobe: preflight.CheckFFprobe,
		isTerminal:   writerIsTerminal,
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// apply layers explicitly set flags over cfg and revalidates the result.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	if set("confidence") {
		cfg.Selection.Confidence = f.confidence
	}
	if set("min-duration") {
		cfg.Selection.MinDuration = f.minDuration
	}
	if set("max-duration") {
		cfg.Selection.MaxDuration = f.maxDuration
	}
	if set("input-regex") {
		cfg.Naming.InputRegex = f.inputRegex
	}
	if set("output-format") {
		cfg.Naming.OutputFormat = f.outputFormat
	}
	if set("full-extension") {
		cfg.Naming.FullExtension = f.fullExt
	}
	if set("exclude") {
		cfg.Selection.Excludes = append(append([]string(nil), cfg.Selection.Excludes...), f.excludes...)
	}
	if set("exclude-after") {
		cfg.Selection.ExcludeAfter = f.excludeAfter
	}
	if set("offset") {
		cfg.Selection.Offset = f.offset
	}
	if set("expect") {
		cfg.Selection.Expect = f.expect
	}
	if set("copy") && f.copy {
		cfg.Execute.Mode = config.ModeCopy
	}
	if set("workers") {
		cfg.Probe.Workers = f.workers
	}
	if f.noCache {
		cfg.ProbeCache.Enabled = false
	}
	if set("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if err := cfg.Normalize(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "apply flags", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "apply flags", "", err)
	}
	return nil
}

func (f *runFlags) outputRoot() (string, error) {
	if strings.TrimSpace(f.output) == "" {
		return "", nil
	}
	root, err := config.ExpandPath(strings.TrimSpace(f.output))
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "config", "resolve output root", f.output, err)
	}
	return root, nil
}

func runRename(cmd *cobra.Command, cc *commandContext, flags *runFlags, deps runDeps, inputArg string) error {
	base, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *base
	cfg.Selection.Excludes = append([]string(nil), base.Selection.Excludes...)
	cfg.Discovery.Extensions = append([]string(nil), base.Discovery.Extensions...)
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Writer:   cmd.ErrOrStderr(),
		FilePath: cfg.Logging.File,
	})
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "build logger", "", err)
	}

	runID := uuid.NewString()
	ctx := services.WithRunID(cmd.Context(), runID)
	runLogger := logging.WithContext(ctx, logger)
	if cc.configSeen {
		runLogger.Debug("configuration loaded", logging.String("path", cc.configPath))
	}

	inputRoot, err := filepath.Abs(inputArg)
	if err != nil {
		return services.Wrap(services.ErrValidation, "discover", "resolve input root", inputArg, err)
	}
	outputRoot, err := flags.outputRoot()
	if err != nil {
		return err
	}
	executing := outputRoot != "" && !flags.dryRun

	planner, err := newPlanner(&cfg, logging.WithContext(services.WithStage(ctx, "plan"), logger))
	if err != nil {
		return err
	}

	preflightOutput := ""
	if executing {
		preflightOutput = outputRoot
	}
	if err := deps.preflight(&cfg, inputRoot, preflightOutput); err != nil {
		return err
	}

	candidates, err := discovery.Walk(ctx, inputRoot, discovery.Options{
		Extensions:    cfg.Discovery.Extensions,
		IncludeHidden: cfg.Discovery.IncludeHidden,
	})
	if err != nil {
		return err
	}
	runLogger.Info("discovered titles",
		logging.String("input_root", inputRoot),
		logging.Int("files", len(candidates)),
	)

	probed, err := probeCandidates(ctx, &cfg, deps, logger, candidates)
	if err != nil {
		return err
	}

	plan, err := planner.Plan(probed)
	if err != nil {
		return err
	}
	if err := plan.CheckExpected(cfg.Selection.Expect); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !executing {
		r := reporter{out: out, outputRoot: outputRoot, mode: cfg.Execute.Mode}
		if flags.script || !deps.isTerminal(out) {
			return r.script(plan)
		}
		return r.table(plan)
	}

	outcomes, err := organizer.Execute(services.WithStage(ctx, "execute"), plan, organizer.Options{
		OutputRoot: outputRoot,
		Mode:       organizer.Mode(cfg.Execute.Mode),
		Logger:     logger,
	})
	r := reporter{out: out, outputRoot: outputRoot, mode: cfg.Execute.Mode}
	if reportErr := r.outcomes(outcomes, deps.isTerminal(out)); reportErr != nil && err == nil {
		err = reportErr
	}
	return err
}

func newPlanner(cfg *config.Config, logger *slog.Logger) (*selection.Planner, error) {
	minimum, err := cfg.MinimumSeconds()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "min duration", "", err)
	}
	maximum, err := cfg.MaximumSeconds()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "max duration", "", err)
	}
	return selection.NewPlanner(selection.Options{
		Confidence:     cfg.Selection.Confidence,
		MinimumSeconds: minimum,
		MaximumSeconds: maximum,
		InputRegex:     cfg.Naming.InputRegex,
		OutputFormat:   cfg.Naming.OutputFormat,
		Excludes:       cfg.Selection.Excludes,
		ExcludeAfter:   cfg.Selection.ExcludeAfter,
		Offset:         cfg.Selection.Offset,
		FullExtension:  cfg.Naming.FullExtension,
	}, logger)
}

func probeCandidates(ctx context.Context, cfg *config.Config, deps runDeps, logger *slog.Logger, candidates []selection.Candidate) ([]selection.Candidate, error) {
	probeCtx := services.WithStage(ctx, "probe")
	probeLogger := logging.WithContext(probeCtx, logger)

	opts := discovery.ProbeOptions{Workers: cfg.Probe.Workers, Logger: probeLogger}
	if cfg.ProbeCache.Enabled {
		store, err := probecache.Open(probeCtx, cfg.ProbeCache.Path)
		if err != nil {
			logging.WarnWithContext(probeLogger, "probe cache unavailable", "probe_cache_open_failed",
				logging.String("path", cfg.ProbeCache.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "every title is probed"),
				logging.String(logging.FieldErrorHint, "delete the cache file or run with --no-cache"),
			)
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					probeLogger.Debug("probe cache close failed", logging.Error(err))
				}
			}()
			opts.Cache = store
			probeLogger.Debug("probe cache opened", logging.String("path", store.Path()))
		}
	}

	started := time.Now()
	probed, stats, err := discovery.ProbeAll(probeCtx, candidates, deps.newProber(cfg), opts)
	if err != nil {
		return nil, err
	}
	probeLogger.Debug("probe stage finished",
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("cache_hits", stats.CacheHits),
	)
	if stats.Failed > 0 && stats.Failed == len(candidates) {
		logging.WarnWithContext(probeLogger, "no title could be probed", "probe_all_failed",
			logging.Int("files", len(candidates)),
			logging.String(logging.FieldErrorHint, fmt.Sprintf("check that %s can read the input files", cfg.Probe.Binary)),
		)
	}
	return probed, nil
}
