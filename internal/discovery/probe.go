package discovery

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"renamer/internal/logging"
	"renamer/internal/probecache"
	"renamer/internal/selection"
)

// DefaultWorkers is the probe concurrency used when none is configured.
const DefaultWorkers = 4

// Prober measures the runtime of one file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Cache stores durations across runs.
type Cache interface {
	Lookup(ctx context.Context, key probecache.Key) (float64, bool, error)
	Put(ctx context.Context, key probecache.Key, seconds float64) error
}

// ProbeOptions configures ProbeAll.
type ProbeOptions struct {
	Workers int
	// Cache is optional.
	Cache  Cache
	Logger *slog.Logger
}

// ProbeStats summarizes a ProbeAll call.
type ProbeStats struct {
	Probed    int
	CacheHits int
	Failed    int
}

// ProbeAll returns a copy of candidates with durations filled in. A failed
// probe is recorded on its candidate and does not stop the others; only
// context cancellation aborts the call.
func ProbeAll(ctx context.Context, candidates []selection.Candidate, prober Prober, opts ProbeOptions) ([]selection.Candidate, ProbeStats, error) {
	logger := logging.NewComponentLogger(opts.Logger, "probe")
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]selection.Candidate, len(candidates))
	var probed, hits, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, cacheable := cacheKey(c, opts.Cache)
			if cacheable {
				seconds, ok, err := opts.Cache.Lookup(gctx, key)
				switch {
				case err != nil:
					logging.WarnWithContext(logger, "probe cache lookup failed", "probe_cache_error",
						logging.String("path", c.RelPath),
						logging.Error(err),
						logging.String(logging.FieldImpact, "file is probed again"),
					)
				case ok:
					hits.Add(1)
					out[i] = c.WithDuration(seconds)
					logger.Debug("probe cache hit", logging.String("path", c.RelPath), logging.Float64("seconds", seconds))
					return nil
				}
			}

			seconds, err := prober.Probe(gctx, c.Path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
					return ctxErr
				}
				failed.Add(1)
				out[i] = c.WithProbeError(err)
				logging.WarnWithContext(logger, "probe failed", "probe_failed",
					logging.String("path", c.RelPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the file with ffprobe"),
					logging.String(logging.FieldImpact, "title is rejected as probe_failed"),
				)
				return nil
			}
			probed.Add(1)
			out[i] = c.WithDuration(seconds)
			logger.Debug("probed", logging.String("path", c.RelPath), logging.Float64("seconds", seconds))
			if cacheable {
				if err := opts.Cache.Put(gctx, key, seconds); err != nil {
					logging.WarnWithContext(logger, "probe cache store failed", "probe_cache_error",
						logging.String("path", c.RelPath),
						logging.Error(err),
						logging.String(logging.FieldImpact, "file is probed again next run"),
					)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ProbeStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ProbeStats{}, err
	}

	stats := ProbeStats{Probed: int(probed.Load()), CacheHits: int(hits.Load()), Failed: int(failed.Load())}
	logger.Info("probing complete",
		logging.Int("files", len(candidates)),
		logging.Int("probed", stats.Probed),
		logging.Int("cache_hits", stats.CacheHits),
		logging.Int("failed", stats.Failed),
	)
	return out, stats, nil
}

func cacheKey(c selection.Candidate, cache Cache) (probecache.Key, bool) {
	if cache == nil {
		return probecache.Key{}, false
	}
	key, err := probecache.KeyFor(c.Path)
	if err != nil {
		return probecache.Key{}, false
	}
	return key, true
}
