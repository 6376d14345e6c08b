package discovery_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"renamer/internal/discovery"
	"renamer/internal/testsupport"
)

func TestProbeAllRecordsDurationsAndFailures(t *testing.T) {
	root := testsupport.WriteTree(t, t.TempDir(),
		"Disc 1/title_1.mkv",
		"Disc 1/title_2.mkv",
		"Disc 1/broken.mkv",
	)
	candidates, err := discovery.Walk(context.Background(), root, discovery.Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	prober := testsupport.NewStubProber(root, map[string]float64{
		"Disc 1/title_1.mkv": 44,
		"Disc 1/title_2.mkv": 3,
	})

	probed, stats, err := discovery.ProbeAll(context.Background(), candidates, prober, discovery.ProbeOptions{Workers: 2})
	if err != nil {
		t.Fatalf("ProbeAll: %v", err)
	}
	if len(probed) != len(candidates) {
		t.Fatalf("expected %d results, got %d", len(candidates), len(probed))
	}
	for i, c := range probed {
		if c.RelPath != candidates[i].RelPath {
			t.Fatalf("result order changed at %d: %s", i, c.RelPath)
		}
		switch c.RelPath {
		case "Disc 1/broken.mkv":
			if c.Probed || c.ProbeError == "" {
				t.Fatalf("expected probe failure recorded: %+v", c)
			}
		case "Disc 1/title_1.mkv":
			if !c.Probed || c.Duration != 44*60 {
				t.Fatalf("unexpected duration: %+v", c)
			}
		}
	}
	if stats.Probed != 2 || stats.Failed != 1 || stats.CacheHits != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if candidates[0].Probed {
		t.Fatal("ProbeAll must not mutate its input")
	}
}

func TestProbeAllUsesCache(t *testing.T) {
	root := testsupport.WriteTree(t, t.TempDir(), "Disc 1/title_1.mkv", "Disc 1/title_2.mkv")
	candidates, err := discovery.Walk(context.Background(), root, discovery.Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	cache := testsupport.MustOpenCache(t)
	prober := testsupport.NewStubProber(root, map[string]float64{
		"Disc 1/title_1.mkv": 44,
		"Disc 1/title_2.mkv": 45,
	})
	opts := discovery.ProbeOptions{Workers: 4, Cache: cache}

	if _, stats, err := discovery.ProbeAll(context.Background(), candidates, prober, opts); err != nil || stats.Probed != 2 {
		t.Fatalf("first run: stats=%+v err=%v", stats, err)
	}
	second, stats, err := discovery.ProbeAll(context.Background(), candidates, prober, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.CacheHits != 2 || stats.Probed != 0 {
		t.Fatalf("expected cache hits on second run, got %+v", stats)
	}
	if prober.TotalCalls() != 2 {
		t.Fatalf("expected ffprobe to run once per file, got %d", prober.TotalCalls())
	}
	if second[1].Duration != 45*60 {
		t.Fatalf("unexpected cached duration %v", second[1].Duration)
	}
}

type gatedProber struct {
	active, peak atomic.Int32
}

func (p *gatedProber) Probe(ctx context.Context, _ string) (float64, error) {
	n := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			break
		}
	}
	select {
	case <-time.After(10 * time.Millisecond):
		return 60, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestProbeAllBoundsConcurrency(t *testing.T) {
	paths := make([]string, 12)
	for i := range paths {
		paths[i] = "Disc 1/title_" + string(rune('a'+i)) + ".mkv"
	}
	root := testsupport.WriteTree(t, t.TempDir(), paths...)
	candidates, err := discovery.Walk(context.Background(), root, discovery.Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	prober := &gatedProber{}
	if _, _, err := discovery.ProbeAll(context.Background(), candidates, prober, discovery.ProbeOptions{Workers: 3}); err != nil {
		t.Fatalf("ProbeAll: %v", err)
	}
	if peak := prober.peak.Load(); peak > 3 || peak < 1 {
		t.Fatalf("expected at most 3 concurrent probes, saw %d", peak)
	}
}

func TestProbeAllStopsOnCancel(t *testing.T) {
	root := testsupport.WriteTree(t, t.TempDir(), "a.mkv", "b.mkv")
	candidates, err := discovery.Walk(context.Background(), root, discovery.Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := discovery.ProbeAll(ctx, candidates, &gatedProber{}, discovery.ProbeOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
