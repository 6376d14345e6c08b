package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"renamer/internal/services"
)

// StubProber answers duration probes from a table keyed by the path relative
// to Root, slash separated. Paths without an entry fail like an unreadable
// file.
type StubProber struct {
	Root      string
	Durations map[string]float64

	mu    sync.Mutex
	calls map[string]int
}

// NewStubProber builds a prober for root with durations given in minutes.
func NewStubProber(root string, minutes map[string]float64) *StubProber {
	durations := make(map[string]float64, len(minutes))
	for rel, m := range minutes {
		durations[rel] = m * 60
	}
	return &StubProber{Root: root, Durations: durations}
}

// Probe implements the discovery prober contract.
func (p *StubProber) Probe(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return 0, err
	}
	rel = filepath.ToSlash(rel)

	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[rel]++
	p.mu.Unlock()

	seconds, ok := p.Durations[rel]
	if !ok {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "run ffprobe", "Invalid data found when processing input", fmt.Errorf("exit status 1"))
	}
	return seconds, nil
}

// Calls returns how often rel was probed.
func (p *StubProber) Calls(rel string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[rel]
}

// TotalCalls returns the number of probes issued.
func (p *StubProber) TotalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}
