package selection

import (
	"fmt"
	"regexp"
	"slices"

	"renamer/internal/textutil"
)

// Exclusions holds the manual glob patterns and the per-directory quota.
type Exclusions struct {
	patterns []exclusionPattern
	after    int
}

type exclusionPattern struct {
	source string
	re     *regexp.Regexp
}

// CompileExclusions validates the glob patterns. excludeAfter <= 0 disables
// the per-directory quota.
func CompileExclusions(patterns []string, excludeAfter int) (*Exclusions, error) {
	if excludeAfter < 0 {
		return nil, fmt.Errorf("exclude-after must not be negative (got %d)", excludeAfter)
	}
	ex := &Exclusions{after: excludeAfter}
	for _, p := range patterns {
		re, err := textutil.CompileGlob(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern: %w", err)
		}
		ex.patterns = append(ex.patterns, exclusionPattern{source: p, re: re})
	}
	return ex, nil
}

// Manual returns the first pattern matching the candidate's relative path.
func (e *Exclusions) Manual(c Candidate) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, p := range e.patterns {
		if p.re.MatchString(c.RelPath) {
			return p.source, true
		}
	}
	return "", false
}

// Apply drops manually excluded candidates and then keeps at most the
// configured number of survivors per directory, in natural order. Survivors
// are returned sorted by directory and name.
func (e *Exclusions) Apply(candidates []Candidate) ([]Candidate, []Rejection) {
	var (
		survivors []Candidate
		rejected  []Rejection
	)
	for _, c := range candidates {
		if pattern, ok := e.Manual(c); ok {
			rejected = append(rejected, Rejection{Candidate: c, Reason: ReasonManualExclude, Detail: pattern})
			continue
		}
		survivors = append(survivors, c)
	}
	slices.SortStableFunc(survivors, compareCandidates)
	if e == nil || e.after <= 0 {
		return survivors, rejected
	}

	kept := make([]Candidate, 0, len(survivors))
	perDir := make(map[string]int)
	for _, c := range survivors {
		perDir[c.Dir]++
		if perDir[c.Dir] > e.after {
			rejected = append(rejected, Rejection{
				Candidate: c,
				Reason:    ReasonExcludeAfter,
				Detail:    fmt.Sprintf("beyond first %d in %s", e.after, c.Dir),
			})
			continue
		}
		kept = append(kept, c)
	}
	return kept, rejected
}
