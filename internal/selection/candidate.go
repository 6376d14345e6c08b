package selection

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"renamer/internal/textutil"
)

// Candidate is one discovered input file.
type Candidate struct {
	// Path is the absolute source path.
	Path string
	// RelPath is the path relative to the input root, slash separated.
	RelPath string
	// Dir is the grouping key: the parent directory relative to the root,
	// "." for files directly in the root.
	Dir string
	// Name is the file name.
	Name string
	Size int64
	// Duration is the probed runtime in seconds; meaningful only when Probed.
	Duration float64
	Probed   bool
	// ProbeError describes why probing failed.
	ProbeError string
}

// NewCandidate builds a candidate for absPath discovered under root.
func NewCandidate(root, absPath string, size int64) (Candidate, error) {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return Candidate{}, fmt.Errorf("relative path for %q: %w", absPath, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return Candidate{}, fmt.Errorf("%q is not below %q", absPath, root)
	}
	return Candidate{
		Path:    absPath,
		RelPath: rel,
		Dir:     path.Dir(rel),
		Name:    path.Base(rel),
		Size:    size,
	}, nil
}

// WithDuration returns a copy of c carrying a successful probe result.
func (c Candidate) WithDuration(seconds float64) Candidate {
	c.Duration = seconds
	c.Probed = true
	c.ProbeError = ""
	return c
}

// WithProbeError returns a copy of c marked as unprobeable.
func (c Candidate) WithProbeError(err error) Candidate {
	c.Duration = 0
	c.Probed = false
	if err != nil {
		c.ProbeError = err.Error()
	}
	return c
}

// Extension returns the final suffix of the file name including the dot,
// with its original case.
func (c Candidate) Extension() string {
	return path.Ext(c.Name)
}

// Suffixes returns every suffix of the file name joined together, so
// "title_1.part2.mkv" yields ".part2.mkv". Leading dots do not start a
// suffix and a name ending in a dot has none.
func (c Candidate) Suffixes() string {
	name := c.Name
	if strings.HasSuffix(name, ".") {
		return ""
	}
	name = strings.TrimLeft(name, ".")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// Reason explains why a candidate is not part of the plan.
type Reason string

const (
	ReasonNoMatch       Reason = "no_match"
	ReasonProbeFailed   Reason = "probe_failed"
	ReasonTooShort      Reason = "too_short"
	ReasonTooLong       Reason = "too_long"
	ReasonManualExclude Reason = "manual_exclude"
	ReasonExcludeAfter  Reason = "exclude_after_limit"
)

// Rejection records a candidate dropped from the plan.
type Rejection struct {
	Candidate Candidate
	Reason    Reason
	Detail    string
}

// compareCandidates orders by directory key, then file name, both natural.
func compareCandidates(a, b Candidate) int {
	if c := textutil.NaturalCompare(a.Dir, b.Dir); c != 0 {
		return c
	}
	return textutil.NaturalCompare(a.Name, b.Name)
}
