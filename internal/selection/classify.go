package selection

import "fmt"

// DefaultConfidence rejects titles at or below roughly 60% of the longest
// title while tolerating ordinary runtime variance between episodes.
const DefaultConfidence = 0.6

// ThresholdSource records where the minimum duration came from.
type ThresholdSource string

const (
	// ThresholdOverride means the user supplied the minimum.
	ThresholdOverride ThresholdSource = "override"
	// ThresholdDerived means the minimum was computed from observed durations.
	ThresholdDerived ThresholdSource = "derived"
	// ThresholdNone means no duration was observed and no override was set.
	ThresholdNone ThresholdSource = "none"
)

// ClassifyOptions configures the duration classifier. Nil overrides are unset.
type ClassifyOptions struct {
	// Confidence scales the longest observed duration into the minimum. It
	// must lie in (0, 1]; 1 keeps only titles as long as the longest one.
	Confidence float64
	// MinimumSeconds replaces the derived minimum when set.
	MinimumSeconds *float64
	// MaximumSeconds rejects titles longer than this when set.
	MaximumSeconds *float64
}

// Threshold is the run-wide duration rule. Once computed it applies to every
// candidate alike.
type Threshold struct {
	Minimum float64
	// Maximum is zero when no upper bound applies.
	Maximum float64
	// Normal is the longest observed duration, the "normal" episode length.
	Normal float64
	Source ThresholdSource
}

// Decision is the classifier verdict for one candidate.
type Decision struct {
	Candidate Candidate
	Kept      bool
	Reason    Reason
	Detail    string
}

// Classify derives the threshold from every successfully probed duration and
// judges each candidate against it. The result depends only on the multiset
// of durations, never on candidate order.
func Classify(candidates []Candidate, opts ClassifyOptions) (Threshold, []Decision) {
	threshold := deriveThreshold(candidates, opts)
	decisions := make([]Decision, 0, len(candidates))
	for _, c := range candidates {
		decisions = append(decisions, threshold.judge(c))
	}
	return threshold, decisions
}

func deriveThreshold(candidates []Candidate, opts ClassifyOptions) Threshold {
	var normal float64
	observed := false
	for _, c := range candidates {
		if !c.Probed {
			continue
		}
		if !observed || c.Duration > normal {
			normal = c.Duration
			observed = true
		}
	}
	t := Threshold{Normal: normal}
	if opts.MaximumSeconds != nil {
		t.Maximum = *opts.MaximumSeconds
	}
	switch {
	case opts.MinimumSeconds != nil:
		t.Minimum = *opts.MinimumSeconds
		t.Source = ThresholdOverride
	case observed:
		confidence := opts.Confidence
		if confidence <= 0 {
			confidence = DefaultConfidence
		}
		t.Minimum = normal * confidence
		t.Source = ThresholdDerived
	default:
		t.Source = ThresholdNone
	}
	return t
}

// Accepts reports whether a probed duration passes the threshold.
func (t Threshold) Accepts(seconds float64) bool {
	if seconds < t.Minimum {
		return false
	}
	return t.Maximum <= 0 || seconds <= t.Maximum
}

func (t Threshold) judge(c Candidate) Decision {
	switch {
	case !c.Probed:
		return Decision{Candidate: c, Reason: ReasonProbeFailed, Detail: c.ProbeError}
	case c.Duration < t.Minimum:
		return Decision{Candidate: c, Reason: ReasonTooShort, Detail: fmt.Sprintf("%.0fs < %.0fs", c.Duration, t.Minimum)}
	case t.Maximum > 0 && c.Duration > t.Maximum:
		return Decision{Candidate: c, Reason: ReasonTooLong, Detail: fmt.Sprintf("%.0fs > %.0fs", c.Duration, t.Maximum)}
	}
	return Decision{Candidate: c, Kept: true}
}
