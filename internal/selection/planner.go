package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"renamer/internal/logging"
	"renamer/internal/naming"
	"renamer/internal/services"
)

var (
	// ErrDestinationCollision marks plans where two titles render the same path.
	ErrDestinationCollision = errors.New("destination collision")
	// ErrUnexpectedCount marks plans whose episode count differs from the expected one.
	ErrUnexpectedCount = errors.New("unexpected episode count")
)

// Options is the immutable configuration of one planning run.
type Options struct {
	Confidence     float64
	MinimumSeconds *float64
	MaximumSeconds *float64
	InputRegex     string
	OutputFormat   string
	Excludes       []string
	ExcludeAfter   int
	Offset         int
	// FullExtension renders {extension} from every suffix of the file name
	// instead of only the last one.
	FullExtension bool
}

// Entry is one source to destination move in the plan.
type Entry struct {
	Source      string
	RelSource   string
	Destination string
	Index       int
	OffsetIndex int
	Duration    float64
	Size        int64
}

// Result is the outcome of planning: the ordered plan and every rejection.
type Result struct {
	Threshold  Threshold
	Entries    []Entry
	Rejections []Rejection
}

// Planner validates options once and plans any number of candidate sets.
type Planner struct {
	opts       Options
	matcher    *naming.Matcher
	template   *naming.Template
	exclusions *Exclusions
	logger     *slog.Logger
}

// NewPlanner compiles the input regex, output template and exclude patterns
// and checks the template against the regex's groups. Every problem found
// here is a configuration error reported before any candidate is examined.
func NewPlanner(opts Options, logger *slog.Logger) (*Planner, error) {
	if err := validateOptions(opts); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "validate options", "", err)
	}
	matcher, err := naming.CompileMatcher(opts.InputRegex)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "compile input regex", "", err)
	}
	format := opts.OutputFormat
	if strings.TrimSpace(format) == "" {
		format = naming.DefaultTemplate
	}
	template, err := naming.ParseTemplate(format)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "parse output format", "", err)
	}
	if err := template.Validate(matcher); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "check output format", "", err)
	}
	exclusions, err := CompileExclusions(opts.Excludes, opts.ExcludeAfter)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "compile exclusions", "", err)
	}
	return &Planner{
		opts:       opts,
		matcher:    matcher,
		template:   template,
		exclusions: exclusions,
		logger:     logging.NewComponentLogger(logger, "planner"),
	}, nil
}

func validateOptions(opts Options) error {
	if opts.Confidence <= 0 || opts.Confidence > 1 {
		return fmt.Errorf("confidence must be in (0, 1], got %v", opts.Confidence)
	}
	if opts.MinimumSeconds != nil && *opts.MinimumSeconds < 0 {
		return fmt.Errorf("minimum duration must not be negative")
	}
	if opts.MaximumSeconds != nil {
		if *opts.MaximumSeconds <= 0 {
			return fmt.Errorf("maximum duration must be positive")
		}
		if opts.MinimumSeconds != nil && *opts.MaximumSeconds < *opts.MinimumSeconds {
			return fmt.Errorf("maximum duration is below minimum duration")
		}
	}
	if opts.ExcludeAfter < 0 {
		return fmt.Errorf("exclude-after must not be negative")
	}
	if opts.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	return nil
}

// Plan runs matching, duration classification, exclusion, sequencing and
// destination rendering over the complete candidate set. A manual exclusion
// takes precedence over any duration verdict. Destination collisions fail
// the whole plan.
func (p *Planner) Plan(candidates []Candidate) (*Result, error) {
	result := &Result{}

	matched := make([]Candidate, 0, len(candidates))
	captures := make(map[string]naming.Captures, len(candidates))
	for _, c := range candidates {
		caps, ok := p.matcher.Match(c.RelPath)
		if !ok {
			result.Rejections = append(result.Rejections, Rejection{Candidate: c, Reason: ReasonNoMatch})
			continue
		}
		matched = append(matched, c)
		captures[c.RelPath] = caps
	}

	threshold, decisions := Classify(matched, ClassifyOptions{
		Confidence:     p.opts.Confidence,
		MinimumSeconds: p.opts.MinimumSeconds,
		MaximumSeconds: p.opts.MaximumSeconds,
	})
	result.Threshold = threshold
	p.logger.Info("duration threshold",
		logging.String("source", string(threshold.Source)),
		logging.Float64("minimum_seconds", threshold.Minimum),
		logging.Float64("normal_seconds", threshold.Normal),
		logging.Int("considered", len(matched)),
	)

	durationKept := make([]Candidate, 0, len(decisions))
	for _, d := range decisions {
		if pattern, ok := p.exclusions.Manual(d.Candidate); ok {
			result.Rejections = append(result.Rejections, Rejection{Candidate: d.Candidate, Reason: ReasonManualExclude, Detail: pattern})
			continue
		}
		if !d.Kept {
			result.Rejections = append(result.Rejections, Rejection{Candidate: d.Candidate, Reason: d.Reason, Detail: d.Detail})
			continue
		}
		durationKept = append(durationKept, d.Candidate)
	}

	surviving, limited := p.exclusions.Apply(durationKept)
	result.Rejections = append(result.Rejections, limited...)
	slices.SortStableFunc(result.Rejections, func(a, b Rejection) int {
		return compareCandidates(a.Candidate, b.Candidate)
	})
	for _, r := range result.Rejections {
		p.logger.Info("title rejected",
			logging.Args(append(logging.DecisionAttrs("title_selection", "rejected", string(r.Reason)),
				logging.String("path", r.Candidate.RelPath),
				logging.String("detail", r.Detail),
			)...)...,
		)
	}

	owners := make(map[string]string, len(surviving))
	var collisions []string
	for _, ep := range Sequence(surviving, p.opts.Offset) {
		c := ep.Candidate
		ext := c.Extension()
		if p.opts.FullExtension {
			ext = c.Suffixes()
		}
		dest, err := p.template.Render(naming.Fields{
			Index:       ep.Index,
			OffsetIndex: ep.OffsetIndex,
			Extension:   ext,
			Captures:    captures[c.RelPath],
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "plan", "render destination", c.RelPath, err)
		}
		if owner, exists := owners[dest]; exists {
			collisions = append(collisions, fmt.Sprintf("%s and %s both map to %s", owner, c.RelPath, dest))
			continue
		}
		owners[dest] = c.RelPath
		result.Entries = append(result.Entries, Entry{
			Source:      c.Path,
			RelSource:   c.RelPath,
			Destination: dest,
			Index:       ep.Index,
			OffsetIndex: ep.OffsetIndex,
			Duration:    c.Duration,
			Size:        c.Size,
		})
		p.logger.Debug("title kept",
			logging.Args(append(logging.DecisionAttrs("title_selection", "kept", "duration_ok"),
				logging.String("path", c.RelPath),
				logging.String("destination", dest),
				logging.Int("offset_index", ep.OffsetIndex),
			)...)...,
		)
	}
	if len(collisions) > 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "check destinations", strings.Join(collisions, "; "), ErrDestinationCollision)
	}

	p.logger.Info("plan ready",
		logging.Int("kept", len(result.Entries)),
		logging.Int("rejected", len(result.Rejections)),
	)
	return result, nil
}

// CheckExpected fails when the plan does not hold exactly want episodes.
// want <= 0 disables the check.
func (r *Result) CheckExpected(want int) error {
	if want <= 0 || len(r.Entries) == want {
		return nil
	}
	return services.Wrap(services.ErrValidation, "plan", "check count",
		fmt.Sprintf("expected %d episodes but found %d", want, len(r.Entries)), ErrUnexpectedCount)
}

// Counts tallies rejections by reason.
func (r *Result) Counts() map[Reason]int {
	counts := make(map[Reason]int)
	for _, rej := range r.Rejections {
		counts[rej.Reason]++
	}
	return counts
}
