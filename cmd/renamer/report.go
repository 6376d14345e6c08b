package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"renamer/internal/config"
	"renamer/internal/organizer"
	"renamer/internal/selection"
)

type reporter struct {
	out        io.Writer
	outputRoot string
	mode       string
}

// table prints the plan and rejections for a person at a terminal.
func (r reporter) table(plan *selection.Result) error {
	if _, err := fmt.Fprintln(r.out, thresholdSummary(plan.Threshold)); err != nil {
		return err
	}

	if len(plan.Entries) > 0 {
		rows := make([][]string, 0, len(plan.Entries))
		for _, e := range plan.Entries {
			rows = append(rows, []string{
				fmt.Sprintf("%d", e.OffsetIndex),
				e.RelSource,
				r.destination(e),
				formatClock(e.Duration),
				humanize.IBytes(uint64(max(e.Size, 0))),
			})
		}
		table := renderTable("Episodes",
			[]string{"#", "Source", "Destination", "Runtime", "Size"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
		)
		if _, err := fmt.Fprintln(r.out, table); err != nil {
			return err
		}
	}

	if len(plan.Rejections) > 0 {
		rows := make([][]string, 0, len(plan.Rejections))
		for _, rej := range plan.Rejections {
			runtime := "-"
			if rej.Candidate.Probed {
				runtime = formatClock(rej.Candidate.Duration)
			}
			rows = append(rows, []string{rej.Candidate.RelPath, string(rej.Reason), runtime, rej.Detail})
		}
		table := renderTable("Rejected",
			[]string{"Source", "Reason", "Runtime", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		)
		if _, err := fmt.Fprintln(r.out, table); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(r.out, countSummary(plan))
	return err
}

// script prints the plan as shell commands: a mkdir -p for every destination
// directory that does not exist yet, then one mv (or cp) per episode. The
// threshold and every rejection follow as comment lines.
func (r reporter) script(plan *selection.Result) error {
	verb := "mv -n"
	if r.mode == config.ModeCopy {
		verb = "cp -n"
	}
	made := make(map[string]bool)
	for _, e := range plan.Entries {
		dest := r.destination(e)
		if dir := filepath.Dir(dest); dir != "." && !made[dir] {
			made[dir] = true
			if _, err := os.Stat(dir); err != nil {
				if _, err := fmt.Fprintf(r.out, "mkdir -p %s\n", shellQuote(dir)); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintf(r.out, "%s %s %s\n", verb, shellQuote(e.Source), shellQuote(dest)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(r.out, "# %s\n", thresholdSummary(plan.Threshold)); err != nil {
		return err
	}
	for _, rej := range plan.Rejections {
		if _, err := fmt.Fprintln(r.out, rejectionComment(rej)); err != nil {
			return err
		}
	}
	return nil
}

func rejectionComment(rej selection.Rejection) string {
	line := fmt.Sprintf("# rejected %s: %s", commentSafe(rej.Candidate.RelPath), rej.Reason)
	if rej.Detail != "" {
		line += " (" + commentSafe(rej.Detail) + ")"
	}
	return line
}

// commentSafe keeps a value on one comment line.
func commentSafe(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

// outcomes prints what Execute did.
func (r reporter) outcomes(outcomes []organizer.Outcome, terminal bool) error {
	if len(outcomes) == 0 {
		return nil
	}
	if !terminal {
		for _, o := range outcomes {
			if _, err := fmt.Fprintf(r.out, "%s\t%s\t%s\n", o.Action, o.Entry.Source, o.Target); err != nil {
				return err
			}
		}
		return nil
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			fmt.Sprintf("%d", o.Entry.OffsetIndex),
			o.Entry.RelSource,
			o.Target,
			string(o.Action),
		})
	}
	table := renderTable("Placed",
		[]string{"#", "Source", "Destination", "Action"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
	_, err := fmt.Fprintln(r.out, table)
	return err
}

func (r reporter) destination(e selection.Entry) string {
	dest := filepath.FromSlash(e.Destination)
	if r.outputRoot == "" {
		return dest
	}
	return filepath.Join(r.outputRoot, dest)
}

func thresholdSummary(t selection.Threshold) string {
	var b strings.Builder
	switch t.Source {
	case selection.ThresholdOverride:
		fmt.Fprintf(&b, "Minimum runtime %s (set explicitly)", formatClock(t.Minimum))
	case selection.ThresholdDerived:
		fmt.Fprintf(&b, "Minimum runtime %s (longest title %s)", formatClock(t.Minimum), formatClock(t.Normal))
	default:
		b.WriteString("No runtime threshold (no title could be probed)")
	}
	if t.Maximum > 0 {
		fmt.Fprintf(&b, ", maximum %s", formatClock(t.Maximum))
	}
	return b.String()
}

func countSummary(plan *selection.Result) string {
	summary := fmt.Sprintf("%s %s, %s rejected",
		humanize.Comma(int64(len(plan.Entries))),
		plural(len(plan.Entries), "episode", "episodes"),
		humanize.Comma(int64(len(plan.Rejections))),
	)
	counts := plan.Counts()
	if len(counts) == 0 {
		return summary
	}
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	slices.Sort(reasons)
	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", reason, counts[selection.Reason(reason)]))
	}
	return summary + " (" + strings.Join(parts, ", ") + ")"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatClock renders seconds as m:ss, or h:mm:ss from one hour up.
func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "-"
	}
	total := int64(math.Round(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
