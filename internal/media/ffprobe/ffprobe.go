package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"renamer/internal/services"
)

// DefaultBinary is the executable looked up on PATH when none is configured.
const DefaultBinary = "ffprobe"

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Format Format `json:"format"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Prober measures container durations with ffprobe.
type Prober struct {
	Binary string
	// Timeout bounds a single ffprobe invocation. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewProber returns a prober for binary (DefaultBinary when empty).
func NewProber(binary string, timeout time.Duration) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{Binary: binary, Timeout: timeout}
}

// Probe returns the container duration of path in seconds.
func (p *Prober) Probe(ctx context.Context, path string) (float64, error) {
	result, err := p.Inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	seconds, err := result.DurationSeconds()
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "read duration", path, err)
	}
	return seconds, nil
}

// Inspect executes ffprobe against path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "probe", "inspect", "empty path", nil)
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, p.Binary, "-v", "error", "-show_format", "-of", "json", "--", path)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%w)", ctxErr, err)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "run ffprobe", strings.TrimSpace(stderr.String()), err)
	}
	return Parse(output)
}

// Parse decodes ffprobe's JSON output.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "parse ffprobe output", "", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration. A missing, unparsable,
// negative or non-finite duration is an error: such a file cannot be
// classified.
func (r Result) DurationSeconds() (float64, error) {
	raw := strings.TrimSpace(r.Format.Duration)
	if raw == "" || raw == "N/A" {
		return 0, errors.New("container reports no duration")
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable duration %q", raw)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return seconds, nil
}
