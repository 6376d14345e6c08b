package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"renamer/internal/config"
	"renamer/internal/deps"
	"renamer/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// PrepareOutputRoot creates the output root when missing and checks that it
// is writable.
func PrepareOutputRoot(path string) Result {
	const name = "Output root"
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", path, err)}
	}
	return CheckDirectoryAccess(name, path)
}

// CheckFFprobe verifies the configured ffprobe binary resolves on PATH.
func CheckFFprobe(binary string) Result {
	status := deps.CheckFFprobe(binary)
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Path}
}

// RunAll executes the checks a run needs. outputRoot is empty for dry runs.
func RunAll(cfg *config.Config, inputRoot, outputRoot string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryReadable("Input root", inputRoot),
		CheckFFprobe(cfg.Probe.Binary),
	}
	if strings.TrimSpace(outputRoot) != "" {
		results = append(results, PrepareOutputRoot(outputRoot))
	}
	return results
}

// Err folds failed results into one error, or returns nil when all passed.
// A missing ffprobe is an external tool failure; path problems are
// validation failures.
func Err(results []Result) error {
	var failed []string
	marker := services.ErrValidation
	for _, r := range results {
		if r.Passed {
			continue
		}
		failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		if r.Name == "FFprobe" {
			marker = services.ErrExternalTool
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(marker, "preflight", "check", strings.Join(failed, "; "), nil)
}
