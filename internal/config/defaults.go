package config

import (
	"os"
	"path/filepath"
	"strings"

	"renamer/internal/naming"
	"renamer/internal/selection"
)

const (
	defaultConfigPath    = "~/.config/renamer/config.toml"
	projectConfigName    = "renamer.toml"
	defaultProbeBinary   = "ffprobe"
	defaultProbeWorkers  = 4
	defaultProbeTimeout  = 30
	defaultExecuteMode   = ModeMove
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultProbeCacheDir = "renamer"
)

// Execution modes.
const (
	ModeMove = "move"
	ModeCopy = "copy"
)

// DefaultExtensions are the container suffixes considered when no list is configured.
var DefaultExtensions = []string{
	".mkv", ".mp4", ".m4v", ".avi", ".mov", ".ts", ".m2ts", ".mts",
	".webm", ".wmv", ".mpg", ".mpeg", ".vob",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Selection: Selection{
			Confidence: selection.DefaultConfidence,
		},
		Naming: Naming{
			OutputFormat: naming.DefaultTemplate,
		},
		Discovery: Discovery{
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Probe: Probe{
			Binary:         defaultProbeBinary,
			Workers:        defaultProbeWorkers,
			TimeoutSeconds: defaultProbeTimeout,
		},
		ProbeCache: ProbeCache{
			Enabled: true,
			Path:    defaultProbeCachePath(),
		},
		Execute: Execute{
			Mode: defaultExecuteMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultProbeCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, defaultProbeCacheDir, "probe.db")
	}
	return "~/.cache/renamer/probe.db"
}
