package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Selection controls which titles become episodes.
type Selection struct {
	// Confidence scales the longest title's runtime into the minimum runtime.
	Confidence float64 `toml:"confidence"`
	// MinDuration overrides the derived minimum when set.
	MinDuration string `toml:"min_duration"`
	// MaxDuration rejects titles longer than this when set.
	MaxDuration  string   `toml:"max_duration"`
	Excludes     []string `toml:"excludes"`
	ExcludeAfter int      `toml:"exclude_after"`
	Offset       int      `toml:"offset"`
	// Expect fails the run unless exactly this many episodes are planned. 0 disables.
	Expect int `toml:"expect"`
}

// Naming controls how relative paths are matched and destinations rendered.
type Naming struct {
	InputRegex   string `toml:"input_regex"`
	OutputFormat string `toml:"output_format"`
	// FullExtension makes {extension} every suffix (".part2.mkv"), not just the last.
	FullExtension bool `toml:"full_extension"`
}

// Discovery controls which files under the input root are considered.
type Discovery struct {
	Extensions    []string `toml:"extensions"`
	IncludeHidden bool     `toml:"include_hidden"`
}

// Probe configures ffprobe invocation.
type Probe struct {
	Binary         string `toml:"binary"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ProbeCache configures the on-disk duration cache.
type ProbeCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Execute configures how a plan is applied to the output root.
type Execute struct {
	// Mode is "move" or "copy".
	Mode string `toml:"mode"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File additionally appends log records to this path when set.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for the renamer.
type Config struct {
	Selection  Selection  `toml:"selection"`
	Naming     Naming     `toml:"naming"`
	Discovery  Discovery  `toml:"discovery"`
	Probe      Probe      `toml:"probe"`
	ProbeCache ProbeCache `toml:"probe_cache"`
	Execute    Execute    `toml:"execute"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults are returned and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config %s: %s", resolvedPath, strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// MinimumSeconds returns the configured minimum duration, or nil when the
// minimum should be derived from the observed titles.
func (c *Config) MinimumSeconds() (*float64, error) {
	return optionalDuration(c.Selection.MinDuration)
}

// MaximumSeconds returns the configured maximum duration, or nil when unset.
func (c *Config) MaximumSeconds() (*float64, error) {
	return optionalDuration(c.Selection.MaxDuration)
}

func optionalDuration(value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	seconds, err := ParseDuration(value)
	if err != nil {
		return nil, err
	}
	return &seconds, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the same home and absolute path rules Load uses.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the sample configuration file to path. An existing file
// is only replaced when overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --overwrite to replace it)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
