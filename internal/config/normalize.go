package config

import (
	"fmt"
	"strings"
)

// Normalize trims values, fills defaults and expands paths. Load calls it;
// callers that modify a loaded Config call it again before Validate.
func (c *Config) Normalize() error {
	c.normalizeSelection()
	c.normalizeDiscovery()
	c.normalizeProbe()
	if err := c.normalizeProbeCache(); err != nil {
		return err
	}
	c.Execute.Mode = strings.ToLower(strings.TrimSpace(c.Execute.Mode))
	if c.Execute.Mode == "" {
		c.Execute.Mode = defaultExecuteMode
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeSelection() {
	c.Selection.MinDuration = strings.TrimSpace(c.Selection.MinDuration)
	c.Selection.MaxDuration = strings.TrimSpace(c.Selection.MaxDuration)
	excludes := c.Selection.Excludes[:0:0]
	for _, pattern := range c.Selection.Excludes {
		if strings.TrimSpace(pattern) != "" {
			excludes = append(excludes, pattern)
		}
	}
	c.Selection.Excludes = excludes
}

func (c *Config) normalizeDiscovery() {
	seen := make(map[string]struct{}, len(c.Discovery.Extensions))
	extensions := make([]string, 0, len(c.Discovery.Extensions))
	for _, ext := range c.Discovery.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		key := strings.ToLower(ext)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		extensions = append(extensions, ext)
	}
	c.Discovery.Extensions = extensions
}

func (c *Config) normalizeProbe() {
	c.Probe.Binary = strings.TrimSpace(c.Probe.Binary)
	if c.Probe.Binary == "" {
		c.Probe.Binary = defaultProbeBinary
	}
	if c.Probe.Workers == 0 {
		c.Probe.Workers = defaultProbeWorkers
	}
	if c.Probe.TimeoutSeconds == 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeout
	}
}

func (c *Config) normalizeProbeCache() error {
	if strings.TrimSpace(c.ProbeCache.Path) == "" {
		c.ProbeCache.Path = defaultProbeCachePath()
	}
	var err error
	if c.ProbeCache.Path, err = expandPath(strings.TrimSpace(c.ProbeCache.Path)); err != nil {
		return fmt.Errorf("probe_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
