package config

import (
	"errors"
	"fmt"
	"regexp"

	"renamer/internal/naming"
	"renamer/internal/textutil"
)

// Validate ensures the configuration is usable. It checks each value on its
// own; cross checks between the regex and the output format happen when the
// planner is built.
func (c *Config) Validate() error {
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if c.Execute.Mode != ModeMove && c.Execute.Mode != ModeCopy {
		return fmt.Errorf("execute.mode must be %q or %q, got %q", ModeMove, ModeCopy, c.Execute.Mode)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSelection() error {
	s := c.Selection
	if s.Confidence <= 0 || s.Confidence > 1 {
		return fmt.Errorf("selection.confidence must be greater than 0 and at most 1, got %v", s.Confidence)
	}
	minimum, err := c.MinimumSeconds()
	if err != nil {
		return fmt.Errorf("selection.min_duration: %w", err)
	}
	maximum, err := c.MaximumSeconds()
	if err != nil {
		return fmt.Errorf("selection.max_duration: %w", err)
	}
	if maximum != nil && *maximum <= 0 {
		return errors.New("selection.max_duration must be positive")
	}
	if minimum != nil && maximum != nil && *maximum < *minimum {
		return errors.New("selection.max_duration must not be below selection.min_duration")
	}
	for _, pattern := range s.Excludes {
		if _, err := textutil.CompileGlob(pattern); err != nil {
			return fmt.Errorf("selection.excludes: %w", err)
		}
	}
	if s.ExcludeAfter < 0 {
		return errors.New("selection.exclude_after must not be negative")
	}
	if s.Offset < 0 {
		return errors.New("selection.offset must not be negative")
	}
	if s.Expect < 0 {
		return errors.New("selection.expect must not be negative")
	}
	return nil
}

func (c *Config) validateNaming() error {
	if c.Naming.InputRegex != "" {
		if _, err := regexp.Compile(c.Naming.InputRegex); err != nil {
			return fmt.Errorf("naming.input_regex: %w", err)
		}
	}
	if c.Naming.OutputFormat != "" {
		if _, err := naming.ParseTemplate(c.Naming.OutputFormat); err != nil {
			return fmt.Errorf("naming.output_format: %w", err)
		}
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.Workers < 1 {
		return errors.New("probe.workers must be at least 1")
	}
	if c.Probe.TimeoutSeconds < 1 {
		return errors.New("probe.timeout_seconds must be at least 1")
	}
	return nil
}
