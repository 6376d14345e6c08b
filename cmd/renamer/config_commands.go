package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"renamer/internal/config"
	"renamer/internal/logging"
)

func newConfigCommand(ctx *commandContext, deps runDeps) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx, deps))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if err := config.CreateSample(target, overwrite); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext, deps runDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// The regex and output format are only checked against each other
			// when a planner is built.
			if _, err := newPlanner(cfg, logging.NewNop()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configSeen {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}

			minimum := fmt.Sprintf("%.0f%% of longest title", cfg.Selection.Confidence*100)
			if cfg.Selection.MinDuration != "" {
				minimum = cfg.Selection.MinDuration
			}
			cache := "disabled"
			if cfg.ProbeCache.Enabled {
				cache = cfg.ProbeCache.Path
			}
			ffprobe := deps.checkFFprobe(cfg.Probe.Binary)
			rows := [][]string{
				{"Minimum runtime", minimum},
				{"Input regex", valueOr(cfg.Naming.InputRegex, "(any path)")},
				{"Output format", cfg.Naming.OutputFormat},
				{"Execute mode", cfg.Execute.Mode},
				{"Probe cache", cache},
				{"FFprobe", ffprobe.Detail},
			}
			fmt.Fprintln(out, renderTable("", []string{"Setting", "Value"}, rows, nil))
			if !ffprobe.Passed {
				fmt.Fprintln(out, "Warning: ffprobe is not available; runs will fail until it is installed")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
