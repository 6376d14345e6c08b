package main

import (
	"github.com/spf13/cobra"
)

type runFlags struct {
	confidence   float64
	minDuration  string
	maxDuration  string
	inputRegex   string
	outputFormat string
	fullExt      bool
	excludes     []string
	excludeAfter int
	offset       int
	expect       int
	output       string
	dryRun       bool
	copy         bool
	script       bool
	workers      int
	noCache      bool
	logLevel     string
	logFormat    string
}

func newRootCommand(deps runDeps) *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "renamer [flags] <input-root>",
		Short: "Select episode titles from disc rips and number them in order",
		Long: `renamer walks an input root of ripped titles, measures each title with
ffprobe, discards titles that are too short to be episodes, and numbers the
rest in natural path order across every disc.

Without --output the plan is printed. With --output the titles are moved
(or copied with --copy) into the output root under their new names.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, ctx, flags, deps, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	f := rootCmd.Flags()
	f.Float64VarP(&flags.confidence, "confidence", "z", 0, "Fraction of the longest title a title must reach to count as an episode (0,1]")
	f.StringVarP(&flags.minDuration, "min-duration", "m", "", "Minimum episode runtime (seconds, 22m, or 0:22:00); overrides --confidence")
	f.StringVar(&flags.maxDuration, "max-duration", "", "Reject titles longer than this runtime")
	f.StringVar(&flags.inputRegex, "input-regex", "", "Regex matched against each path relative to the input root")
	f.StringVar(&flags.outputFormat, "output-format", "", "Destination template, e.g. 'S01E{offset_index:02d}{extension}'")
	f.BoolVar(&flags.fullExt, "full-extension", false, "Render {extension} from every suffix of the name (.part2.mkv), not only the last")
	f.StringArrayVar(&flags.excludes, "exclude", nil, "Glob of relative paths to exclude (repeatable)")
	f.IntVar(&flags.excludeAfter, "exclude-after", 0, "Keep at most this many titles per directory")
	f.IntVar(&flags.offset, "offset", 0, "Number the first episode offset+1")
	f.IntVar(&flags.expect, "expect", 0, "Fail unless exactly this many episodes are selected")
	f.StringVarP(&flags.output, "output", "o", "", "Output root; titles are moved here unless --dry-run is set")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the plan without touching any file")
	f.BoolVar(&flags.copy, "copy", false, "Copy titles into the output root instead of moving them")
	f.BoolVar(&flags.script, "script", false, "Print the plan as mkdir/mv shell commands")
	f.IntVar(&flags.workers, "workers", 0, "Number of concurrent ffprobe processes")
	f.BoolVar(&flags.noCache, "no-cache", false, "Do not read or write the probe cache")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newConfigCommand(ctx, deps))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
