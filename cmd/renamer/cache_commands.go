package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"renamer/internal/probecache"
	"renamer/internal/services"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Probe cache utilities",
	}

	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cached durations of files that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := probecache.Open(cmd.Context(), cfg.ProbeCache.Path)
			if err != nil {
				return services.Wrap(services.ErrTransient, "cache", "open", cfg.ProbeCache.Path, err)
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context())
			if err != nil {
				return services.Wrap(services.ErrTransient, "cache", "prune", store.Path(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s stale %s from %s\n",
				humanize.Comma(int64(removed)), plural(removed, "entry", "entries"), store.Path())
			return nil
		},
	}
}
