package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wuta/vocabaudio/internal/audiocache"
)

func newCacheCommand() *cobra.Command {
	cacheCommand := &cobra.Command{
		Use:   "cache",
		Short: "Manage the audio cache",
	}

	var dir string
	clearCommand := &cobra.Command{
		Use:   "clear",
		Short: "Remove generated clips, metadata, and temporary files. sfx/ is kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := loadConfig()
				if err != nil {
					return fmt.Errorf("loadConfig() > %w", err)
				}
				dir = cfg.Audio.CacheDirectory
			}
			removed, err := audiocache.Clear(dir)
			if err != nil {
				return fmt.Errorf("audiocache.Clear(%s) > %w", dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files from %s\n", removed, dir)
			return nil
		},
	}
	clearCommand.Flags().StringVar(&dir, "dir", "", "cache directory. Defaults to audio.cache_directory")

	cacheCommand.AddCommand(clearCommand)
	return cacheCommand
}
