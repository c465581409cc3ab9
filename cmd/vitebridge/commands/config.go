package commands

import (
	"fmt"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/usecase"
	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	var showPaths bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the config cached by the last production build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			path := core.CachedConfigPath(core.ProjectCacheDir(cfg.Root))
			cached, err := usecase.LoadCachedConfig(fs.NewOSFileSystem(), path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if showPaths {
				paths := usecase.ResolveServerPaths(cached)
				_, _ = fmt.Fprintf(w, "base:         %s\n", paths.Base)
				_, _ = fmt.Fprintf(w, "assets:       %s\n", paths.AssetPrefix)
				_, _ = fmt.Fprintf(w, "client dir:   %s\n", paths.ClientDir)
				_, _ = fmt.Fprintf(w, "server dir:   %s\n", paths.ServerDir)
				return nil
			}

			data, err := core.MarshalCachedConfig(*cached)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPaths, "paths", false, "Print the resolved server paths instead of the raw file")
	return cmd
}
