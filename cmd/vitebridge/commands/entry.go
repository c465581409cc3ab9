package commands

import (
	"fmt"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/usecase"
	"github.com/spf13/cobra"
)

func (c *CLI) newEntryCmd() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Write the client hydration entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if stdout {
				entry, err := cfg.HydrationEntry()
				if err != nil {
					return err
				}
				content, err := core.RenderHydrationEntry(entry)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			service := usecase.NewBuildService(nil, fs.NewOSFileSystem(), c.out, c.logger(cfg))
			path, err := service.WriteHydrationEntry(cfg)
			if err != nil {
				return err
			}
			c.out.PrintSuccess("Wrote hydration entry")
			c.out.PrintFile(path)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&stdout, "stdout", false, "Print the entry instead of writing it")
	f.StringVar(&c.flags.ClientEntry, "out", "", "Entry file, relative to the project root")
	f.StringVar(&c.flags.Hydration.App, "app", "", "App factory module, relative to the project root")
	f.StringVar(&c.flags.Hydration.HydrateImport, "hydrate-import", "", "Module exporting hydrate")
	f.StringVar(&c.flags.Hydration.MountSelector, "mount", "", "Mount selector")

	return cmd
}
