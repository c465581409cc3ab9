package commands

import (
	"fmt"

	"github.com/3-lines-studio/vitebridge/internal/buildinfo"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "vitebridge version %s\n", buildinfo.Version)
		},
	}
}
