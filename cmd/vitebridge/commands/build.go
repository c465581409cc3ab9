package commands

import (
	"errors"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/adapters/vite"
	"github.com/3-lines-studio/vitebridge/internal/config"
	"github.com/3-lines-studio/vitebridge/internal/usecase"
	"github.com/spf13/cobra"
)

var errBuildFailed = errors.New("build failed")

func (c *CLI) newBuildCmd() *cobra.Command {
	var (
		skipSSR bool
		vitebin string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the client and server bundles and cache the resolved config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			log := c.logger(cfg)

			bundler := vite.NewBundler(log.Child("vite"))
			if vitebin != "" {
				bundler.Command = vitebin
				bundler.Args = nil
			}
			bundler.Stdout = c.out.Writer()
			bundler.Stderr = c.out.ErrWriter()

			service := usecase.NewBuildService(bundler, fs.NewOSFileSystem(), c.out, log)
			result := service.BuildProject(cmd.Context(), usecase.BuildInput{
				Config:  cfg,
				SkipSSR: skipSSR,
			})
			if result.Error != nil {
				return result.Error
			}
			if !result.Success {
				return errBuildFailed
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&skipSSR, "skip-ssr", false, "Only build the client bundle")
	f.StringVar(&vitebin, "vite", "", "Vite executable (default npx vite)")
	f.StringVar(&c.flags.AssetsDir, "assets-dir", "", "Assets directory inside the client out dir")
	f.StringVar(&c.flags.ClientOutDir, "client-out-dir", "", "Client bundle output directory")
	f.StringVar(&c.flags.ServerOutDir, "server-out-dir", "", "Server bundle output directory")
	f.StringVar(&c.flags.SSREntry, "ssr-entry", "", "Server entry module")
	c.addBoolFlag(f, "keep-out-dir", "Do not empty the out dirs before building", func(cfg *config.Config, v bool) { cfg.KeepOutDir = v })
	c.addBoolFlag(f, "generate-entry", "Write the client hydration entry before building", func(cfg *config.Config, v bool) { cfg.Hydration.Generate = v })

	return cmd
}
