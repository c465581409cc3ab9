package commands

import (
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/usecase"
	"github.com/spf13/cobra"
)

var errDoctorFailed = errors.New("project is not ready to build or serve")

func (c *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the toolchain and the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			c.out.PrintHeader("vitebridge doctor")
			osfs := fs.NewOSFileSystem()
			ok := true

			if _, err := exec.LookPath(cfg.Server.Node); err != nil {
				c.out.PrintError("%s not found in PATH", cfg.Server.Node)
				ok = false
			} else {
				c.out.PrintSuccess("%s found", cfg.Server.Node)
			}

			if osfs.FileExists(filepath.Join(cfg.Root, "node_modules", ".bin", "vite")) {
				c.out.PrintSuccess("vite installed")
			} else {
				c.out.PrintError("vite not installed in %s", cfg.Root)
				ok = false
			}

			path := core.CachedConfigPath(core.ProjectCacheDir(cfg.Root))
			cached, err := usecase.LoadCachedConfig(osfs, path)
			switch {
			case errors.Is(err, core.ErrCachedConfigMissing):
				c.out.PrintWarning("no production build yet, run vitebridge build")
			case err != nil:
				c.out.PrintError("%v", err)
				ok = false
			default:
				c.out.PrintSuccess("cached config found")
				c.out.PrintFile(path)
				paths := usecase.ResolveServerPaths(cached)
				if !osfs.FileExists(filepath.Join(paths.ClientDir, "index.html")) {
					c.out.PrintError("index.html missing from %s", paths.ClientDir)
					ok = false
				}
				if paths.ServerDir == "" {
					c.out.PrintWarning("no server bundle recorded, pages are served client-only")
				} else if !osfs.FileExists(filepath.Join(paths.ServerDir, cfg.Server.Entry)) {
					c.out.PrintError("%s missing from %s", cfg.Server.Entry, paths.ServerDir)
					ok = false
				}
			}

			if !ok {
				return errDoctorFailed
			}
			c.out.PrintDone("Everything looks good")
			return nil
		},
	}
}
