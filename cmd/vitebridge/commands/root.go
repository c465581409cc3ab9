// Package commands implements the vitebridge CLI.
package commands

import (
	"context"

	"github.com/3-lines-studio/vitebridge/internal/adapters/cli"
	"github.com/3-lines-studio/vitebridge/internal/buildinfo"
	"github.com/3-lines-studio/vitebridge/internal/config"
	"github.com/3-lines-studio/vitebridge/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type CLI struct {
	out     *cli.Output
	rootCmd *cobra.Command

	root       string
	configFile string
	flags      config.Config
	boolFlags  []boolFlag
}

// boolFlag is a boolean flag that overrides the config only when given, so
// --keep-out-dir=false can undo keepOutDir: true from the file.
type boolFlag struct {
	changed func() bool
	value   *bool
	apply   func(cfg *config.Config, v bool)
}

func New(out *cli.Output) *CLI {
	rootCmd := &cobra.Command{
		Use:           "vitebridge",
		Short:         "Build Vite apps and serve them from Go",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildinfo.Version,
	}

	c := &CLI{
		out:     out,
		rootCmd: rootCmd,
	}

	rootCmd.SetOut(out.Writer())
	rootCmd.SetErr(out.ErrWriter())

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.root, "root", ".", "Project root")
	pf.StringVarP(&c.configFile, "config", "c", "", "Config file (default <root>/"+config.FileName+")")
	pf.StringVar(&c.flags.Base, "base", "", "Public base path")
	pf.StringVar(&c.flags.Mode, "mode", "", "Build mode")
	c.addBoolFlag(pf, "debug", "Enable debug logging", func(cfg *config.Config, v bool) { cfg.Debug = v })

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newEntryCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newDoctorCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) addBoolFlag(fs *pflag.FlagSet, name, usage string, apply func(*config.Config, bool)) {
	value := new(bool)
	fs.BoolVar(value, name, false, usage)
	c.boolFlags = append(c.boolFlags, boolFlag{
		changed: func() bool { return fs.Changed(name) },
		value:   value,
		apply:   apply,
	})
}

// loadConfig layers the command line flags over the project config.
func (c *CLI) loadConfig() (*config.Config, error) {
	flags := c.flags
	return config.Load(c.root, c.configFile, &flags, c.boolOverrides)
}

func (c *CLI) boolOverrides(cfg *config.Config) {
	for _, f := range c.boolFlags {
		if f.changed() {
			f.apply(cfg, *f.value)
		}
	}
}

func (c *CLI) logger(cfg *config.Config) *logger.Logger {
	return logger.New(c.out.ErrWriter(), "vitebridge", cfg.Debug)
}
