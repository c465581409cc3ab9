// Package config loads vitebridge settings from vitebridge.yaml, VITEBRIDGE_*
// environment variables and command line flags, in that order of precedence
// (later sources win).
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/vitebridge/internal/core"
)

const (
	FileName  = "vitebridge.yaml"
	EnvPrefix = "VITEBRIDGE_"
)

type Config struct {
	Root         string `yaml:"root" env:"ROOT"`
	Base         string `yaml:"base" env:"BASE"`
	Mode         string `yaml:"mode" env:"MODE"`
	AssetsDir    string `yaml:"assetsDir" env:"ASSETS_DIR"`
	ClientOutDir string `yaml:"clientOutDir" env:"CLIENT_OUT_DIR"`
	ServerOutDir string `yaml:"serverOutDir" env:"SERVER_OUT_DIR"`
	SSREntry     string `yaml:"ssrEntry" env:"SSR_ENTRY"`
	ClientEntry  string `yaml:"clientEntry" env:"CLIENT_ENTRY"`
	KeepOutDir   bool   `yaml:"keepOutDir" env:"KEEP_OUT_DIR"`
	Debug        bool   `yaml:"debug" env:"DEBUG"`

	Hydration HydrationConfig `yaml:"hydration" envPrefix:"HYDRATION_"`
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
}

type HydrationConfig struct {
	Generate bool `yaml:"generate" env:"GENERATE"`
	// App is the app factory module, relative to Root. When set it takes
	// precedence over AppImport.
	App           string `yaml:"app" env:"APP"`
	AppImport     string `yaml:"appImport" env:"APP_IMPORT"`
	HydrateImport string `yaml:"hydrateImport" env:"HYDRATE_IMPORT"`
	MountSelector string `yaml:"mountSelector" env:"MOUNT_SELECTOR"`
	// MountImmediately mounts without waiting for the router.
	MountImmediately bool `yaml:"mountImmediately" env:"MOUNT_IMMEDIATELY"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
	// Entry is the file inside the server out dir that exports render.
	Entry string `yaml:"entry" env:"ENTRY"`
	Node  string `yaml:"node" env:"NODE"`
	Dev   bool   `yaml:"dev" env:"DEV"`
}

func Defaults() *Config {
	return &Config{
		Base:         "/",
		Mode:         "production",
		AssetsDir:    "assets",
		ClientOutDir: "dist/client",
		ServerOutDir: "dist/server",
		SSREntry:     "src/entry/server.js",
		ClientEntry:  "src/entry/client.js",
		Hydration: HydrationConfig{
			AppImport:     "../main",
			HydrateImport: "fastify-vite/client/vue",
			MountSelector: "#app",
		},
		Server: ServerConfig{
			Addr:  ":3000",
			Entry: "server.js",
			Node:  "node",
		},
	}
}

// Load builds the effective configuration for the project in root. An empty
// file means root/vitebridge.yaml and may be absent; an explicit file must exist.
// flags may be nil; its zero fields are ignored. overrides run last and may
// set zero values.
func Load(root, file string, flags *Config, overrides ...func(*Config)) (*Config, error) {
	explicit := file != ""
	if !explicit {
		file = filepath.Join(root, FileName)
	}

	b := newBuilder().
		with(Defaults()).
		withFile(file, explicit).
		withEnv().
		with(flags).
		withOverrides(overrides...)

	cfg, err := b.build()
	if err != nil {
		return nil, err
	}

	if cfg.Root == "" {
		cfg.Root = root
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = abs

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Mode == "production"
}

func (c *Config) validate() error {
	var errs []error
	if c.Mode == "" {
		errs = append(errs, errors.New("mode cannot be empty"))
	}
	if c.ClientOutDir == "" {
		errs = append(errs, errors.New("clientOutDir cannot be empty"))
	}
	if c.ServerOutDir == "" {
		errs = append(errs, errors.New("serverOutDir cannot be empty"))
	}
	if c.ClientOutDir != "" && filepath.Clean(c.ClientOutDir) == filepath.Clean(c.ServerOutDir) {
		errs = append(errs, errors.New("clientOutDir and serverOutDir must differ"))
	}
	return errors.Join(errs...)
}

// Resolve produces the resolved build config for one pass. An ssr pass builds
// SSREntry into ServerOutDir, a client pass builds into ClientOutDir.
func (c *Config) Resolve(ssr bool) core.ResolvedConfig {
	resolved := core.ResolvedConfig{
		Base:         core.NormalizeBase(c.Base),
		Root:         c.Root,
		Mode:         c.Mode,
		IsProduction: c.IsProduction(),
		Build: core.BuildOptions{
			AssetsDir:   c.AssetsDir,
			OutDir:      c.ClientOutDir,
			EmptyOutDir: !c.KeepOutDir,
		},
	}
	if ssr {
		resolved.Build.OutDir = c.ServerOutDir
		resolved.Build.SSR = c.SSREntry
	}
	return resolved
}

func (c *Config) HydrationEntry() (core.HydrationEntry, error) {
	entry := core.HydrationEntry{
		AppImport:        c.Hydration.AppImport,
		HydrateImport:    c.Hydration.HydrateImport,
		MountSelector:    c.Hydration.MountSelector,
		MountImmediately: c.Hydration.MountImmediately,
	}

	if c.Hydration.App != "" {
		importPath, err := core.ImportPath(c.absolute(c.ClientEntry), c.absolute(c.Hydration.App))
		if err != nil {
			return core.HydrationEntry{}, fmt.Errorf("failed to resolve app import: %w", err)
		}
		entry.AppImport = importPath
	}

	return entry, nil
}

func (c *Config) absolute(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
