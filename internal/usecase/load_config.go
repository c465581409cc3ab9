package usecase

import (
	"fmt"

	"github.com/3-lines-studio/vitebridge/internal/core"
	"go.trai.ch/zerr"
)

// ServerPaths are the absolute locations the production server reads from.
type ServerPaths struct {
	ClientDir   string
	ServerDir   string
	AssetPrefix string
	Base        string
}

// LoadCachedConfig reads the cache file written by the bridge at the end of
// a production build.
func LoadCachedConfig(fs FileSystem, path string) (*core.CachedConfig, error) {
	if !fs.FileExists(path) {
		return nil, zerr.With(fmt.Errorf("%w", core.ErrCachedConfigMissing), "path", path)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read cached config"), "path", path)
	}

	cfg, err := core.ParseCachedConfig(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if cfg.Fastify == nil {
		return nil, zerr.With(fmt.Errorf("%w", core.ErrNotBridgeConfig), "path", path)
	}
	if cfg.Fastify.ClientOutDir == "" {
		return nil, zerr.With(fmt.Errorf("%w", core.ErrClientOutDirMissing), "path", path)
	}

	return cfg, nil
}

func ResolveServerPaths(cfg *core.CachedConfig) ServerPaths {
	paths := ServerPaths{
		Base:        core.NormalizeBase(cfg.Base),
		AssetPrefix: core.AssetURLPrefix(cfg.Base, cfg.Build.AssetsDir),
	}
	if cfg.Fastify != nil {
		paths.ClientDir = core.ResolveOutDir(cfg.Root, cfg.Fastify.ClientOutDir)
		paths.ServerDir = core.ResolveOutDir(cfg.Root, cfg.Fastify.ServerOutDir)
	}
	return paths
}
