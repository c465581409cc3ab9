package usecase

import (
	"context"

	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/logger"
	"go.trai.ch/zerr"
)

const BridgeName = "vite-fastify"

// ConfigBridge persists the resolved build config so the production server
// can start without the build tool. One bridge serves one build pass:
// ConfigResolved runs first, WriteBundle after the bundle has been written.
type ConfigBridge struct {
	fs       FileSystem
	cacheDir string
	log      *logger.Logger

	resolved      core.ResolvedConfig
	configToWrite core.CachedConfig
}

func NewConfigBridge(fs FileSystem, cacheDir string, log *logger.Logger) *ConfigBridge {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfigBridge{
		fs:       fs,
		cacheDir: cacheDir,
		log:      log,
	}
}

func (b *ConfigBridge) Name() string {
	return BridgeName
}

func (b *ConfigBridge) Path() string {
	return core.CachedConfigPath(b.cacheDir)
}

// Config returns the record that WriteBundle will persist.
func (b *ConfigBridge) Config() core.CachedConfig {
	return b.configToWrite
}

func (b *ConfigBridge) ConfigResolved(ctx context.Context, resolved core.ResolvedConfig) error {
	// Dev resolutions can be partial and there is nothing to persist for them.
	if !resolved.IsProduction {
		b.log.Debug().Str("mode", resolved.Mode).Msg("skipping non-production config")
		return nil
	}

	b.resolved = resolved
	b.configToWrite = core.NewCachedConfig(resolved)

	path := b.Path()
	if !b.fs.FileExists(path) {
		return nil
	}

	data, err := b.fs.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read cached config"), "path", path)
	}

	existing, err := core.ParseCachedConfig(data)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	if existing.Fastify == nil {
		return nil
	}

	merged, err := core.MergeOutDirs(*existing.Fastify, *b.configToWrite.Fastify)
	if err != nil {
		return err
	}
	b.configToWrite.Fastify = &merged

	b.log.Debug().
		Str("path", path).
		Str("clientOutDir", merged.ClientOutDir).
		Str("serverOutDir", merged.ServerOutDir).
		Msg("merged previous cached config")

	return nil
}

// WriteBundle must run after the out dir has been emptied and written so the
// cache file is never removed by the cleanup.
func (b *ConfigBridge) WriteBundle(ctx context.Context) error {
	if !b.resolved.IsProduction {
		return nil
	}

	if err := b.fs.MkdirAll(b.cacheDir, 0755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache dir"), "path", b.cacheDir)
	}

	data, err := core.MarshalCachedConfig(b.configToWrite)
	if err != nil {
		return err
	}

	path := b.Path()
	if err := b.fs.WriteFile(path, data, 0644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cached config"), "path", path)
	}

	b.log.Info().Str("plugin", BridgeName).Str("path", path).Msg("wrote cached config")
	return nil
}
