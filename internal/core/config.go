package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"dario.cat/mergo"
	"go.trai.ch/zerr"
)

const (
	CacheDir             = "node_modules/.cache/@fastify/vite"
	CachedConfigFileName = "vite.config.json"
)

// BuildOptions is the subset of Vite's resolved build options the bridge reads.
type BuildOptions struct {
	AssetsDir   string
	OutDir      string
	SSR         string
	EmptyOutDir bool
}

// ResolvedConfig mirrors the parts of a resolved Vite config that matter to
// the server. SSR holds the server entry for a server pass and is empty for a
// client pass.
type ResolvedConfig struct {
	Base         string
	Root         string
	Mode         string
	IsProduction bool
	Build        BuildOptions
}

func (c ResolvedConfig) IsSSR() bool {
	return c.Build.SSR != ""
}

type CachedBuild struct {
	AssetsDir string `json:"assetsDir"`
}

// OutDirs is the record that accumulates across the client and server passes.
type OutDirs struct {
	ServerOutDir string `json:"serverOutDir,omitempty"`
	ClientOutDir string `json:"clientOutDir,omitempty"`
}

// CachedConfig is the document persisted to the cache file. A non-nil Fastify
// marks a file written by a production build.
type CachedConfig struct {
	Base    string      `json:"base"`
	Root    string      `json:"root"`
	Build   CachedBuild `json:"build"`
	Fastify *OutDirs    `json:"fastify"`
}

func NewCachedConfig(resolved ResolvedConfig) CachedConfig {
	dirs := &OutDirs{}
	if resolved.IsSSR() {
		dirs.ServerOutDir = resolved.Build.OutDir
	} else {
		dirs.ClientOutDir = resolved.Build.OutDir
	}

	return CachedConfig{
		Base:    resolved.Base,
		Root:    resolved.Root,
		Build:   CachedBuild{AssetsDir: resolved.Build.AssetsDir},
		Fastify: dirs,
	}
}

// MergeOutDirs layers current over previous: fields set in current win and
// fields only present in previous are kept.
func MergeOutDirs(previous, current OutDirs) (OutDirs, error) {
	merged := previous
	if err := mergo.Merge(&merged, current, mergo.WithOverride); err != nil {
		return OutDirs{}, zerr.Wrap(err, "failed to merge out dirs")
	}
	return merged, nil
}

func ParseCachedConfig(data []byte) (*CachedConfig, error) {
	var cfg CachedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCachedConfigInvalid, err)
	}
	return &cfg, nil
}

// MarshalCachedConfig produces the same text as JSON.stringify(cfg, null, 2):
// two-space indent, no HTML escaping and no trailing newline.
func MarshalCachedConfig(cfg CachedConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, zerr.Wrap(err, "failed to marshal cached config")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func CachedConfigPath(cacheDir string) string {
	return filepath.Join(cacheDir, CachedConfigFileName)
}

// ProjectCacheDir returns the cache directory for a project rooted at root.
func ProjectCacheDir(root string) string {
	return filepath.Join(root, filepath.FromSlash(CacheDir))
}
