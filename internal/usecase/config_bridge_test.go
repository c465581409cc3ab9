package usecase

import (
	"context"
	"encoding/json"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFS counts every call that touches the disk.
type recordingFS struct {
	*fs.OSFileSystem
	reads  int
	writes int
}

func newRecordingFS() *recordingFS {
	return &recordingFS{OSFileSystem: fs.NewOSFileSystem()}
}

func (r *recordingFS) ReadFile(path string) ([]byte, error) {
	r.reads++
	return r.OSFileSystem.ReadFile(path)
}

func (r *recordingFS) FileExists(path string) bool {
	r.reads++
	return r.OSFileSystem.FileExists(path)
}

func (r *recordingFS) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	r.writes++
	return r.OSFileSystem.WriteFile(path, data, perm)
}

func (r *recordingFS) MkdirAll(path string, perm iofs.FileMode) error {
	r.writes++
	return r.OSFileSystem.MkdirAll(path, perm)
}

func resolvedFor(root string, ssr bool) core.ResolvedConfig {
	resolved := core.ResolvedConfig{
		Base:         "/",
		Root:         root,
		Mode:         "production",
		IsProduction: true,
		Build: core.BuildOptions{
			AssetsDir: "assets",
			OutDir:    "dist/client",
		},
	}
	if ssr {
		resolved.Build.OutDir = "dist/server"
		resolved.Build.SSR = "src/entry/server.js"
	}
	return resolved
}

func runBridge(t *testing.T, fsys FileSystem, cacheDir string, resolved core.ResolvedConfig) {
	t.Helper()
	ctx := context.Background()
	bridge := NewConfigBridge(fsys, cacheDir, nil)
	require.NoError(t, bridge.ConfigResolved(ctx, resolved))
	require.NoError(t, bridge.WriteBundle(ctx))
}

func readCache(t *testing.T, cacheDir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(core.CachedConfigPath(cacheDir))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestConfigBridge_Name(t *testing.T) {
	assert.Equal(t, "vite-fastify", NewConfigBridge(fs.NewOSFileSystem(), t.TempDir(), nil).Name())
}

func TestConfigBridge_ServerPassWithoutCache(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")

	runBridge(t, fs.NewOSFileSystem(), cacheDir, resolvedFor(root, true))

	doc := readCache(t, cacheDir)
	assert.Equal(t, "/", doc["base"])
	assert.Equal(t, root, doc["root"])
	assert.Equal(t, map[string]any{"assetsDir": "assets"}, doc["build"])
	assert.Equal(t, map[string]any{"serverOutDir": "dist/server"}, doc["fastify"])
}

func TestConfigBridge_ClientPassWithoutCache(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")

	runBridge(t, fs.NewOSFileSystem(), cacheDir, resolvedFor(root, false))

	doc := readCache(t, cacheDir)
	assert.Equal(t, map[string]any{"clientOutDir": "dist/client"}, doc["fastify"])
}

func TestConfigBridge_PassesAccumulate(t *testing.T) {
	tests := []struct {
		name  string
		order []bool
	}{
		{name: "client then server", order: []bool{false, true}},
		{name: "server then client", order: []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			cacheDir := filepath.Join(root, "cache")
			fsys := fs.NewOSFileSystem()

			for _, ssr := range tt.order {
				runBridge(t, fsys, cacheDir, resolvedFor(root, ssr))
			}

			doc := readCache(t, cacheDir)
			assert.Equal(t, map[string]any{
				"clientOutDir": "dist/client",
				"serverOutDir": "dist/server",
			}, doc["fastify"])
		})
	}
}

func TestConfigBridge_NewValuesWin(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	fsys := fs.NewOSFileSystem()

	runBridge(t, fsys, cacheDir, resolvedFor(root, false))
	runBridge(t, fsys, cacheDir, resolvedFor(root, true))

	rebuilt := resolvedFor(root, false)
	rebuilt.Build.OutDir = "out/client"
	rebuilt.Base = "/app/"
	runBridge(t, fsys, cacheDir, rebuilt)

	doc := readCache(t, cacheDir)
	assert.Equal(t, "/app/", doc["base"])
	assert.Equal(t, map[string]any{
		"clientOutDir": "out/client",
		"serverOutDir": "dist/server",
	}, doc["fastify"])
}

func TestConfigBridge_NonProductionTouchesNothing(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	fsys := newRecordingFS()

	resolved := resolvedFor(root, true)
	resolved.IsProduction = false
	resolved.Mode = "development"

	bridge := NewConfigBridge(fsys, cacheDir, nil)
	require.NoError(t, bridge.ConfigResolved(context.Background(), resolved))
	require.NoError(t, bridge.WriteBundle(context.Background()))

	assert.Zero(t, fsys.reads)
	assert.Zero(t, fsys.writes)
	_, err := os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigBridge_IgnoresCacheWithoutFastifyRecord(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(core.CachedConfigPath(cacheDir), []byte(`{"base":"/old/"}`), 0644))

	runBridge(t, fs.NewOSFileSystem(), cacheDir, resolvedFor(root, true))

	doc := readCache(t, cacheDir)
	assert.Equal(t, "/", doc["base"])
	assert.Equal(t, map[string]any{"serverOutDir": "dist/server"}, doc["fastify"])
}

func TestConfigBridge_CorruptCachePropagates(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(core.CachedConfigPath(cacheDir), []byte(`{not json`), 0644))

	bridge := NewConfigBridge(fs.NewOSFileSystem(), cacheDir, nil)
	err := bridge.ConfigResolved(context.Background(), resolvedFor(root, false))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCachedConfigInvalid)
}

func TestConfigBridge_WriteFailurePropagates(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0644))

	bridge := NewConfigBridge(fs.NewOSFileSystem(), filepath.Join(blocker, "cache"), nil)
	require.NoError(t, bridge.ConfigResolved(context.Background(), resolvedFor(root, false)))

	err := bridge.WriteBundle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create cache dir")
}

func TestConfigBridge_WritesPrettyJSON(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")

	runBridge(t, fs.NewOSFileSystem(), cacheDir, resolvedFor(root, false))

	data, err := os.ReadFile(core.CachedConfigPath(cacheDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"base\": \"/\",\n")
	assert.Contains(t, string(data), "\n  \"fastify\": {\n    \"clientOutDir\": \"dist/client\"\n  }")
}
