package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCachedConfig(t *testing.T) {
	tests := []struct {
		name string
		ssr  string
		want OutDirs
	}{
		{name: "client pass", ssr: "", want: OutDirs{ClientOutDir: "dist/out"}},
		{name: "server pass", ssr: "src/entry/server.js", want: OutDirs{ServerOutDir: "dist/out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewCachedConfig(ResolvedConfig{
				Base: "/base/",
				Root: "/root",
				Build: BuildOptions{
					AssetsDir: "static",
					OutDir:    "dist/out",
					SSR:       tt.ssr,
				},
			})

			assert.Equal(t, "/base/", cfg.Base)
			assert.Equal(t, "/root", cfg.Root)
			assert.Equal(t, "static", cfg.Build.AssetsDir)
			require.NotNil(t, cfg.Fastify)
			assert.Equal(t, tt.want, *cfg.Fastify)
		})
	}
}

func TestMergeOutDirs(t *testing.T) {
	tests := []struct {
		name     string
		previous OutDirs
		current  OutDirs
		want     OutDirs
	}{
		{
			name:     "previous fills gaps",
			previous: OutDirs{ClientOutDir: "dist/client"},
			current:  OutDirs{ServerOutDir: "dist/server"},
			want:     OutDirs{ClientOutDir: "dist/client", ServerOutDir: "dist/server"},
		},
		{
			name:     "current wins",
			previous: OutDirs{ClientOutDir: "old/client", ServerOutDir: "dist/server"},
			current:  OutDirs{ClientOutDir: "new/client"},
			want:     OutDirs{ClientOutDir: "new/client", ServerOutDir: "dist/server"},
		},
		{
			name:    "empty previous",
			current: OutDirs{ClientOutDir: "dist/client"},
			want:    OutDirs{ClientOutDir: "dist/client"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeOutDirs(tt.previous, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCachedConfig(t *testing.T) {
	cfg, err := ParseCachedConfig([]byte(`{"base":"/","root":"/r","build":{"assetsDir":"assets"},"fastify":{"serverOutDir":"s"}}`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Fastify)
	assert.Equal(t, "s", cfg.Fastify.ServerOutDir)
	assert.Empty(t, cfg.Fastify.ClientOutDir)

	cfg, err = ParseCachedConfig([]byte(`{"base":"/"}`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Fastify)

	_, err = ParseCachedConfig([]byte(`nope`))
	assert.ErrorIs(t, err, ErrCachedConfigInvalid)
}

func TestMarshalCachedConfig(t *testing.T) {
	data, err := MarshalCachedConfig(CachedConfig{
		Base:    "/",
		Root:    "/r",
		Build:   CachedBuild{AssetsDir: "assets"},
		Fastify: &OutDirs{ServerOutDir: "dist/server"},
	})
	require.NoError(t, err)

	want := `{
  "base": "/",
  "root": "/r",
  "build": {
    "assetsDir": "assets"
  },
  "fastify": {
    "serverOutDir": "dist/server"
  }
}`
	assert.Equal(t, want, string(data))
}

func TestMarshalCachedConfig_NoHTMLEscaping(t *testing.T) {
	cfg := CachedConfig{
		Base:    "/",
		Root:    "/home/a&b/<x>",
		Build:   CachedBuild{AssetsDir: "assets"},
		Fastify: &OutDirs{ClientOutDir: "dist/client"},
	}

	data, err := MarshalCachedConfig(cfg)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"root": "/home/a&b/<x>"`)
	assert.NotContains(t, string(data), `\u0026`)
	assert.False(t, strings.HasSuffix(string(data), "\n"))

	parsed, err := ParseCachedConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, *parsed)
}

func TestCachedConfigPath(t *testing.T) {
	assert.Equal(t, "/p/node_modules/.cache/@fastify/vite/vite.config.json", CachedConfigPath(ProjectCacheDir("/p")))
}
