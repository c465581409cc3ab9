package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/3-lines-studio/vitebridge/internal/adapters/cli"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := New(cli.NewWriterOutput(&buf, &buf))
	c.SetArgs(args)
	err := c.Execute(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "vitebridge version dev\n", out)
}

func TestEntryStdout(t *testing.T) {
	root := t.TempDir()

	out, err := execute(t, "entry", "--root", root, "--stdout", "--mount", "#root")
	require.NoError(t, err)
	assert.Contains(t, out, `import { createApp } from "../main"`)
	assert.Contains(t, out, `app.mount("#root")`)
	assert.NoFileExists(t, filepath.Join(root, "src", "entry", "client.js"))
}

func TestEntryWritesFile(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "entry", "--root", root, "--app", "src/app.js")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "src", "entry", "client.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `import { createApp } from "../app"`)
}

func TestConfigMissingBuild(t *testing.T) {
	_, err := execute(t, "config", "--root", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCachedConfigMissing)
}

func TestConfigPrintsCachedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, core.CachedConfigPath(core.ProjectCacheDir(root)), `{
  "base": "/app/",
  "root": "`+root+`",
  "build": { "assetsDir": "static" },
  "fastify": { "clientOutDir": "dist/client", "serverOutDir": "dist/server" }
}`, 0644)

	out, err := execute(t, "config", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, `"clientOutDir": "dist/client"`)

	out, err = execute(t, "config", "--root", root, "--paths")
	require.NoError(t, err)
	assert.Contains(t, out, "/app/static/")
	assert.Contains(t, out, filepath.Join(root, "dist", "server"))
}

func TestBuildWritesCachedConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the vite binary")
	}

	root := t.TempDir()
	argsLog := filepath.Join(root, "args.log")
	script := filepath.Join(root, "fake-vite.sh")
	writeFile(t, script, "#!/bin/sh\necho \"$@\" >> "+argsLog+"\n", 0755)

	out, err := execute(t, "build", "--root", root, "--vite", script, "--generate-entry")
	require.NoError(t, err, out)

	cached, err := os.ReadFile(core.CachedConfigPath(core.ProjectCacheDir(root)))
	require.NoError(t, err)
	assert.Contains(t, string(cached), `"clientOutDir": "dist/client"`)
	assert.Contains(t, string(cached), `"serverOutDir": "dist/server"`)

	args, err := os.ReadFile(argsLog)
	require.NoError(t, err)
	assert.Contains(t, string(args), "--outDir dist/client")
	assert.Contains(t, string(args), "--ssr src/entry/server.js")

	assert.FileExists(t, filepath.Join(root, "src", "entry", "client.js"))
}

func TestBuildKeepOutDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the vite binary")
	}

	tests := []struct {
		name      string
		file      string
		args      []string
		wantEmpty bool
	}{
		{name: "default empties", wantEmpty: true},
		{name: "flag keeps", args: []string{"--keep-out-dir"}, wantEmpty: false},
		{name: "file keeps", file: "keepOutDir: true\n", wantEmpty: false},
		{name: "flag false undoes file", file: "keepOutDir: true\n", args: []string{"--keep-out-dir=false"}, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(root, "vitebridge.yaml"), tt.file, 0644)
			}
			argsLog := filepath.Join(root, "args.log")
			script := filepath.Join(root, "fake-vite.sh")
			writeFile(t, script, "#!/bin/sh\necho \"$@\" >> "+argsLog+"\n", 0755)

			args := append([]string{"build", "--root", root, "--vite", script, "--skip-ssr"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err, out)

			data, err := os.ReadFile(argsLog)
			require.NoError(t, err)
			if tt.wantEmpty {
				assert.Contains(t, string(data), "--emptyOutDir\n")
			} else {
				assert.Contains(t, string(data), "--emptyOutDir=false")
			}
		})
	}
}

func TestBuildFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the vite binary")
	}

	root := t.TempDir()
	script := filepath.Join(root, "fake-vite.sh")
	writeFile(t, script, "#!/bin/sh\necho 'Could not resolve entry' >&2\nexit 1\n", 0755)

	_, err := execute(t, "build", "--root", root, "--vite", script)
	require.Error(t, err)
	assert.NoFileExists(t, core.CachedConfigPath(core.ProjectCacheDir(root)))
}

func TestDoctorReportsMissingVite(t *testing.T) {
	_, err := execute(t, "doctor", "--root", t.TempDir())
	assert.ErrorIs(t, err, errDoctorFailed)
}
