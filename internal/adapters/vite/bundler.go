package vite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/logger"
)

// Bundler runs `vite build` once per pass in the project root.
type Bundler struct {
	// Command and Args prefix the vite build arguments, e.g. "npx" "vite".
	Command string
	Args    []string
	Stdout  io.Writer
	Stderr  io.Writer
	Log     *logger.Logger
}

func NewBundler(log *logger.Logger) *Bundler {
	if log == nil {
		log = logger.Nop()
	}
	return &Bundler{
		Command: "npx",
		Args:    []string{"vite"},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     log,
	}
}

func BuildArgs(resolved core.ResolvedConfig) []string {
	args := []string{"build"}

	if resolved.Base != "" {
		args = append(args, "--base", resolved.Base)
	}
	if resolved.Mode != "" {
		args = append(args, "--mode", resolved.Mode)
	}
	if resolved.Build.OutDir != "" {
		args = append(args, "--outDir", resolved.Build.OutDir)
	}
	if resolved.Build.AssetsDir != "" {
		args = append(args, "--assetsDir", resolved.Build.AssetsDir)
	}
	// Vite empties an out dir inside root unless told otherwise.
	if resolved.Build.EmptyOutDir {
		args = append(args, "--emptyOutDir")
	} else {
		args = append(args, "--emptyOutDir=false")
	}
	if resolved.IsSSR() {
		args = append(args, "--ssr", resolved.Build.SSR)
	}

	return args
}

func (b *Bundler) Build(ctx context.Context, resolved core.ResolvedConfig) error {
	if resolved.Build.OutDir == "" {
		return core.ErrMissingOutDir
	}

	args := append(append([]string{}, b.Args...), BuildArgs(resolved)...)

	cmd := exec.CommandContext(ctx, b.Command, args...)
	cmd.Dir = resolved.Root
	cmd.Env = os.Environ()
	if resolved.IsProduction {
		cmd.Env = append(cmd.Env, "NODE_ENV=production")
	}

	var stderr bytes.Buffer
	cmd.Stdout = b.Stdout
	cmd.Stderr = &stderr
	if b.Stderr != nil {
		cmd.Stderr = io.MultiWriter(b.Stderr, &stderr)
	}

	b.Log.Debug().
		Str("dir", cmd.Dir).
		Str("cmd", b.Command+" "+strings.Join(args, " ")).
		Msg("running vite build")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("vite build failed: %w", err)
		}
		return fmt.Errorf("vite build failed: %w\n%s", err, msg)
	}

	return nil
}
