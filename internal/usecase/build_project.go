package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/vitebridge/internal/adapters/cli"
	"github.com/3-lines-studio/vitebridge/internal/config"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/logger"
)

type BuildInput struct {
	Config *config.Config
	// SkipSSR builds only the client bundle.
	SkipSSR bool
}

type BuildOutput struct {
	Success bool
	Cached  core.CachedConfig
	Error   error
}

type BuildService struct {
	bundler Bundler
	fs      FileSystem
	cli     *cli.Output
	log     *logger.Logger
}

func NewBuildService(bundler Bundler, fs FileSystem, out *cli.Output, log *logger.Logger) *BuildService {
	if log == nil {
		log = logger.Nop()
	}
	return &BuildService{
		bundler: bundler,
		fs:      fs,
		cli:     out,
		log:     log,
	}
}

type buildPass struct {
	name string
	ssr  bool
}

// BuildProject runs the client pass and then the server pass. Every pass gets
// its own bridge, so the cached config on disk is what joins them.
func (s *BuildService) BuildProject(ctx context.Context, input BuildInput) BuildOutput {
	cfg := input.Config
	s.cli.PrintHeader("Vite Build")

	passes := []buildPass{{name: "client", ssr: false}}
	if !input.SkipSSR && cfg.SSREntry != "" {
		passes = append(passes, buildPass{name: "server", ssr: true})
	}

	cacheDir := core.ProjectCacheDir(cfg.Root)
	report := cli.NewBuildReport(s.cli, core.CachedConfigPath(cacheDir))
	report.SetPassCount(len(passes))

	if cfg.Hydration.Generate {
		step := report.StartStep("client", "Writing hydration entry")
		path, err := s.WriteHydrationEntry(cfg)
		report.EndStep(step, err)
		if err != nil {
			report.AddError("client", "Failed to write hydration entry", []string{err.Error()})
			report.Render()
			return BuildOutput{Error: err}
		}
		s.log.Debug().Str("path", path).Msg("wrote hydration entry")
	}

	var cached core.CachedConfig
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			report.Render()
			return BuildOutput{Error: err}
		}

		step := report.StartStep(pass.name, fmt.Sprintf("Building %s bundle", pass.name))
		bridge := NewConfigBridge(s.fs, cacheDir, s.log.Child(pass.name))

		err := s.runPass(ctx, bridge, cfg.Resolve(pass.ssr))
		report.EndStep(step, err)
		if err != nil {
			report.AddError(pass.name, firstLine(err.Error()), detailLines(err.Error()))
			report.Render()
			return BuildOutput{Error: fmt.Errorf("%s build failed: %w", pass.name, err)}
		}

		cached = bridge.Config()
	}

	if cfg.IsProduction() {
		report.SetCached(cached.Fastify)
	} else {
		report.AddWarning("config", "Cached config not written", []string{"mode is " + cfg.Mode + ", only production builds are cached"})
	}

	report.Render()
	return BuildOutput{Success: !report.HasFailures(), Cached: cached}
}

// runPass follows the build tool's hook order: config resolution, bundle
// write (including out dir cleanup), then the write-bundle hook.
func (s *BuildService) runPass(ctx context.Context, bridge *ConfigBridge, resolved core.ResolvedConfig) error {
	if err := bridge.ConfigResolved(ctx, resolved); err != nil {
		return err
	}
	if err := s.bundler.Build(ctx, resolved); err != nil {
		return err
	}
	return bridge.WriteBundle(ctx)
}

// WriteHydrationEntry renders the client entry into cfg.ClientEntry and
// returns the absolute path written.
func (s *BuildService) WriteHydrationEntry(cfg *config.Config) (string, error) {
	entry, err := cfg.HydrationEntry()
	if err != nil {
		return "", err
	}

	content, err := core.RenderHydrationEntry(entry)
	if err != nil {
		return "", fmt.Errorf("failed to render hydration entry: %w", err)
	}

	path := cfg.ClientEntry
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Root, path)
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create entry dir: %w", err)
	}
	if err := s.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write hydration entry: %w", err)
	}
	return path, nil
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return line
}

func detailLines(msg string) []string {
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	var details []string
	for _, line := range lines[1:] {
		if line = strings.TrimSpace(line); line != "" {
			details = append(details, line)
		}
	}
	return details
}
