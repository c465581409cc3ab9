package vitebridge

import (
	"errors"
	iofs "io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/vitebridge/internal/adapters/env"
	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	apphttp "github.com/3-lines-studio/vitebridge/internal/adapters/http"
	"github.com/3-lines-studio/vitebridge/internal/adapters/process"
	"github.com/3-lines-studio/vitebridge/internal/config"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/logger"
	"github.com/3-lines-studio/vitebridge/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Renderer = apphttp.Renderer

type RenderedPage = core.RenderedPage

type CachedConfig = core.CachedConfig

type Config = config.Config

type Option func(*App)

// WithConfig replaces the configuration loaded from the working directory.
func WithConfig(cfg *Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithAssetsFS serves the build output from fsys instead of the disk. fsys
// must contain the cache file and the out dirs at their project relative paths.
func WithAssetsFS(fsys iofs.FS) Option {
	return func(a *App) { a.assetsFS = fsys }
}

// WithRenderer replaces the Node SSR runtime.
func WithRenderer(r Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithClientOnly serves index.html without server rendering.
func WithClientOnly() Option {
	return func(a *App) { a.clientOnly = true }
}

func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.log = l }
}

func WithMode(mode core.Mode) Option {
	return func(a *App) {
		a.mode = mode
		a.modeSet = true
	}
}

type App struct {
	cfg        *Config
	assetsFS   iofs.FS
	renderer   Renderer
	clientOnly bool
	log        *logger.Logger
	mode       core.Mode
	modeSet    bool

	fs      fs.FileSystem
	cached  *core.CachedConfig
	paths   usecase.ServerPaths
	stopper func() error
}

// New prepares the server side of a Vite app. In production it reads the
// config cached by the build; in dev (VITEBRIDGE_DEV=1) it derives the same
// paths from the project config.
func New(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.Nop()
	}
	if a.cfg == nil {
		cfg, err := config.Load(".", "", nil)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}
	if !a.modeSet {
		a.mode = env.DetectMode()
		if a.cfg.Server.Dev {
			a.mode = core.ModeDev
		}
	}

	if a.assetsFS != nil {
		a.fs = fs.NewEmbedFileSystem(a.assetsFS)
	} else {
		a.fs = fs.NewOSFileSystem()
	}

	if err := a.loadPaths(); err != nil {
		return nil, err
	}

	if err := a.startRenderer(); err != nil {
		return nil, err
	}

	a.log.Info().
		Str("mode", a.mode.String()).
		Str("base", a.paths.Base).
		Str("clientDir", a.paths.ClientDir).
		Str("serverDir", a.paths.ServerDir).
		Bool("ssr", a.renderer != nil).
		Msg("vitebridge ready")

	return a, nil
}

func (a *App) loadPaths() error {
	if a.mode == core.ModeDev {
		cached := core.NewCachedConfig(a.cfg.Resolve(false))
		cached.Fastify.ServerOutDir = a.cfg.ServerOutDir
		a.cached = &cached
		a.paths = usecase.ResolveServerPaths(&cached)
		return nil
	}

	cachePath := core.CachedConfigPath(core.ProjectCacheDir(a.cfg.Root))
	if a.assetsFS != nil {
		cachePath = core.CachedConfigPath(core.CacheDir)
	}

	cached, err := usecase.LoadCachedConfig(a.fs, cachePath)
	if err != nil {
		return err
	}
	a.cached = cached
	a.paths = usecase.ResolveServerPaths(cached)

	if a.assetsFS != nil {
		// The cached root belongs to the build machine.
		a.paths.ClientDir = embeddedDir(cached.Root, cached.Fastify.ClientOutDir)
		a.paths.ServerDir = embeddedDir(cached.Root, cached.Fastify.ServerOutDir)
	}
	return nil
}

// embeddedDir maps an out dir recorded by the build to its path inside the
// embedded filesystem, which is rooted at the project root.
func embeddedDir(root, outDir string) string {
	if outDir == "" {
		return ""
	}
	if filepath.IsAbs(outDir) && root != "" {
		if rel, err := filepath.Rel(root, outDir); err == nil {
			outDir = rel
		}
	}
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(outDir)), "/")
}

func (a *App) startRenderer() error {
	if a.renderer != nil || a.clientOnly || a.paths.ServerDir == "" {
		return nil
	}

	serverDir := a.paths.ServerDir
	var cleanup func()
	if a.assetsFS != nil {
		dir, c, err := process.ExtractServerBundle(a.assetsFS, serverDir)
		if err != nil {
			return err
		}
		serverDir, cleanup = dir, c
	}

	entry := filepath.Join(serverDir, a.cfg.Server.Entry)
	if a.mode == core.ModeDev && a.assetsFS == nil && !a.fs.FileExists(entry) {
		a.log.Warn().Str("entry", entry).Msg("server bundle not built, serving client shell only")
		return nil
	}

	r, err := process.NewRenderer(process.RendererOptions{
		Node:    a.cfg.Server.Node,
		Entry:   entry,
		Cleanup: cleanup,
	})
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return err
	}

	a.renderer = r
	a.stopper = r.Stop
	return nil
}

// Cached returns the build config the server is running from.
func (a *App) Cached() CachedConfig {
	return *a.cached
}

// Handler serves hashed assets, public files and server-rendered pages, all
// under the configured base path. Routes registered by api take precedence
// over page rendering.
func (a *App) Handler(api ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(apphttp.WithLogging(a.log))

	assets := apphttp.NewAssetHandler(a.fs, filepath.Join(a.paths.ClientDir, a.cached.Build.AssetsDir), true)
	public := apphttp.NewAssetHandler(a.fs, a.paths.ClientDir, false)
	pages := apphttp.NewPageHandler(a.fs, apphttp.PageHandlerOptions{
		IndexPath: filepath.Join(a.paths.ClientDir, "index.html"),
		Renderer:  a.renderer,
		MountID:   a.cfg.Hydration.MountSelector,
		IsDev:     a.mode == core.ModeDev,
		Log:       a.log,
	})

	base := strings.TrimSuffix(a.paths.Base, "/")
	prefix := strings.TrimSuffix(a.paths.AssetPrefix, "/")

	r.Handle(prefix+"/*", http.StripPrefix(prefix, assets))

	for _, register := range api {
		register(r)
	}

	fallback := a.publicOrPage(base, public, pages)
	r.Get(base+"/*", fallback.ServeHTTP)
	r.Head(base+"/*", fallback.ServeHTTP)
	if base != "" {
		r.Get(base, http.RedirectHandler(base+"/", http.StatusMovedPermanently).ServeHTTP)
	}

	return r
}

// publicOrPage serves files copied from Vite's public dir when they exist and
// renders the page otherwise. index.html is never served raw. Pages see the
// full URL, base included, since the app router is configured with it.
func (a *App) publicOrPage(base string, public, pages http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := path.Clean("/" + strings.TrimPrefix(req.URL.Path, base))
		if name != "/" && name != "/index.html" && path.Ext(name) != "" {
			if a.fs.FileExists(filepath.Join(a.paths.ClientDir, filepath.FromSlash(strings.TrimPrefix(name, "/")))) {
				r := req.Clone(req.Context())
				r.URL.Path = name
				r.URL.RawPath = ""
				public.ServeHTTP(w, r)
				return
			}
		}
		pages.ServeHTTP(w, req)
	})
}

func (a *App) Stop() error {
	if a.stopper != nil {
		return a.stopper()
	}
	return nil
}

// IsCachedConfigMissing reports whether err means the production build has
// not been run.
func IsCachedConfigMissing(err error) bool {
	return errors.Is(err, core.ErrCachedConfigMissing)
}
