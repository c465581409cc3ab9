package http

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/3-lines-studio/vitebridge/internal/logger"
	"go.trai.ch/zerr"
)

type Renderer interface {
	Render(ctx context.Context, url string) (core.RenderedPage, error)
}

type PageHandler struct {
	fs        fs.FileSystem
	indexPath string
	renderer  Renderer
	mountID   string
	isDev     bool
	log       *logger.Logger

	once  sync.Once
	shell string
	err   error
}

type PageHandlerOptions struct {
	// IndexPath is the index.html emitted by the client pass.
	IndexPath string
	// Renderer is nil for client-only apps; the shell is then served as-is.
	Renderer Renderer
	MountID  string
	IsDev    bool
	Log      *logger.Logger
}

func NewPageHandler(fsys fs.FileSystem, opts PageHandlerOptions) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	mountID := strings.TrimPrefix(opts.MountID, "#")
	if mountID == "" {
		mountID = "app"
	}
	return &PageHandler{
		fs:        fsys,
		indexPath: opts.IndexPath,
		renderer:  opts.Renderer,
		mountID:   mountID,
		isDev:     opts.IsDev,
		log:       log,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	shell, err := h.loadShell()
	if err != nil {
		h.serveError(w, err)
		return
	}

	if h.renderer == nil {
		h.serveHTML(w, shell)
		return
	}

	page, err := h.renderer.Render(req.Context(), req.URL.RequestURI())
	if err != nil {
		h.log.Error().Err(err).Str("url", req.URL.RequestURI()).Msg("render failed")
		h.serveError(w, err)
		return
	}

	h.serveHTML(w, core.InjectPage(shell, page, h.mountID))
}

// loadShell reads index.html once; the build output does not change while
// the server runs.
func (h *PageHandler) loadShell() (string, error) {
	h.once.Do(func() {
		if !h.fs.FileExists(h.indexPath) {
			h.err = zerr.With(zerr.Wrap(core.ErrIndexHTMLMissing, "failed to load page shell"), "path", h.indexPath)
			return
		}
		data, err := h.fs.ReadFile(h.indexPath)
		if err != nil {
			h.err = zerr.With(zerr.Wrap(err, "failed to read page shell"), "path", h.indexPath)
			return
		}
		h.shell = string(data)
	})
	return h.shell, h.err
}

func (h *PageHandler) serveHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *PageHandler) serveError(w http.ResponseWriter, err error) {
	data := errorData{
		Message: err.Error(),
		IsDev:   h.isDev,
	}

	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, data); err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

type errorData struct {
	Message string
	IsDev   bool
}

var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>Internal Server Error</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else}}
    <p>An error occurred while processing your request.</p>
    {{end}}
</body>
</html>`))
