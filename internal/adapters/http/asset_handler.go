package http

import (
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/3-lines-studio/vitebridge/internal/adapters/fs"
	"github.com/3-lines-studio/vitebridge/internal/core"
	"github.com/cespare/xxhash/v2"
)

// AssetHandler serves files from the client out dir. Requests are expected to
// have the URL prefix already stripped.
type AssetHandler struct {
	fs        fs.FileSystem
	dir       string
	immutable bool
}

// NewAssetHandler serves dir from fsys. Immutable marks hashed build assets
// for long term caching.
func NewAssetHandler(fsys fs.FileSystem, dir string, immutable bool) http.Handler {
	return &AssetHandler{
		fs:        fsys,
		dir:       dir,
		immutable: immutable,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name, ok := h.resolve(req.URL.Path)
	if !ok || !h.fs.FileExists(name) {
		http.NotFound(w, req)
		return
	}

	data, err := h.fs.ReadFile(name)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(data), 16) + `"`
	w.Header().Set("ETag", etag)
	if h.immutable {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}

	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(name))
	if req.Method == http.MethodHead {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		return
	}
	_, _ = w.Write(data)
}

func (h *AssetHandler) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	return filepath.Join(h.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), true
}
