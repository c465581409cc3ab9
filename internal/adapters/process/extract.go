package process

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ExtractServerBundle copies dir out of fsys into a temp directory so Node can
// import it. The returned cleanup removes the copy.
func ExtractServerBundle(fsys iofs.FS, dir string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "vitebridge-ssr-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create SSR temp dir: %w", err)
	}

	cleanup := func() {
		_ = os.RemoveAll(tempDir)
	}

	root := path.Clean(filepath.ToSlash(dir))
	err = iofs.WalkDir(fsys, root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		dest := filepath.Join(tempDir, filepath.FromSlash(bundlePath(root, p)))
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}

		data, err := iofs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read SSR bundle file %s: %w", p, err)
		}
		return os.WriteFile(dest, data, 0644)
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to extract SSR bundle from %s: %w", dir, err)
	}

	return tempDir, cleanup, nil
}

// bundlePath returns p relative to root, both slash separated and clean.
func bundlePath(root, p string) string {
	switch {
	case p == root:
		return "."
	case root == ".":
		return p
	default:
		return strings.TrimPrefix(p, root+"/")
	}
}
