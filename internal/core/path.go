package core

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizeBase returns base with exactly one leading and one trailing slash.
// Absolute URLs and "./" are not supported by the server and collapse to "/".
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "./" || strings.Contains(base, "://") {
		return "/"
	}
	base = "/" + strings.Trim(base, "/")
	if base == "/" {
		return base
	}
	return base + "/"
}

// AssetURLPrefix is the URL prefix under which Vite emits hashed assets.
func AssetURLPrefix(base, assetsDir string) string {
	dir := strings.Trim(assetsDir, "/")
	if dir == "" {
		return NormalizeBase(base)
	}
	return NormalizeBase(base) + dir + "/"
}

// ResolveOutDir makes outDir absolute against root, the way Vite resolves it.
func ResolveOutDir(root, outDir string) string {
	if outDir == "" {
		return ""
	}
	if filepath.IsAbs(outDir) {
		return filepath.Clean(outDir)
	}
	return filepath.Join(root, outDir)
}

// ImportPath returns the module specifier for target as seen from the
// directory containing entryPath.
func ImportPath(entryPath, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(entryPath), target)
	if err != nil {
		return "", err
	}

	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if strings.HasPrefix(rel, ".") {
		return rel, nil
	}
	return "./" + rel, nil
}
