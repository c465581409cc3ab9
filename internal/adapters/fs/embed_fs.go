package fs

import (
	"errors"
	iofs "io/fs"
	"path"
	"strings"
)

var ErrReadOnly = errors.New("filesystem is read-only")

// EmbedFileSystem exposes a read-only io/fs.FS, typically an embed.FS holding
// the build output, through FileSystem. Paths are slash separated and may be
// given with a leading "./" or "/".
type EmbedFileSystem struct {
	fs iofs.FS
}

func NewEmbedFileSystem(fsys iofs.FS) *EmbedFileSystem {
	return &EmbedFileSystem{fs: fsys}
}

func (fs *EmbedFileSystem) ReadFile(p string) ([]byte, error) {
	return iofs.ReadFile(fs.fs, clean(p))
}

func (fs *EmbedFileSystem) FileExists(p string) bool {
	info, err := iofs.Stat(fs.fs, clean(p))
	return err == nil && !info.IsDir()
}

func (fs *EmbedFileSystem) WriteFile(p string, data []byte, perm iofs.FileMode) error {
	return ErrReadOnly
}

func (fs *EmbedFileSystem) MkdirAll(p string, perm iofs.FileMode) error {
	return ErrReadOnly
}

func clean(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
