package fs

import (
	iofs "io/fs"
)

// FileSystem is what the bridge, the build driver and the server need from
// storage. FileExists reports regular files only.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
}

var (
	_ FileSystem = (*OSFileSystem)(nil)
	_ FileSystem = (*EmbedFileSystem)(nil)
)
