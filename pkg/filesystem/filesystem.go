// Package filesystem provides the filesystem abstraction used by the
// artifact writer and the sync/audit engines, with an OS-backed
// implementation for production and an afero-backed one for tests.
package filesystem

import (
	"io/fs"
)

// FS is the filesystem surface pwa-forge operates on
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
	ReadDir(name string) ([]fs.DirEntry, error)
}
