package fs

import "io/fs"

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Stat() (fs.FileInfo, error)
	// Sync commits written data to stable storage. Backends without a
	// notion of durability return nil.
	Sync() error
	Write(p []byte) (n int, err error)
}
