// Package fs defines the local filesystem abstraction used to materialise
// trigger files before they are uploaded.
//
// Production code uses the go-billy OS adapter in package fs/billy; tests
// swap in the in-memory adapter from the same package.
package fs

import "os"

// Filesystem is the set of local file operations the uploaders depend on.
// Implementations may create missing parent directories on Create, so
// callers that require an existing directory must Stat it first.
type Filesystem interface {
	Create(name string) (File, error)
	Open(name string) (File, error)
	Stat(name string) (os.FileInfo, error)
}
