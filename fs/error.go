// Errors and error handling

package fs

import (
	"errors"
	"io/fs"
	"syscall"
)

// Globals
var (
	// ErrorObjectNotFound is returned when a requested file does not
	// exist in the directory being served
	ErrorObjectNotFound = errors.New("object not found")
	// ErrorDirNotFound is returned when the directory being served
	// does not exist
	ErrorDirNotFound = errors.New("directory not found")
	// ErrorIsDir is returned when a file was expected but a directory
	// was found
	ErrorIsDir = errors.New("is a directory not a file")
)

// NotFound converts errors from the os package which mean the path
// doesn't exist into ErrorObjectNotFound and returns all others
// unchanged.
//
// ENOTDIR is treated as not found since it means a path component
// which should be a directory is a file.
func NotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return ErrorObjectNotFound
	}
	return err
}
