package datasets

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// AllExist reports whether every path names an existing regular file.
func AllExist(paths ...string) bool {
	for _, p := range paths {
		if !fileExists(p) {
			return false
		}
	}
	return true
}

// WriteFileAtomic creates path with the content produced by fill.
//
// The content goes to a temporary file in the same directory first, which
// is synced and renamed over path only when fill and every write succeed.
// On failure the temporary file is removed and path is left untouched.
// Errors are *IOError values.
func WriteFileAtomic(path string, fill func(w io.Writer) error) error {
	return writeAtomic(path, fill)
}

func writeAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
