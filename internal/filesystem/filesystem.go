package filesystem

import (
	"errors"
	"os"
	"path/filepath"
)

// Stat returns a FileInfo describing the named file.
func (fs *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, &FileOperationError{Path: name, Operation: "stat", Err: err}
	}

	return info, nil
}

// Lstat returns a FileInfo describing the named file without following
// symbolic links.
func (fs *OSFileSystem) Lstat(name string) (os.FileInfo, error) {
	info, err := os.Lstat(name)
	if err != nil {
		return nil, &FileOperationError{Path: name, Operation: "lstat", Err: err}
	}

	return info, nil
}

// Open opens the named file for reading.
func (fs *OSFileSystem) Open(name string) (File, error) {
	// #nosec G304 -- name is validated by caller
	file, err := os.Open(name)
	if err != nil {
		return nil, &FileOperationError{Path: name, Operation: "open", Err: err}
	}

	return file, nil
}

// OpenFile is the generalized open call used to create and write files
// during archive building and extraction.
func (fs *OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	// #nosec G304 -- name is validated by caller
	file, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, &FileOperationError{Path: name, Operation: "openFile", Permissions: perm, Err: err}
	}

	return file, nil
}

// MkdirAll creates a directory named path, along with any necessary
// parents.
func (fs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return &FileOperationError{Path: path, Operation: "mkdirAll", Permissions: perm, Err: err}
	}

	return nil
}

// RemoveAll removes path and any children it contains.
func (fs *OSFileSystem) RemoveAll(path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return &FileOperationError{Path: path, Operation: "removeAll", Err: err}
	}

	return nil
}

// Rename renames (moves) oldpath to newpath. The cache manager uses this
// to swap a freshly extracted directory into place atomically.
func (fs *OSFileSystem) Rename(oldpath, newpath string) error {
	err := os.Rename(oldpath, newpath)
	if err != nil {
		return &FileOperationError{Path: oldpath, Operation: "rename", Extra: newpath, Err: err}
	}

	return nil
}

// Chmod changes the mode of the named file.
func (fs *OSFileSystem) Chmod(name string, mode os.FileMode) error {
	err := os.Chmod(name, mode)
	if err != nil {
		return &FileOperationError{Path: name, Operation: "chmod", Permissions: mode, Err: err}
	}

	return nil
}

// Symlink creates newname as a symbolic link to oldname.
func (fs *OSFileSystem) Symlink(oldname, newname string) error {
	err := os.Symlink(oldname, newname)
	if err != nil {
		return &FileOperationError{Path: oldname, Operation: "symlink", Extra: newname, Err: err}
	}

	return nil
}

// Readlink returns the destination of the named symbolic link, used when
// the archive builder preserves a symlink entry without following it.
func (fs *OSFileSystem) Readlink(name string) (string, error) {
	target, err := os.Readlink(name)
	if err != nil {
		return "", &FileOperationError{Path: name, Operation: "readlink", Err: err}
	}

	return target, nil
}

// EvalSymlinks returns the path name after the evaluation of any symbolic
// links.
func (fs *OSFileSystem) EvalSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", &FileOperationError{Path: path, Operation: "evalSymlinks", Err: err}
	}

	return resolved, nil
}

// ReadDir reads the named directory's entries, used by the garbage
// collector to enumerate cache directories under the packages root.
func (fs *OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &FileOperationError{Path: path, Operation: "readDir", Err: err}
	}

	return entries, nil
}

// IsNotExist reports whether err indicates a missing file.
func (fs *OSFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
