package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dgiagio/warp/internal/logger"
)

// Validate checks that archivePath exists and is a regular file.
func (e *Extractor) Validate(archivePath string) error {
	info, err := e.fs.Stat(archivePath)
	if err != nil {
		return &ExtractionError{ArchivePath: archivePath, Context: "validating archive", Err: err}
	}

	if !info.Mode().IsRegular() {
		return &ExtractionError{ArchivePath: archivePath, Context: "validating archive", Err: ErrArchiveNotRegular}
	}

	return nil
}

// validateHeaderName rejects a tar entry name that could escape the
// destination directory before it is even joined onto it.
func validateHeaderName(headerName string) error {
	if filepath.IsAbs(headerName) {
		return &SecurityError{AttemptedPath: headerName, Validation: "absolute path prevention", Err: ErrInvalidPath}
	}

	if strings.Contains(headerName, "..") {
		return &SecurityError{AttemptedPath: headerName, Validation: "parent directory reference prevention", Err: ErrInvalidPath}
	}

	if strings.ContainsAny(headerName, "\\\x00") {
		return &SecurityError{AttemptedPath: headerName, Validation: "backslash or null byte prevention", Err: ErrInvalidPath}
	}

	return nil
}

// constructTargetPath joins headerName onto destDir and verifies the
// result did not escape destDir.
func constructTargetPath(headerName, destDir string) (string, error) {
	if err := validateHeaderName(headerName); err != nil {
		return "", err
	}

	cleanDestDir := filepath.Clean(destDir)
	targetPath := filepath.Clean(filepath.Join(cleanDestDir, headerName))

	rel, err := filepath.Rel(cleanDestDir, targetPath)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", &SecurityError{AttemptedPath: targetPath, Validation: "directory traversal prevention", Err: ErrInvalidPath}
	}

	return targetPath, nil
}

// validateLinkname validates a symlink's target before it is created,
// preventing it from resolving outside destDir. warp archives never
// follow symlinks when building, so this only guards extraction.
func (e *Extractor) validateLinkname(linkname, baseDir, destDir string) error {
	if filepath.IsAbs(linkname) {
		return &SecurityError{AttemptedPath: linkname, Validation: "absolute path prevention", Err: ErrInvalidPath}
	}

	if strings.Contains(linkname, "\x00") {
		return &SecurityError{AttemptedPath: linkname, Validation: "null byte prevention", Err: ErrInvalidPath}
	}

	resolved := filepath.Clean(filepath.Join(baseDir, linkname))

	rel, err := filepath.Rel(destDir, resolved)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return &SecurityError{AttemptedPath: linkname, Validation: "linkname destination check", Err: ErrInvalidPath}
	}

	info, err := e.fs.Lstat(resolved)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := e.validateSymlinkChain(resolved, destDir); err != nil {
			return &SecurityError{AttemptedPath: linkname, Validation: "symlink chain validation", Err: err}
		}
	}

	return nil
}

// validateSymlinkChain resolves a symlink (possibly through further
// symlinks) and confirms the final target still lands inside destDir.
func (e *Extractor) validateSymlinkChain(resolved, destDir string) error {
	evaled, err := e.fs.EvalSymlinks(resolved)
	if err != nil {
		logger.Debugf("symlink chain resolution failed for %s: %v", resolved, err)

		return &SecurityError{AttemptedPath: resolved, Validation: "symlink chain resolution", Err: err}
	}

	evaled = filepath.Clean(evaled)
	if !strings.HasPrefix(evaled, destDir+string(filepath.Separator)) && evaled != destDir {
		return &SecurityError{AttemptedPath: evaled, Validation: "symlink chain destination check", Err: ErrInvalidPath}
	}

	return nil
}
