package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgiagio/warp/internal/filesystem"
)

// validatePathShape performs the checks every path-shaped flag value
// shares, independent of whether it names a file, a directory, or
// something that does not exist yet.
func validatePathShape(path string) error {
	if path == "" {
		return ErrPathEmpty
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("path is %d characters: %w", len(path), ErrPathTooLong)
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains a null byte: %w", ErrPathContainsInvalid)
	}

	if !utf8.ValidString(path) {
		return fmt.Errorf("path is not valid UTF-8: %w", ErrPathContainsInvalid)
	}

	return nil
}

// ValidateInputDir checks that path is well-formed and names an existing
// directory, the source the Archive Builder walks.
func ValidateInputDir(fs filesystem.FileSystem, path string) error {
	if err := validatePathShape(path); err != nil {
		return err
	}

	info, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotADirectory)
	}

	return nil
}

// ValidateOutputPath checks that path is well-formed, does not already
// name a directory, and is not the same path as inputDir.
func ValidateOutputPath(fs filesystem.FileSystem, path, inputDir string) error {
	if err := validatePathShape(path); err != nil {
		return err
	}

	cleanOut, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	cleanIn, err := filepath.Abs(inputDir)
	if err != nil {
		return err
	}

	if cleanOut == cleanIn {
		return fmt.Errorf("%s: %w", path, ErrOutputEqualsInput)
	}

	if info, err := fs.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrOutputIsDirectory)
	}

	return nil
}

// ValidateEntryName performs the cheap, path-independent checks on an
// entry-point name before it ever reaches marker.Patch. The path
// separator check lives solely in internal/marker (ErrEntryNameHasSeparator)
// so that rule has exactly one home; this function only rules out the
// empty and over-length cases that would make a later marker.Patch call
// fail for reasons unrelated to its core contract.
func ValidateEntryName(name string) error {
	if name == "" {
		return ErrEntryNameEmpty
	}

	if len(name) > MaxEntryNameLength {
		return fmt.Errorf("entry name is %d characters: %w", len(name), ErrEntryNameTooLong)
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("entry name is not valid UTF-8: %w", ErrPathContainsInvalid)
	}

	return nil
}

// ValidateEntryExists checks that entryName names an existing regular
// file inside inputDir, so a typo in --exec fails packing up front
// instead of producing a binary whose runner can only fail later, at
// extraction time, once the archive no longer contains that path.
func ValidateEntryExists(fs filesystem.FileSystem, inputDir, entryName string) error {
	entryPath := filepath.Join(inputDir, entryName)

	info, err := fs.Stat(entryPath)
	if err != nil {
		return fmt.Errorf("%s: %w", entryPath, ErrEntryNotFound)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", entryPath, ErrEntryNotRegularFile)
	}

	return nil
}
