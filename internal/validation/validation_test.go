package validation_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/validation"
)

func TestValidateInputDirAcceptsExistingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := validation.ValidateInputDir(&filesystem.OSFileSystem{}, dir)
	require.NoError(t, err)
}

func TestValidateInputDirRejectsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := validation.ValidateInputDir(&filesystem.OSFileSystem{}, file)
	require.ErrorIs(t, err, validation.ErrNotADirectory)
}

func TestValidateInputDirRejectsEmpty(t *testing.T) {
	t.Parallel()

	err := validation.ValidateInputDir(&filesystem.OSFileSystem{}, "")
	require.ErrorIs(t, err, validation.ErrPathEmpty)
}

func TestValidateOutputPathRejectsExistingDirectory(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	err := validation.ValidateOutputPath(&filesystem.OSFileSystem{}, outputDir, inputDir)
	require.ErrorIs(t, err, validation.ErrOutputIsDirectory)
}

func TestValidateOutputPathRejectsSameAsInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := validation.ValidateOutputPath(&filesystem.OSFileSystem{}, dir, dir)
	require.ErrorIs(t, err, validation.ErrOutputEqualsInput)
}

func TestValidateOutputPathAcceptsNewFile(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out")

	err := validation.ValidateOutputPath(&filesystem.OSFileSystem{}, outPath, inputDir)
	require.NoError(t, err)
}

func TestValidateEntryName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.ValidateEntryName("app"))
	assert.ErrorIs(t, validation.ValidateEntryName(""), validation.ErrEntryNameEmpty)
	assert.ErrorIs(t, validation.ValidateEntryName(strings.Repeat("a", 200)), validation.ErrEntryNameTooLong)
}

func TestValidateEntryExistsAcceptsRegularFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app"), []byte("x"), 0o755))

	err := validation.ValidateEntryExists(&filesystem.OSFileSystem{}, dir, "app")
	require.NoError(t, err)
}

func TestValidateEntryExistsRejectsMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := validation.ValidateEntryExists(&filesystem.OSFileSystem{}, dir, "typo")
	require.ErrorIs(t, err, validation.ErrEntryNotFound)
}

func TestValidateEntryExistsRejectsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	err := validation.ValidateEntryExists(&filesystem.OSFileSystem{}, dir, "subdir")
	require.ErrorIs(t, err, validation.ErrEntryNotRegularFile)
}
