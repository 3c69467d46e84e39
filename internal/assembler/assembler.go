// Package assembler concatenates a patched runner stub and a packaged
// application archive into the final self-contained output binary.
package assembler

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/triple"
)

// posixExecPerm is the mode the output binary is created with on POSIX
// targets, matching spec.md's "execute bits 0o755" requirement.
const posixExecPerm = 0o755

// windowsOutputPerm is the mode used when creating the output file for a
// Windows target; Windows has no POSIX execute bit, so the default is
// kept permissive enough to write and later read the file.
const windowsOutputPerm = 0o644

const copyBufferSize = 32 * 1024

// Assembler writes a patched runner stub followed by an archive's bytes
// into a single output file, with no header, trailer, or padding between
// the two.
type Assembler struct {
	fs filesystem.FileSystem
}

// New creates an Assembler.
func New(fs filesystem.FileSystem) *Assembler {
	return &Assembler{fs: fs}
}

// Assemble writes patchedStub in full to outPath, then streams the
// contents of archivePath immediately after it. t determines the output
// file's permission bits. On any failure, outPath is removed so a partial
// output is never mistaken for a finished one.
func (a *Assembler) Assemble(patchedStub []byte, archivePath, outPath string, t triple.Triple) error {
	outPath = filepath.Clean(outPath)

	perm := os.FileMode(windowsOutputPerm)
	if !t.IsWindows() {
		perm = posixExecPerm
	}

	out, err := a.fs.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return &AssembleError{OutPath: outPath, Stage: "creating output file", Err: err}
	}

	if err := a.writeAll(out, patchedStub, archivePath, outPath); err != nil {
		_ = out.Close()
		_ = a.fs.RemoveAll(outPath)

		return err
	}

	if err := out.Close(); err != nil {
		_ = a.fs.RemoveAll(outPath)

		return &AssembleError{OutPath: outPath, Stage: "closing output file", Err: err}
	}

	// OpenFile's perm argument is only honored on create and is subject to
	// umask; re-applying it here guarantees the requested bits regardless
	// of umask or a pre-existing file at outPath from a prior run.
	if err := a.fs.Chmod(outPath, perm); err != nil {
		_ = a.fs.RemoveAll(outPath)

		return &AssembleError{OutPath: outPath, Stage: "setting output file permissions", Err: err}
	}

	return nil
}

func (a *Assembler) writeAll(out filesystem.File, patchedStub []byte, archivePath, outPath string) error {
	if _, err := out.Write(patchedStub); err != nil {
		return &AssembleError{OutPath: outPath, Stage: "writing patched stub", Err: err}
	}

	archive, err := a.fs.Open(archivePath)
	if err != nil {
		return &AssembleError{OutPath: outPath, Stage: "opening archive", Err: err}
	}
	defer func() { _ = archive.Close() }()

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(out, archive, buf); err != nil {
		return &AssembleError{OutPath: outPath, Stage: "appending archive", Err: err}
	}

	return nil
}
