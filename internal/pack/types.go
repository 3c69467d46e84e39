// Package pack orchestrates the Packer side of warp: building the
// application archive, patching a runner stub with the entry-point name,
// and assembling the two into the final output binary. The CLI flags are
// validated by the caller before Run is invoked.
package pack

import (
	"github.com/dgiagio/warp/internal/archive"
	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/triple"
)

// Options collects the validated inputs to a single pack run, mirroring
// warp-packer's four required flags plus the resolved target triple.
type Options struct {
	InputDir   string
	OutputPath string
	EntryName  string
	Arch       triple.Triple
}

// Patcher overwrites a stub image's marker region with an entry-point
// name. Satisfied by internal/marker.Patch.
type Patcher func(stubImage []byte, entryName string) ([]byte, error)

// stubSource returns the runner stub image for a target triple. Satisfied
// by *stub.Registry.
type stubSource interface {
	ImageFor(t triple.Triple) ([]byte, error)
}

// archiveBuilder packages a directory into a tar.gz stream. Satisfied by
// *archive.Builder.
type archiveBuilder interface {
	Build(srcDir, outPath string, ignoreSpec *archive.IgnoreSpec) error
	SetProgress(fn func(relPath string))
}

// assembler writes a patched stub and an archive into the final output
// binary. Satisfied by *assembler.Assembler.
type assembler interface {
	Assemble(patchedStub []byte, archivePath, outPath string, t triple.Triple) error
}

// Packer drives the packer's end-to-end flow: build the archive, fetch
// and patch the runner stub for the target triple, then assemble both
// into the output binary.
type Packer struct {
	fs       filesystem.FileSystem
	stubs    stubSource
	builder  archiveBuilder
	patch    Patcher
	assemble assembler
}

// New creates a Packer from its collaborators.
func New(fs filesystem.FileSystem, stubs stubSource, builder archiveBuilder, patch Patcher, assemble assembler) *Packer {
	return &Packer{fs: fs, stubs: stubs, builder: builder, patch: patch, assemble: assemble}
}
