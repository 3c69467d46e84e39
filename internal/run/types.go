// Package run orchestrates the Runner side of warp: recovering the
// entry-point name from its own compiled-in marker, locating the
// appended archive inside its own executable, ensuring the per-application
// cache is fresh, and handing off execution to the entry point.
package run

import (
	"context"

	"github.com/dgiagio/warp/internal/executor"
	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/triple"
)

// cacheManager is the subset of *cache.Manager this package depends on.
type cacheManager interface {
	IsFresh(selfPath, cacheDir string) (bool, error)
	Rebuild(selfPath string, archiveOffset int64, cacheDir string) error
}

// candidateScanner is the subset of *locator.Scanner this package depends
// on: successive candidate byte offsets of the gzip magic inside a file.
type candidateScanner = interface {
	Next() (offset int64, ok bool, err error)
}

// Runner drives one warp-runner invocation end to end.
type Runner struct {
	fs         filesystem.FileSystem
	executor   executor.CommandExecutor
	cache      cacheManager
	arch       triple.Triple
	newScanner func(file filesystem.File) candidateScanner
}

// New creates a Runner. newScanner constructs a candidate scanner over an
// already-open handle on the running binary; production callers pass a
// thin wrapper around locator.NewScanner.
func New(
	fs filesystem.FileSystem,
	ce executor.CommandExecutor,
	cache cacheManager,
	arch triple.Triple,
	newScanner func(file filesystem.File) candidateScanner,
) *Runner {
	return &Runner{fs: fs, executor: ce, cache: cache, arch: arch, newScanner: newScanner}
}

// ctxForRun is the context used for the one child process a Runner
// invocation ever spawns; there is no cooperative cancellation in this
// design (spec.md §5), so it is always context.Background.
func ctxForRun() context.Context {
	return context.Background()
}
