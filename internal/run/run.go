package run

import (
	"path/filepath"

	"github.com/dgiagio/warp/internal/cache"
	"github.com/dgiagio/warp/internal/executor"
	"github.com/dgiagio/warp/internal/locator"
	"github.com/dgiagio/warp/internal/logger"
	"github.com/dgiagio/warp/internal/marker"
)

// defaultExitCode is returned when the runner itself fails before it
// ever reaches the point of spawning the entry point.
const defaultExitCode = 1

// Run executes the strictly serial find -> fresh? -> extract (if needed)
// -> spawn -> wait -> exit sequence spec.md describes for one warp-runner
// invocation. selfPath is the path to the currently running binary; args
// is argv[1:], forwarded verbatim to the entry point.
func (r *Runner) Run(selfPath string, args []string) (int, error) {
	entryName, err := marker.Read(marker.Marker[:])
	if err != nil {
		return defaultExitCode, err
	}

	cacheDir, err := cache.Dir(filepath.Base(selfPath))
	if err != nil {
		return defaultExitCode, err
	}

	fresh, err := r.cache.IsFresh(selfPath, cacheDir)
	if err != nil {
		return defaultExitCode, err
	}

	if !fresh {
		if err := r.rebuildFromArchive(selfPath, cacheDir); err != nil {
			return defaultExitCode, err
		}
	}

	return executor.Execute(ctxForRun(), r.executor, r.fs, r.arch, cacheDir, entryName, args)
}

// rebuildFromArchive scans selfPath for successive gzip-magic candidate
// offsets, attempting a full cache rebuild at each one until one
// succeeds. A candidate failing is expected (the bytes may occur in the
// stub by coincidence) and only advances the scan; exhausting every
// candidate is an error.
func (r *Runner) rebuildFromArchive(selfPath, cacheDir string) error {
	file, err := r.fs.Open(selfPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	scanner := r.newScanner(file)

	for {
		offset, ok, err := scanner.Next()
		if err != nil {
			return err
		}

		if !ok {
			return locator.ErrArchiveNotFound
		}

		if err := r.cache.Rebuild(selfPath, offset, cacheDir); err != nil {
			logger.Debugf("candidate offset %d failed: %v", offset, err)

			continue
		}

		return nil
	}
}
