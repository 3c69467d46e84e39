// Package cache manages the per-application cache directory a warp-runner
// binary extracts its packaged application into, deciding when that
// directory is stale and needs rebuilding.
package cache

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/nightlyone/lockfile"

	"github.com/dgiagio/warp/internal/logger"
)

// lockRetries and lockRetryDelay bound how long EnsureFresh waits to
// acquire the hardening lockfile before falling back to the unlocked,
// racy baseline extraction path.
const (
	lockRetries    = 5
	lockRetryDelay = 20 * time.Millisecond
)

// Dir resolves the per-application cache directory for a runner binary
// named runnerFileName, namespaced under the system local-data directory.
func Dir(runnerFileName string) (string, error) {
	dir := filepath.Join(xdg.DataHome, namespace, runnerFileName)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &DirError{RunnerFileName: runnerFileName, Err: err}
	}

	return abs, nil
}

// Root returns the directory under which every packaged application's
// cache directory lives, the root the garbage collector scans.
func Root() string {
	return filepath.Join(xdg.DataHome, namespace)
}

// EnsureFresh brings cacheDir up to date with the archive appended to
// selfPath at archiveOffset: if cacheDir is missing, or its mtime is
// older than selfPath's, the directory is rebuilt by extracting into a
// sibling temporary directory and renaming it into place. A lockfile in
// cacheDir's parent narrows, but does not eliminate, the race between two
// invocations rebuilding the same cache concurrently; failure to acquire
// it is not fatal, matching the baseline design's "no explicit lock is
// mandated". Use this when the archive offset is already known; when it
// must first be located among several candidates, use IsFresh and Rebuild
// directly instead so a failed candidate does not clear the existing
// cache.
func (m *Manager) EnsureFresh(selfPath string, archiveOffset int64, cacheDir string) error {
	fresh, err := m.IsFresh(selfPath, cacheDir)
	if err != nil {
		return err
	}

	if fresh {
		logger.Debugf("cache %s is fresh, skipping extraction", cacheDir)

		return nil
	}

	return m.Rebuild(selfPath, archiveOffset, cacheDir)
}

// IsFresh reports whether cacheDir exists and its mtime is at least
// selfPath's, the spec's sole freshness signal.
func (m *Manager) IsFresh(selfPath, cacheDir string) (bool, error) {
	return m.isFresh(selfPath, cacheDir)
}

// Rebuild unconditionally clears cacheDir and repopulates it by
// extracting the archive found at archiveOffset inside selfPath,
// installing it via a sibling staging directory and rename. Callers that
// must try several candidate offsets (because the true archive offset
// is not yet known) should call this once per candidate and keep trying
// on failure; a failed attempt only touches the staging directory, never
// cacheDir itself, until extraction has fully succeeded.
func (m *Manager) Rebuild(selfPath string, archiveOffset int64, cacheDir string) error {
	token := uuid.New()
	logger.Debugf("[%s] rebuilding cache %s", token, cacheDir)

	lock, locked := m.acquireLock(cacheDir, token)
	if locked {
		defer func() { _ = lock.Unlock() }()
	}

	stagingDir := cacheDir + ".tmp-" + token.String()

	if err := m.extractor.ExtractAt(selfPath, archiveOffset, stagingDir); err != nil {
		_ = m.fs.RemoveAll(stagingDir)

		return err
	}

	if err := m.fs.RemoveAll(cacheDir); err != nil && !m.fs.IsNotExist(err) {
		_ = m.fs.RemoveAll(stagingDir)

		return &RefreshError{CacheDir: cacheDir, Stage: "clearing stale cache", Err: err}
	}

	if err := m.fs.Rename(stagingDir, cacheDir); err != nil {
		return &RefreshError{CacheDir: cacheDir, Stage: "installing extracted cache", Err: err}
	}

	if size, err := dirSize(cacheDir); err == nil {
		logger.Debugf("[%s] cache %s rebuilt (%s)", token, cacheDir, humanize.Bytes(size))
	} else {
		logger.Debugf("[%s] cache %s rebuilt", token, cacheDir)
	}

	return nil
}

// dirSize sums the apparent size of every regular file under root,
// used only to annotate debug log output.
func dirSize(root string) (uint64, error) {
	var total uint64

	err := filepath.WalkDir(root, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.Type().IsRegular() {
			info, err := entry.Info()
			if err != nil {
				return err
			}

			total += uint64(info.Size()) //nolint:gosec
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// isFresh implements the spec's freshness model: cacheDir exists and its
// mtime is at least selfPath's.
func (m *Manager) isFresh(selfPath, cacheDir string) (bool, error) {
	selfTime, ok, err := m.clock.ModTime(selfPath)
	if err != nil {
		return false, &RefreshError{CacheDir: cacheDir, Stage: "statting self", Err: err}
	}

	if !ok {
		return false, &RefreshError{CacheDir: cacheDir, Stage: "statting self", Err: fmt.Errorf("self path %s does not exist", selfPath)}
	}

	cacheTime, exists, err := m.clock.ModTime(cacheDir)
	if err != nil {
		return false, &RefreshError{CacheDir: cacheDir, Stage: "statting cache", Err: err}
	}

	if !exists {
		return false, nil
	}

	return !cacheTime.Before(selfTime), nil
}

// acquireLock best-effort acquires a lockfile in cacheDir's parent. A
// failure to acquire, for any reason, is logged at debug level and the
// caller proceeds without the lock.
func (m *Manager) acquireLock(cacheDir string, token uuid.UUID) (lockfile.Lockfile, bool) {
	lock, err := lockfile.New(cacheDir + ".lock")
	if err != nil {
		logger.Debugf("[%s] cannot set up cache lock: %v", token, err)

		return lockfile.Lockfile(""), false
	}

	for attempt := 0; attempt < lockRetries; attempt++ {
		if err := lock.TryLock(); err == nil {
			return lock, true
		}

		time.Sleep(lockRetryDelay)
	}

	logger.Debugf("[%s] could not acquire cache lock, proceeding unlocked", token)

	return lockfile.Lockfile(""), false
}
