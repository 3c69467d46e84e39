package gc

import (
	"path/filepath"
	"time"

	"github.com/dgiagio/warp/internal/logger"
)

// Run scans root (the packages directory cache.Root returns) and, for
// every immediate subdirectory whose mtime is older than olderThan,
// either reports or removes it depending on dryRun. Entries are returned
// in the order they were visited.
func (c *Collector) Run(root string, olderThan time.Duration, dryRun bool) ([]Entry, error) {
	entries, err := c.fs.ReadDir(root)
	if err != nil {
		if c.fs.IsNotExist(err) {
			return nil, nil
		}

		return nil, &ScanError{Root: root, Err: err}
	}

	cutoff := c.now().Add(-olderThan)

	var results []Entry

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(root, entry.Name())

		info, err := c.fs.Stat(path)
		if err != nil {
			logger.Debugf("gc: skipping %s, could not stat: %v", path, err)

			continue
		}

		if info.ModTime().After(cutoff) {
			logger.Debugf("gc: %s is within the retention window, leaving in place", path)

			continue
		}

		result := Entry{Path: path, ModTime: info.ModTime()}

		if dryRun {
			logger.Infof("gc: would remove %s (last used %s)", path, info.ModTime())
		} else {
			if err := c.fs.RemoveAll(path); err != nil {
				logger.Debugf("gc: failed to remove %s: %v", path, err)

				continue
			}

			result.Removed = true
			logger.Infof("gc: removed %s (last used %s)", path, info.ModTime())
		}

		results = append(results, result)
	}

	return results, nil
}
