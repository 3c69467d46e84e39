// Package gc implements the additive cache garbage collector: there is
// no manifest mapping a cache directory back to the warp-runner binary
// that produced it, so age is the only signal available to decide a
// directory is orphaned without introducing new on-disk state.
package gc

import (
	"time"

	"github.com/dgiagio/warp/internal/filesystem"
)

// DefaultOlderThan is the age a cache directory must reach before gc
// considers it a collection candidate, absent an explicit --older-than.
const DefaultOlderThan = 30 * 24 * time.Hour

// Entry describes one cache directory gc examined.
type Entry struct {
	Path    string
	ModTime time.Time
	Removed bool
}

// Collector scans a packages root directory and removes cache
// directories older than a threshold.
type Collector struct {
	fs  filesystem.FileSystem
	now func() time.Time
}

// New creates a Collector backed by the real clock.
func New(fs filesystem.FileSystem) *Collector {
	return &Collector{fs: fs, now: time.Now}
}

// newWithClock is used by tests to substitute a fake now function.
func newWithClock(fs filesystem.FileSystem, now func() time.Time) *Collector {
	return &Collector{fs: fs, now: now}
}
