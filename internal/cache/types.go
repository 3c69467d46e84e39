package cache

import (
	"os"
	"time"

	"github.com/dgiagio/warp/internal/archive"
	"github.com/dgiagio/warp/internal/filesystem"
)

// namespace is the fixed top-level folder under the system local-data
// directory that every packaged application's cache lives beneath.
const namespace = "warp/packages"

// Extractor is the subset of archive.Extractor the cache manager needs
// to rebuild a stale or missing cache directory.
type Extractor interface {
	ExtractAt(selfPath string, offset int64, destDir string) error
}

// Clock abstracts the mtime comparisons EnsureFresh depends on so tests
// can control both sides of the comparison without touching real files.
type Clock interface {
	ModTime(path string) (time.Time, bool, error)
}

// Manager decides whether a per-application cache directory is fresh and
// rebuilds it from the appended archive when it is not.
type Manager struct {
	fs        filesystem.FileSystem
	extractor Extractor
	clock     Clock
}

// osClock stats the filesystem directly.
type osClock struct{}

func (osClock) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}

		return time.Time{}, false, err
	}

	return info.ModTime(), true, nil
}

// New creates a Manager backed by the real filesystem clock.
func New(fs filesystem.FileSystem, extractor *archive.Extractor) *Manager {
	return &Manager{fs: fs, extractor: extractor, clock: osClock{}}
}

// newWithClock is used by tests to substitute a fake Clock.
func newWithClock(fs filesystem.FileSystem, extractor Extractor, clock Clock) *Manager {
	return &Manager{fs: fs, extractor: extractor, clock: clock}
}
