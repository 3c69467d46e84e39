package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgiagio/warp/internal/filesystem"
)

type fakeClock struct {
	times map[string]time.Time
}

func (c *fakeClock) ModTime(path string) (time.Time, bool, error) {
	t, ok := c.times[path]

	return t, ok, nil
}

type fakeFileSystem struct {
	filesystem.FileSystem
	removedPaths []string
	renamedFrom  string
	renamedTo    string
}

func (f *fakeFileSystem) RemoveAll(path string) error {
	f.removedPaths = append(f.removedPaths, path)

	return nil
}

func (f *fakeFileSystem) Rename(oldpath, newpath string) error {
	f.renamedFrom = oldpath
	f.renamedTo = newpath

	return nil
}

func (f *fakeFileSystem) IsNotExist(err error) bool {
	return false
}

type fakeExtractor struct {
	calledSelfPath string
	calledOffset   int64
	calledDest     string
	err            error
}

func (e *fakeExtractor) ExtractAt(selfPath string, offset int64, destDir string) error {
	e.calledSelfPath = selfPath
	e.calledOffset = offset
	e.calledDest = destDir

	return e.err
}

func TestEnsureFreshSkipsExtractionWhenCacheIsNewer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := &fakeClock{times: map[string]time.Time{
		"/self":  now,
		"/cache": now.Add(time.Hour),
	}}
	extractor := &fakeExtractor{}
	fs := &fakeFileSystem{}

	manager := newWithClock(fs, extractor, clock)

	err := manager.EnsureFresh("/self", 1234, "/cache")
	require.NoError(t, err)

	assert.Empty(t, extractor.calledDest)
	assert.Empty(t, fs.removedPaths)
}

func TestEnsureFreshRebuildsWhenCacheIsMissing(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{times: map[string]time.Time{
		"/self": time.Now(),
	}}
	extractor := &fakeExtractor{}
	fs := &fakeFileSystem{}

	manager := newWithClock(fs, extractor, clock)

	err := manager.EnsureFresh("/self", 1234, "/cache")
	require.NoError(t, err)

	assert.Equal(t, "/self", extractor.calledSelfPath)
	assert.Equal(t, int64(1234), extractor.calledOffset)
	assert.Equal(t, fs.renamedTo, "/cache")
}

func TestEnsureFreshRebuildsWhenCacheIsStale(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := &fakeClock{times: map[string]time.Time{
		"/self":  now,
		"/cache": now.Add(-time.Hour),
	}}
	extractor := &fakeExtractor{}
	fs := &fakeFileSystem{}

	manager := newWithClock(fs, extractor, clock)

	err := manager.EnsureFresh("/self", 1234, "/cache")
	require.NoError(t, err)

	assert.Contains(t, fs.removedPaths, "/cache")
	assert.Equal(t, "/self", extractor.calledSelfPath)
}

func TestEnsureFreshPropagatesExtractionError(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{times: map[string]time.Time{
		"/self": time.Now(),
	}}
	extractor := &fakeExtractor{err: assertError("boom")}
	fs := &fakeFileSystem{}

	manager := newWithClock(fs, extractor, clock)

	err := manager.EnsureFresh("/self", 0, "/cache")
	require.Error(t, err)
}

type assertError string

func (e assertError) Error() string { return string(e) }
