// Package stub holds the prebuilt warp-runner images that warp-packer
// embeds into every binary it produces, one per supported target triple.
// The spec forbids fetching the runner at pack time: every image this
// package can return was compiled into warp-packer itself ahead of time.
package stub

import (
	"embed"

	"github.com/dgiagio/warp/internal/triple"
)

//go:embed bin
var binaries embed.FS

// Registry exposes the embedded runner image for each supported target
// triple.
type Registry struct {
	fsys embed.FS
}

// Default returns a Registry backed by the images embedded in this
// binary at compile time.
func Default() *Registry {
	return &Registry{fsys: binaries}
}

// ImageFor returns the raw bytes of the runner stub image for t, read
// fresh on every call since the caller (the Marker Patcher) needs its
// own mutable copy to overwrite.
func (r *Registry) ImageFor(t triple.Triple) ([]byte, error) {
	data, err := r.fsys.ReadFile("bin/" + t.StubFileName())
	if err != nil {
		return nil, &NotEmbeddedError{Triple: t, Err: err}
	}

	return data, nil
}
