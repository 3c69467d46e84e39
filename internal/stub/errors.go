package stub

import (
	"fmt"

	"github.com/dgiagio/warp/internal/triple"
)

// NotEmbeddedError indicates that a target triple has no corresponding
// embedded runner image: either the triple is not a member of the closed
// enumeration, or the registry's bin/ directory is out of sync with
// triple.All.
type NotEmbeddedError struct {
	Triple triple.Triple
	Err    error
}

func (e *NotEmbeddedError) Error() string {
	return fmt.Sprintf("no embedded runner stub for target %q: %v", e.Triple, e.Err)
}

func (e *NotEmbeddedError) Unwrap() error { return e.Err }
