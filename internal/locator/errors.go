package locator

import "errors"

// ErrArchiveNotFound indicates that no candidate offset in the scanned
// file produced a valid archive, not just that no gzip magic bytes were
// present at all.
var ErrArchiveNotFound = errors.New("no archive found inside binary")
