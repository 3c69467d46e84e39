package marker

import "errors"

// ErrEntryNameTooLong is returned when an entry-point name would not fit in
// the marker region alongside its NUL terminator.
var ErrEntryNameTooLong = errors.New("entry name too long for marker")

// ErrEntryNameHasSeparator is returned when an entry-point name contains a
// path separator. Entry names identify a file inside the packed archive,
// not a path, so separators are rejected rather than silently accepted.
var ErrEntryNameHasSeparator = errors.New("entry name must not contain a path separator")

// ErrMarkerNotFound is returned when a stub image does not contain the
// marker sequence. It indicates a corrupt or mismatched stub.
var ErrMarkerNotFound = errors.New("marker not found in stub image")

// ErrInvariantViolation is returned when a marker region has no NUL
// terminator. It should never occur for a correctly built stub and is
// present only as a defensive check.
var ErrInvariantViolation = errors.New("marker region has no NUL terminator")
