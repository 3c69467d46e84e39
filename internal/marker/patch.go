package marker

import (
	"bytes"
	"strings"
)

// Patch returns a copy of stubImage with its single occurrence of Marker
// overwritten by a Len-byte buffer whose prefix is entryName, followed by a
// NUL terminator and zero padding.
//
// The scan tolerates but does not require exactly one match: the first
// occurrence wins. A stub is expected to contain the marker exactly once
// (see the Stub Registry invariant); a second occurrence, were one to
// exist, is simply never reached.
func Patch(stubImage []byte, entryName string) ([]byte, error) {
	if strings.ContainsAny(entryName, "/\\") {
		return nil, ErrEntryNameHasSeparator
	}

	if len(entryName) >= Len {
		return nil, ErrEntryNameTooLong
	}

	offset := bytes.Index(stubImage, Marker[:])
	if offset < 0 {
		return nil, ErrMarkerNotFound
	}

	patched := make([]byte, Len)
	copy(patched, entryName)

	out := make([]byte, len(stubImage))
	copy(out, stubImage)
	copy(out[offset:offset+Len], patched)

	return out, nil
}
