// Package locator scans the currently-running binary on disk for the
// gzip-compressed archive appended past its own image, the way the
// original runner's FileSearcher does: no length or offset field is ever
// written into the binary, so the only way to find the archive is to
// scan for its magic bytes.
package locator

import (
	"bytes"
	"errors"
	"io"
)

// GzipMagic is the three leading bytes of every gzip stream (RFC 1952):
// ID1, ID2, and a compression method of 8 (deflate).
var GzipMagic = []byte{0x1F, 0x8B, 0x08}

// windowSize mirrors the original Rust FileSearcher's read buffer size.
const windowSize = 32 * 1024

// ReadSeeker is the capability Scanner needs from whatever holds the
// running binary's bytes: the filesystem abstraction's File interface and
// *os.File both satisfy it.
type ReadSeeker interface {
	io.Reader
	io.Seeker
}

// Scanner yields successive byte offsets in a file at which GzipMagic
// occurs, starting from the beginning. Call Next repeatedly; each call
// resumes one byte past the previous match, so a caller whose trial
// extraction at one offset fails can simply call Next again to look for
// the next candidate.
type Scanner struct {
	file   ReadSeeker
	offset int64
}

// NewScanner creates a Scanner over file, starting from offset 0.
func NewScanner(file ReadSeeker) *Scanner {
	return &Scanner{file: file}
}

// Next returns the offset of the next occurrence of GzipMagic at or
// after the scanner's current position, advancing past it so a
// subsequent call finds the next occurrence, if any. ok is false once no
// further occurrence exists.
func (s *Scanner) Next() (offset int64, ok bool, err error) {
	buf := make([]byte, windowSize)

	for {
		if _, err := s.file.Seek(s.offset, io.SeekStart); err != nil {
			return 0, false, err
		}

		n, readErr := s.file.Read(buf)
		if n == 0 {
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				return 0, false, readErr
			}

			return 0, false, nil
		}

		if pos := bytes.Index(buf[:n], GzipMagic); pos >= 0 {
			found := s.offset + int64(pos)
			s.offset = found + 1

			return found, true, nil
		}

		// Overlap by len(GzipMagic)-1 bytes so a match straddling the
		// window boundary is never missed.
		advance := n - (len(GzipMagic) - 1)
		if advance < 1 {
			advance = n
		}

		s.offset += int64(advance)

		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return 0, false, readErr
		}
	}
}
