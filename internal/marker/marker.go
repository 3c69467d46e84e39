// Package marker implements the side-channel by which warp-packer hands the
// entry-point name to warp-runner: a fixed-length, high-entropy byte needle
// baked into every runner stub at compile time and overwritten, in place, by
// the packer.
package marker

// Len is the fixed size in bytes of the marker region. It must be large
// enough to hold any legal entry-point name plus its NUL terminator.
const Len = 128

// Marker is the byte sequence compiled into every warp-runner stub image.
// It is chosen to be globally unique so that it occurs exactly once in any
// stub and never occurs by accident in compressed or random data. The final
// byte is a NUL sentinel; Read stops at the first NUL it finds.
//
// This is the only value shared at compile time between warp-packer and
// warp-runner: the packer scans a stub image for this exact sequence and
// overwrites it with a Patched buffer; the runner reads its own copy of the
// same constant back out of its own image.
var Marker = [Len]byte{
	'b', 'r', 'S', 'p', 'K', 'p', 'h', 'E', '4', 'j', 'w', 'I', '7', 'Z', 'b', 'Q',
	'y', 'H', 'V', 'p', 'M', 'l', 'f', 'S', 'u', 'T', '6', 'Q', '5', 'q', 'C', 'd',
	'K', 'X', 'l', '6', 'r', 'A', '6', 'b', '7', 'Z', 'r', 'i', 'P', 'I', '7', 'L',
	'q', 'M', 'o', 'h', 'A', 'c', 'w', 'V', 'G', 'r', 'U', 'V', 'U', '0', 'G', 's',
	'j', '4', '7', '9', 'R', 'e', 'T', 's', 'Y', 'u', 'V', 'j', '4', 'c', '8', 'w',
	'v', 'l', '9', 'f', 'b', 'H', 'q', 'O', 'r', '3', 'd', 'o', 'F', '9', 'E', 'J',
	'i', 'z', 'P', '3', 'G', 'Y', 'c', 'g', '5', 'G', 'Z', '2', 'M', 'Q', '1', 'C',
	'x', '6', 'N', 'P', 'T', 'b', 'b', 'x', 'a', 'r', 'y', '3', '2', 'j', '9', 0x00,
}

// Bytes returns the marker as a slice backed by a fresh copy, so callers
// cannot mutate the package-level constant.
func Bytes() []byte {
	b := make([]byte, Len)
	copy(b, Marker[:])

	return b
}
