package marker

import "bytes"

// Read recovers the entry-point name from a Len-byte patched marker region.
// It reads up to the first NUL byte and interprets the prefix as UTF-8.
//
// warp-runner calls this directly on its own Marker array
// (marker.Read(marker.Marker[:])): warp-packer patches the marker by
// overwriting those exact bytes inside the compiled runner image on disk,
// so by the time the OS loads that image and runs it, Marker's backing
// bytes already carry the entry name. No self-scan of the running binary
// is needed for this step (that is what the Archive Locator, a separate
// concern, does for the archive's offset).
func Read(region []byte) (string, error) {
	nul := bytes.IndexByte(region, 0x00)
	if nul < 0 {
		return "", ErrInvariantViolation
	}

	return string(region[:nul]), nil
}
