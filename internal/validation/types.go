// Package validation provides input validation for warp-packer's CLI
// boundary: the input directory, output path, and entry-point name a user
// supplies before packing begins.
package validation

// MaxPathLength is the common filesystem path length limit enforced on
// every path-shaped flag value.
const MaxPathLength = 4096

// MaxEntryNameLength mirrors marker.Len-1: the longest entry-point name
// that still leaves room for the NUL terminator the marker region needs.
// Re-declared here, rather than imported from internal/marker, so this
// package stays usable for early flag validation before a stub image (and
// therefore marker.Patch) is ever touched.
const MaxEntryNameLength = 127
