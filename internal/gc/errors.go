package gc

import "fmt"

// ScanError indicates the packages root itself could not be listed.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning cache root %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }
