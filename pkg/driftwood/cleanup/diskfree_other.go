//go:build !linux && !darwin

package cleanup

import "errors"

// FreeSpace is unavailable on this platform.
func FreeSpace(path string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
