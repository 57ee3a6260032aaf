//go:build !darwin && !windows

package types

// foldCase is the identity on platforms with case-sensitive filesystems.
func foldCase(rel string) string {
	return rel
}
