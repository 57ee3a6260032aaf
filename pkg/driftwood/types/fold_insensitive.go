//go:build darwin || windows

package types

import "strings"

// foldCase lower-cases paths on platforms whose default filesystems are
// case-insensitive, so "Build/" and "build/" resolve to the same key.
func foldCase(rel string) string {
	return strings.ToLower(rel)
}
