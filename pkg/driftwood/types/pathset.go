package types

import (
	"path/filepath"
	"sort"
	"strings"
)

// PathKey normalizes a worktree-relative path into the canonical form used
// for set membership: forward slashes, no leading "./", and case folded on
// platforms whose default filesystems ignore case. Two paths naming the
// same file always produce the same key.
func PathKey(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimSuffix(rel, "/")
	return foldCase(rel)
}

// PathSet is a set of normalized relative paths supporting O(1) membership
// tests. It is the building block for the tracked and untracked-eligible
// sets obtained from git.
type PathSet struct {
	members map[string]struct{}
}

// NewPathSet creates an empty PathSet.
func NewPathSet() *PathSet {
	return &PathSet{members: make(map[string]struct{})}
}

// PathSetOf creates a PathSet containing the given paths.
func PathSetOf(paths ...string) *PathSet {
	s := NewPathSet()
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path into the set after normalization.
func (s *PathSet) Add(rel string) {
	s.members[PathKey(rel)] = struct{}{}
}

// Has reports whether the set contains the path.
func (s *PathSet) Has(rel string) bool {
	_, ok := s.members[PathKey(rel)]
	return ok
}

// Len returns the number of members.
func (s *PathSet) Len() int {
	return len(s.members)
}

// Union returns a new set containing the members of both sets.
func (s *PathSet) Union(other *PathSet) *PathSet {
	u := NewPathSet()
	for k := range s.members {
		u.members[k] = struct{}{}
	}
	for k := range other.members {
		u.members[k] = struct{}{}
	}
	return u
}

// Paths returns the members sorted lexicographically.
func (s *PathSet) Paths() []string {
	out := make([]string, 0, len(s.members))
	for k := range s.members {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Each calls fn for every member, including every ancestor directory prefix
// when withAncestors is true. Ancestors let callers mark which directories
// contain set members without a second pass.
func (s *PathSet) Each(withAncestors bool, fn func(key string)) {
	for k := range s.members {
		fn(k)
		if !withAncestors {
			continue
		}
		for i := len(k) - 1; i > 0; i-- {
			if k[i] == '/' {
				fn(k[:i])
			}
		}
	}
}
