package classify

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// ErrBadPattern is returned when a pattern fails to compile.
var ErrBadPattern = errors.New("bad pattern")

// Pattern is a compiled gitignore-flavoured glob. A trailing "/" marks a
// directory pattern, which matches the directory itself and everything
// beneath it. A pattern containing no slash matches against basenames;
// one with a slash matches against the whole root-relative path.
type Pattern struct {
	raw      string
	dirOnly  bool
	hasSlash bool
	glob     glob.Glob
}

// Compile compiles a single pattern. The separator-aware compilation
// keeps "*" from crossing path boundaries.
func Compile(raw string) (Pattern, error) {
	body := strings.TrimSuffix(raw, "/")
	if body == "" {
		return Pattern{}, fmt.Errorf("%w: %q", ErrBadPattern, raw)
	}

	g, err := glob.Compile(body, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %q: %v", ErrBadPattern, raw, err)
	}

	return Pattern{
		raw:      raw,
		dirOnly:  strings.HasSuffix(raw, "/"),
		hasSlash: strings.Contains(body, "/"),
		glob:     g,
	}, nil
}

// CompileAll compiles a pattern list, failing on the first bad entry.
func CompileAll(raws []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// DirOnly reports whether the pattern names a directory.
func (p Pattern) DirOnly() bool { return p.dirOnly }

// Match reports whether the pattern matches a slash-separated relative
// path. Directory patterns match the directory entry itself and any path
// beneath a matching ancestor; other patterns match files and directories
// by name.
func (p Pattern) Match(rel string, isDir bool) bool {
	rel = strings.TrimSuffix(rel, "/")
	if rel == "" {
		return false
	}

	if p.dirOnly {
		if isDir && p.matchOne(rel) {
			return true
		}
		for i := 0; i < len(rel); i++ {
			if rel[i] == '/' && p.matchOne(rel[:i]) {
				return true
			}
		}
		return false
	}

	return p.matchOne(rel)
}

func (p Pattern) matchOne(rel string) bool {
	if p.hasSlash {
		return p.glob.Match(rel)
	}
	return p.glob.Match(path.Base(rel))
}
