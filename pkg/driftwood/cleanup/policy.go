// Package cleanup plans and executes deletions of ignored files. A policy
// selects candidates from an inventory; execution removes them one at a
// time and keeps going past individual failures.
package cleanup

import (
	"fmt"

	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
)

// Policy is a named, compiled cleanup pattern list.
type Policy struct {
	name     string
	patterns []classify.Pattern
}

// NewPolicy compiles a policy from raw patterns. The caller supplies the
// effective list, so an aggressive policy arrives here already containing
// the safe patterns.
func NewPolicy(name string, raws []string) (*Policy, error) {
	compiled, err := classify.CompileAll(raws)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", name, err)
	}
	return &Policy{name: name, patterns: compiled}, nil
}

// Name returns the policy name.
func (p *Policy) Name() string { return p.name }

// Matches reports whether any policy pattern selects the path.
func (p *Policy) Matches(rel string, isDir bool) bool {
	for _, pat := range p.patterns {
		if pat.Match(rel, isDir) {
			return true
		}
	}
	return false
}
