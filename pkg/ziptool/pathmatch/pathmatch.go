// Package pathmatch resolves user-supplied paths into a fixed set of
// filesystem targets and answers identity queries against them.
//
// Matching is by filesystem identity, not string comparison: a target and a
// candidate match when they resolve to the same underlying file or directory
// (symlinks followed). This makes spellings like "./docs", "docs/" and
// "sub/../docs" interchangeable, and it means a symlink to a target matches
// the target.
package pathmatch

import (
	"os"
	"path/filepath"
	"strings"
)

// target is one resolved path. info is nil when the path did not exist at
// resolution time; such targets are kept but can never match.
type target struct {
	path string
	info os.FileInfo
}

// Matcher holds an immutable set of resolved target paths.
//
// A nil *Matcher is valid and never matches.
type Matcher struct {
	targets []target
}

// New resolves each path against base (relative paths are joined to it,
// absolute paths are cleaned) and stats the result once. Blank paths are
// dropped. Paths that do not resolve to an existing filesystem entry are
// retained but cannot match anything.
func New(base string, paths []string) *Matcher {
	m := &Matcher{}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs := p
		if filepath.IsAbs(abs) {
			abs = filepath.Clean(abs)
		} else {
			abs = filepath.Join(base, abs)
		}
		info, err := os.Stat(abs)
		if err != nil {
			info = nil
		}
		m.targets = append(m.targets, target{path: abs, info: info})
	}
	return m
}

// Len reports the number of resolved targets, existing or not.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.targets)
}

// Matches reports whether path resolves to the same filesystem entry as any
// target. Candidates that cannot be stat'ed never match and never error.
func (m *Matcher) Matches(path string) bool {
	if m == nil || len(m.targets) == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return m.MatchesInfo(info)
}

// MatchesInfo is Matches for a candidate that has already been stat'ed,
// saving a syscall when the caller holds the os.FileInfo.
func (m *Matcher) MatchesInfo(info os.FileInfo) bool {
	if m == nil || len(m.targets) == 0 || info == nil {
		return false
	}
	for _, t := range m.targets {
		if t.info != nil && os.SameFile(t.info, info) {
			return true
		}
	}
	return false
}
