// Package exclude decides whether a file is out of scope for formatting.
//
// Patterns are globs in doublestar syntax. A pattern is anchored at the
// project root it was declared under, and also tried against the bare file
// name, so both "build/*" and "*_pb2.py" behave the way users expect. A
// pattern that matches a directory excludes everything below it, up to the
// project root.
package exclude

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a single compiled exclude pattern.
type Pattern struct {
	raw  string // As written, without trailing slash.
	abs  string // Anchored at root.
	root string // Slash-separated project root, "" when unanchored.
	bare bool   // raw has no "/".
}

// Set is an ordered list of patterns. A match on any pattern is enough.
type Set []Pattern

// New compiles raw relative to the project root directory root. An empty
// root leaves the pattern unanchored.
func New(raw, root string) (Pattern, error) {
	trimmed := strings.TrimSuffix(filepath.ToSlash(raw), "/")
	if trimmed == "" {
		return Pattern{}, fmt.Errorf("empty exclude pattern %q", raw)
	}
	if !doublestar.ValidatePattern(trimmed) {
		return Pattern{}, fmt.Errorf("invalid exclude pattern %q: %w", raw, doublestar.ErrBadPattern)
	}

	p := Pattern{
		raw:  trimmed,
		abs:  trimmed,
		bare: !strings.Contains(trimmed, "/"),
	}
	if root != "" {
		p.root = path.Clean(filepath.ToSlash(root))
		if !path.IsAbs(trimmed) && !strings.HasPrefix(trimmed, "**") {
			p.abs = path.Join(escapeMeta(p.root), trimmed)
		}
	}
	return p, nil
}

// Compile compiles patterns relative to root, preserving their order.
func Compile(patterns []string, root string) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, raw := range patterns {
		p, err := New(raw, root)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Strings returns the patterns of s as written.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.raw
	}
	return out
}

// Match returns the first pattern of s that excludes the file.
func (s Set) Match(fullPath, fileName string) (Pattern, bool) {
	full := path.Clean(filepath.ToSlash(fullPath))
	for _, p := range s {
		if p.matches(full, fileName) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Matches reports whether the file at fullPath, whose base name is
// fileName, is excluded by any of patterns.
func Matches(fullPath, fileName string, patterns Set) bool {
	if len(patterns) == 0 {
		return false
	}
	_, ok := patterns.Match(fullPath, fileName)
	return ok
}

func (p Pattern) matches(full, name string) bool {
	if match(p.raw, name) || match(p.abs, full) {
		return true
	}

	// Ancestor directories inside the project root.
	for dir := path.Dir(full); p.within(dir); dir = path.Dir(dir) {
		if match(p.abs, dir) {
			return true
		}
		if p.bare && match(p.raw, path.Base(dir)) {
			return true
		}
		if dir == p.root || dir == "/" || dir == "." {
			break
		}
	}
	return false
}

// within reports whether dir is the project root or below it. Unanchored
// patterns only look at the file itself.
func (p Pattern) within(dir string) bool {
	if p.root == "" {
		return false
	}
	if p.root == "/" {
		return true
	}
	return dir == p.root || strings.HasPrefix(dir, p.root+"/")
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// escapeMeta quotes glob metacharacters in a literal path.
func escapeMeta(s string) string {
	if !strings.ContainsAny(s, `*?[]{}\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
