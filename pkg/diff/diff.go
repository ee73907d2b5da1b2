// Package diff provides unified diff generation.
package diff

import (
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// noNewline marks a last line that has no terminating newline, as git does.
const noNewline = "\\ No newline at end of file\n"

// Unified generates a unified diff between oldText and newText, with
// "a/" and "b/" prefixed file headers. Returns an empty string if the
// inputs are identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	name := filepath.ToSlash(filename)
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  contextLines,
	})
	if err != nil {
		return ""
	}
	return d
}

// splitLines splits text into newline-terminated lines. An empty string
// produces zero lines. An unterminated last line gets a newline plus the
// noNewline marker, so it never compares equal to its terminated form and
// hunks never run two lines together.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty trailing element when s ends with \n.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n" + noNewline
	}
	return lines
}
