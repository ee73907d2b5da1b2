package format

import (
	"testing"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

func TestJoinContinuations(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		width     int
		wantFlat  bool
		wantFlatS string
	}{
		{"fits", "x = (1,\n     2)\n", 88, true, "x = (1, 2)"},
		{"fits exactly", "x = (1,\n     2)\n", 10, true, "x = (1, 2)"},
		{"too wide", "x = (1,\n     2)\n", 9, false, ""},
		{"backslash", "total = 1 + \\\n    2\n", 88, true, "total = 1 + 2"},
		{"trailing comment counts", "x = (1,\n     2)  # tail\n", 88, true, "x = (1, 2)  # tail"},
		{"interior comment", "x = (1,  # one\n     2)\n", 88, false, ""},
		{"multi-line string", "x = (\"\"\"a\nb\"\"\",\n     1)\n", 88, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := formatter.DefaultOptions()
			opts.LineWidth = tt.width

			result := apply(t, tt.input, opts, &OperatorSpacing{}, &JoinContinuations{})
			n := statements(result)[0]

			if tt.wantFlat {
				if n.Layout != parser.LayoutFlat || n.Continued {
					t.Fatalf("want flat layout, got layout %v continued %v", n.Layout, n.Continued)
				}
				if got := formatter.RenderFlat(n); got != tt.wantFlatS {
					t.Errorf("want %q, got %q", tt.wantFlatS, got)
				}
				return
			}
			if n.Layout != parser.LayoutRaw {
				t.Errorf("want raw layout, got %v", n.Layout)
			}
		})
	}
}

func TestJoinContinuationsCountsIndentation(t *testing.T) {
	src := "if x:\n    y = (1,\n         2)\n"

	// "y = (1, 2)" is 10 columns wide after 4 columns of indentation.
	for width, wantRaw := range map[int]bool{13: true, 14: false} {
		opts := formatter.DefaultOptions()
		opts.LineWidth = width

		result := apply(t, src, opts, &OperatorSpacing{}, &JoinContinuations{})
		n := statements(result)[1]
		if got := n.Layout == parser.LayoutRaw; got != wantRaw {
			t.Errorf("width %d: raw = %v, want %v", width, got, wantRaw)
		}
	}
}

func TestJoinContinuationsSkipsSingleLines(t *testing.T) {
	src := "x = 1\n"
	mod := parse(t, src)
	result := (&JoinContinuations{}).Format(mod.Nodes, newContext(mod, src, formatter.DefaultOptions()))

	if result[0] != mod.Nodes[0] {
		t.Error("single-line statement was copied")
	}
}
