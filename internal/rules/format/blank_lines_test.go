package format

import (
	"strings"
	"testing"

	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

func TestBlankLines(t *testing.T) {
	rule := &BlankLines{}
	stub := formatter.DefaultOptions()
	stub.SourceType = parser.SourceStub

	tests := []struct {
		name  string
		input string
		opts  formatter.Options
		want  int
	}{
		{"1 blank at top level", "x = 1\n\ny = 2\n", formatter.DefaultOptions(), 1},
		{"2 blanks at top level", "x = 1\n\n\ny = 2\n", formatter.DefaultOptions(), 2},
		{"5 blanks at top level", "x = 1\n" + strings.Repeat("\n", 5) + "y = 2\n", formatter.DefaultOptions(), 2},
		{"0 blanks", "x = 1\ny = 2\n", formatter.DefaultOptions(), 0},
		{"3 blanks nested", "if x:\n    a = 1\n\n\n\n    b = 2\n", formatter.DefaultOptions(), 1},
		{"blank after header", "def f():\n\n\n    return 1\n", formatter.DefaultOptions(), 0},
		{"blanks before dedent", "if x:\n    a = 1\n\n\n\nb = 2\n", formatter.DefaultOptions(), 2},
		{"blanks before comment", "x = 1\n\n\n\n# c\n", formatter.DefaultOptions(), 2},
		{"stub top level", "x: int\n\n\ny: int\n", stub, 1},
		{"stub nested", "class A:\n    x: int\n\n    y: int\n", stub, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := apply(t, tt.input, tt.opts, rule)
			if got := countBlank(result); got != tt.want {
				t.Errorf("want %d blank lines, got %d", tt.want, got)
			}
		})
	}
}

func TestBlankLinesKeepsTrailingBlanks(t *testing.T) {
	result := apply(t, "x = 1\n\n\n\n", formatter.DefaultOptions(), &BlankLines{})

	if got := countBlank(result); got != 3 {
		t.Errorf("want trailing blanks left alone (3), got %d", got)
	}
}

func TestBlankLinesPreservesOrder(t *testing.T) {
	result := apply(t, "a = 1\n\n\n\nb = 2\n# c\nd = 3\n", formatter.DefaultOptions(), &BlankLines{})

	var got []string
	for _, n := range result {
		switch n.Type {
		case parser.NodeBlankLine:
			got = append(got, "-")
		default:
			got = append(got, n.Raw)
		}
	}
	want := "a = 1|-|-|b = 2|# c|d = 3"
	if strings.Join(got, "|") != want {
		t.Errorf("want %q, got %q", want, strings.Join(got, "|"))
	}
}
