package parser

import "testing"

func FuzzParse(f *testing.F) {
	// Seed with representative Python constructs.
	seeds := []string{
		"# comment\n",
		"x = 1\n",
		"x=1\n",
		"import os, sys\n",
		"def f(a, b=2, *args, **kw):\n    return a + b\n",
		"class A(B):\n    pass\n",
		"if x:\n    y\nelif z:\n    w\nelse:\n    v\n",
		"s = '''multi\nline'''\n",
		"values = [\n    1,  # one\n    2,\n]\n",
		"total = 1 + \\\n    2\n",
		"x = (1]\n",
		"def f(:\n",
		"\n",
		"",
		"\tif x:\n  pass\n",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// The parser should never panic on any input.
		mod, err := Parse(input, ModeModule)
		if err != nil {
			return
		}
		if n := len(mod.Tokens); n == 0 || mod.Tokens[n-1].Kind != TokenEOF {
			t.Fatalf("token stream does not end with EOF for %q", input)
		}
	})
}
