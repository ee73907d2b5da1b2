// Package config defines the configuration types and defaults for pyfmt
// and resolves the settings that apply to a file.
package config

import (
	"fmt"

	"github.com/donaldgifford/pyfmt/internal/exclude"
	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
)

// DefaultExclude is the built-in file-resolver exclude list.
var DefaultExclude = []string{
	".bzr",
	".direnv",
	".eggs",
	".git",
	".git-rewrite",
	".hg",
	".ipynb_checkpoints",
	".mypy_cache",
	".nox",
	".pants.d",
	".pyenv",
	".pytest_cache",
	".pytype",
	".ruff_cache",
	".svn",
	".tox",
	".venv",
	".vscode",
	"__pypackages__",
	"_build",
	"buck-out",
	"dist",
	"node_modules",
	"site-packages",
	"venv",
}

// Configuration is the raw, possibly partial content of one configuration
// file. Absent keys are nil.
type Configuration struct {
	// Path is the file the configuration was loaded from.
	Path string `toml:"-" yaml:"-"`
	// Root is the directory containing Path; relative patterns are
	// anchored there.
	Root string `toml:"-" yaml:"-"`

	LineLength    *int     `toml:"line-length" yaml:"line-length"`
	IndentWidth   *int     `toml:"indent-width" yaml:"indent-width"`
	Exclude       []string `toml:"exclude" yaml:"exclude"`
	ExtendExclude []string `toml:"extend-exclude" yaml:"extend-exclude"`

	Format FormatConfiguration `toml:"format" yaml:"format"`
}

// FormatConfiguration holds the [format] table.
type FormatConfiguration struct {
	Exclude     []string `toml:"exclude" yaml:"exclude"`
	QuoteStyle  *string  `toml:"quote-style" yaml:"quote-style"`
	IndentStyle *string  `toml:"indent-style" yaml:"indent-style"`
	LineEnding  *string  `toml:"line-ending" yaml:"line-ending"`
}

// Settings is the fully resolved configuration for a file.
type Settings struct {
	// ProjectRoot anchors the exclude patterns.
	ProjectRoot string
	// Source is the configuration file the settings came from, or "" for
	// the built-in defaults.
	Source string

	FileResolver FileResolverSettings
	Formatter    FormatterSettings
}

// FileResolverSettings decides which files are considered at all.
type FileResolverSettings struct {
	Exclude exclude.Set
}

// FormatterSettings holds the formatter exclude list and the options
// passed to the formatting transform.
type FormatterSettings struct {
	Exclude     exclude.Set
	LineWidth   int
	IndentWidth int
	IndentStyle formatter.IndentStyle
	QuoteStyle  formatter.QuoteStyle
	LineEnding  formatter.LineEnding
}

// DefaultSettings returns the built-in settings with the default exclude
// list anchored at root.
func DefaultSettings(root string) *Settings {
	defaults := formatter.DefaultOptions()
	return &Settings{
		ProjectRoot: root,
		FileResolver: FileResolverSettings{
			Exclude: mustCompile(DefaultExclude, root),
		},
		Formatter: FormatterSettings{
			LineWidth:   defaults.LineWidth,
			IndentWidth: defaults.IndentWidth,
			IndentStyle: defaults.IndentStyle,
			QuoteStyle:  defaults.QuoteStyle,
			LineEnding:  defaults.LineEnding,
		},
	}
}

// IntoSettings overlays the configuration on the defaults and validates
// the result.
func (c *Configuration) IntoSettings() (*Settings, error) {
	s := DefaultSettings(c.Root)
	s.Source = c.Path

	if c.LineLength != nil {
		if *c.LineLength < 1 || *c.LineLength > formatter.MaxLineWidth {
			return nil, fmt.Errorf("line-length %d is out of range [1, %d]", *c.LineLength, formatter.MaxLineWidth)
		}
		s.Formatter.LineWidth = *c.LineLength
	}
	if c.IndentWidth != nil {
		if *c.IndentWidth < 1 || *c.IndentWidth > formatter.MaxIndentWidth {
			return nil, fmt.Errorf("indent-width %d is out of range [1, %d]", *c.IndentWidth, formatter.MaxIndentWidth)
		}
		s.Formatter.IndentWidth = *c.IndentWidth
	}

	resolverExclude := DefaultExclude
	if c.Exclude != nil {
		resolverExclude = c.Exclude
	}
	resolverExclude = append(append([]string(nil), resolverExclude...), c.ExtendExclude...)

	var err error
	if s.FileResolver.Exclude, err = exclude.Compile(resolverExclude, c.Root); err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	if s.Formatter.Exclude, err = exclude.Compile(c.Format.Exclude, c.Root); err != nil {
		return nil, fmt.Errorf("format.exclude: %w", err)
	}

	if v := c.Format.QuoteStyle; v != nil {
		if s.Formatter.QuoteStyle, err = formatter.ParseQuoteStyle(*v); err != nil {
			return nil, fmt.Errorf("format.quote-style: %w", err)
		}
	}
	if v := c.Format.IndentStyle; v != nil {
		if s.Formatter.IndentStyle, err = formatter.ParseIndentStyle(*v); err != nil {
			return nil, fmt.Errorf("format.indent-style: %w", err)
		}
	}
	if v := c.Format.LineEnding; v != nil {
		if s.Formatter.LineEnding, err = formatter.ParseLineEnding(*v); err != nil {
			return nil, fmt.Errorf("format.line-ending: %w", err)
		}
	}
	return s, nil
}

// FormatOptions builds the transform options for one file. The line ending
// is resolved against the file's content.
func (f *FormatterSettings) FormatOptions(sourceType parser.SourceType, content string) formatter.Options {
	return formatter.Options{
		SourceType:  sourceType,
		LineWidth:   f.LineWidth,
		IndentWidth: f.IndentWidth,
		IndentStyle: f.IndentStyle,
		QuoteStyle:  f.QuoteStyle,
		LineEnding:  formatter.ResolveLineEnding(f.LineEnding, content),
	}
}

func mustCompile(patterns []string, root string) exclude.Set {
	set, err := exclude.Compile(patterns, root)
	if err != nil {
		panic(fmt.Sprintf("config: built-in pattern: %v", err))
	}
	return set
}
