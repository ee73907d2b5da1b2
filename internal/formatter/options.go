package formatter

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/donaldgifford/pyfmt/internal/parser"
)

// Limits on the numeric options.
const (
	MaxLineWidth   = 320
	MaxIndentWidth = 16
)

// IndentStyle selects the indentation character.
type IndentStyle string

// Indentation styles.
const (
	IndentSpace IndentStyle = "space"
	IndentTab   IndentStyle = "tab"
)

// QuoteStyle selects the preferred string quote.
type QuoteStyle string

// Quote styles.
const (
	QuoteDouble   QuoteStyle = "double"
	QuoteSingle   QuoteStyle = "single"
	QuotePreserve QuoteStyle = "preserve"
)

// LineEnding selects the line break sequence of the output.
type LineEnding string

// Line endings. Auto and Native are resolved before printing.
const (
	LineEndingAuto   LineEnding = "auto"
	LineEndingLF     LineEnding = "lf"
	LineEndingCRLF   LineEnding = "cr-lf"
	LineEndingNative LineEnding = "native"
)

// Options control the formatting transform.
type Options struct {
	SourceType  parser.SourceType
	LineWidth   int
	IndentWidth int
	IndentStyle IndentStyle
	QuoteStyle  QuoteStyle
	LineEnding  LineEnding
}

// DefaultOptions returns the built-in formatting options.
func DefaultOptions() Options {
	return Options{
		SourceType:  parser.SourcePython,
		LineWidth:   88,
		IndentWidth: 4,
		IndentStyle: IndentSpace,
		QuoteStyle:  QuoteDouble,
		LineEnding:  LineEndingAuto,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if o.LineWidth < 1 || o.LineWidth > MaxLineWidth {
		return fmt.Errorf("line width %d is out of range [1, %d]", o.LineWidth, MaxLineWidth)
	}
	if o.IndentWidth < 1 || o.IndentWidth > MaxIndentWidth {
		return fmt.Errorf("indent width %d is out of range [1, %d]", o.IndentWidth, MaxIndentWidth)
	}
	if _, err := ParseIndentStyle(string(o.IndentStyle)); err != nil {
		return err
	}
	if _, err := ParseQuoteStyle(string(o.QuoteStyle)); err != nil {
		return err
	}
	if _, err := ParseLineEnding(string(o.LineEnding)); err != nil {
		return err
	}
	return nil
}

// IndentUnit returns the text of one indentation level.
func (o Options) IndentUnit() string {
	if o.IndentStyle == IndentTab {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentWidth)
}

// ParseIndentStyle validates an indent style name.
func ParseIndentStyle(s string) (IndentStyle, error) {
	switch IndentStyle(s) {
	case IndentSpace, IndentTab:
		return IndentStyle(s), nil
	}
	return "", fmt.Errorf("unknown indent style %q (want space or tab)", s)
}

// ParseQuoteStyle validates a quote style name.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch QuoteStyle(s) {
	case QuoteDouble, QuoteSingle, QuotePreserve:
		return QuoteStyle(s), nil
	}
	return "", fmt.Errorf("unknown quote style %q (want double, single or preserve)", s)
}

// ParseLineEnding validates a line ending name.
func ParseLineEnding(s string) (LineEnding, error) {
	switch LineEnding(s) {
	case LineEndingAuto, LineEndingLF, LineEndingCRLF, LineEndingNative:
		return LineEnding(s), nil
	}
	return "", fmt.Errorf("unknown line ending %q (want auto, lf, cr-lf or native)", s)
}

// ResolveLineEnding turns auto and native into a concrete line ending.
// Auto follows the first line break of src and falls back to lf.
func ResolveLineEnding(le LineEnding, src string) LineEnding {
	switch le {
	case LineEndingAuto:
		if i := strings.IndexAny(src, "\r\n"); i >= 0 && src[i] == '\r' && strings.HasPrefix(src[i:], "\r\n") {
			return LineEndingCRLF
		}
		return LineEndingLF
	case LineEndingNative:
		if runtime.GOOS == "windows" {
			return LineEndingCRLF
		}
		return LineEndingLF
	}
	return le
}

// Sequence returns the line break text of a concrete line ending.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}
