// Package pipeline formats one file end to end: it resolves the settings
// for the file, applies the exclude lists, then parses, formats and prints
// the content.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/donaldgifford/pyfmt/internal/config"
	"github.com/donaldgifford/pyfmt/internal/exclude"
	"github.com/donaldgifford/pyfmt/internal/formatter"
	"github.com/donaldgifford/pyfmt/internal/parser"
	"github.com/donaldgifford/pyfmt/internal/rules"
)

// Errors returned for targets that cannot be formatted at all.
var (
	ErrMissingExtension = errors.New("missing file extension")
	ErrMissingFileName  = errors.New("failed to get file name")
)

// Message prefixes of content-level failures.
const (
	SyntaxErrorPrefix = "Syntax error: "
	FormatErrorPrefix = "Formatting error: "
	PrintErrorPrefix  = "Print error: "
)

// SettingsResolver returns the settings that apply to a file.
type SettingsResolver interface {
	Resolve(targetPath string) (*config.Settings, error)
}

// ParseFunc parses source text.
type ParseFunc func(src string, mode parser.Mode) (*parser.Module, error)

// FormatFunc runs the formatting transform over a parsed module.
type FormatFunc func(mod *parser.Module, comments parser.CommentRanges, src string,
	opts formatter.Options, rules ...formatter.FormatRule) (*formatter.Document, error)

// PrintFunc renders a formatted document.
type PrintFunc func(doc *formatter.Document) (string, error)

// Pipeline formats files according to their resolved settings. It holds no
// per-file state and is safe for concurrent use when its resolver is.
type Pipeline struct {
	resolver SettingsResolver
	parse    ParseFunc
	format   FormatFunc
	print    PrintFunc
	rules    []formatter.FormatRule
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver sets the settings resolver.
func WithResolver(r SettingsResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithParser replaces the parser.
func WithParser(fn ParseFunc) Option {
	return func(p *Pipeline) { p.parse = fn }
}

// WithFormatter replaces the formatting transform.
func WithFormatter(fn FormatFunc) Option {
	return func(p *Pipeline) { p.format = fn }
}

// WithPrinter replaces the printer.
func WithPrinter(fn PrintFunc) Option {
	return func(p *Pipeline) { p.print = fn }
}

// WithRules sets the formatting rules. The registered rules are used by
// default.
func WithRules(r ...formatter.FormatRule) Option {
	return func(p *Pipeline) { p.rules = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a Pipeline with the default resolver, parser, formatter and
// printer, modified by opts.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: config.NewResolver(),
		parse:    parser.Parse,
		format:   formatter.Format,
		print:    formatter.Print,
		rules:    rules.FormatRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

var defaultPipeline = sync.OnceValue(func() *Pipeline { return New() })

// Format formats content with the default pipeline.
func Format(targetPath, content string) (Result, error) {
	return defaultPipeline().Format(targetPath, content)
}

// FormatLogged is Format with every log line of the call, the resolver's
// included when it is a *config.Resolver, written to logger instead.
func (p *Pipeline) FormatLogged(logger *slog.Logger, targetPath, content string) (Result, error) {
	return p.withLogger(logger).Format(targetPath, content)
}

func (p *Pipeline) withLogger(l *slog.Logger) *Pipeline {
	c := *p
	c.logger = l
	if r, ok := p.resolver.(*config.Resolver); ok {
		rc := *r
		rc.Logger = l
		c.resolver = &rc
	}
	return &c
}

// Format formats content as the file at targetPath. Content-level failures
// are reported in the Result; only a target without a usable name or
// extension, or a failure to resolve its settings, returns an error.
func (p *Pipeline) Format(targetPath, content string) (Result, error) {
	name := filepath.Base(targetPath)
	if targetPath == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingFileName, targetPath)
	}
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingExtension, targetPath)
	}
	sourceType := parser.SourceTypeFromExtension(ext)

	settings, err := p.resolver.Resolve(targetPath)
	if err != nil {
		return Result{}, err
	}

	abs, err := filepath.Abs(targetPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", targetPath, err)
	}
	if pattern, list, ok := excludedBy(settings, abs, name); ok {
		p.logger.Debug("file excluded", "path", targetPath, "pattern", pattern.String(), "list", list)
		return Ignored(), nil
	}

	opts := settings.Formatter.FormatOptions(sourceType, content)

	mod, err := p.parse(content, sourceType.Mode())
	if err != nil {
		return Failed(SyntaxErrorPrefix + err.Error()), nil
	}

	var comments parser.CommentRanges
	if mod != nil {
		comments = parser.CommentRangesFrom(mod.Tokens)
	}
	doc, err := p.format(mod, comments, content, opts, p.rules...)
	if err != nil {
		return Failed(FormatErrorPrefix + err.Error()), nil
	}

	printed, err := p.print(doc)
	if err != nil {
		return Failed(PrintErrorPrefix + err.Error()), nil
	}
	return Success(printed), nil
}

// excludedBy checks the formatter exclude list and then the file resolver
// exclude list.
func excludedBy(s *config.Settings, abs, name string) (exclude.Pattern, string, bool) {
	if pattern, ok := s.Formatter.Exclude.Match(abs, name); ok {
		return pattern, "format.exclude", true
	}
	if pattern, ok := s.FileResolver.Exclude.Match(abs, name); ok {
		return pattern, "exclude", true
	}
	return exclude.Pattern{}, "", false
}
