// Package runner formats files from the command line: it walks the given
// paths, runs each Python file through the pipeline and reports, diffs or
// writes the result.
package runner

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/donaldgifford/pyfmt/internal/config"
	"github.com/donaldgifford/pyfmt/internal/exclude"
	"github.com/donaldgifford/pyfmt/internal/pipeline"
	"github.com/donaldgifford/pyfmt/internal/protocol"
	"github.com/donaldgifford/pyfmt/pkg/diff"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitFormatDiff = 1
	ExitError      = 2
)

// StdinFilename is the target path used for content read from stdin when
// none is given.
const StdinFilename = "stdin.py"

// Options configures the runner behavior.
type Options struct {
	Files []string
	Check bool
	Diff  bool
	// Write rewrites files in place. It is the default for file arguments
	// and has no meaning for stdin.
	Write   bool
	Quiet   bool
	Verbose bool
	// StdinFilename is the path used to resolve settings for stdin
	// content.
	StdinFilename string
	// Formatter defaults to a new pipeline.
	Formatter protocol.Formatter
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
}

// skipDirs are directory names never descended into when walking.
var skipDirs = mustCompile(config.DefaultExclude)

// Run formats the configured files, or stdin when there are none, and
// returns an exit code.
func Run(opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Formatter == nil {
		opts.Formatter = pipeline.New()
	}

	if len(opts.Files) == 0 {
		if opts.Write {
			writeErr(opts.Stderr, "pyfmt: --write needs file arguments, not stdin\n")
			return ExitError
		}
		return runStdin(opts)
	}

	files, err := collect(opts.Files)
	if err != nil {
		writeErr(opts.Stderr, "pyfmt: %v\n", err)
		return ExitError
	}

	exitCode := ExitOK
	for _, path := range files {
		code := runFile(opts, path)
		if code > exitCode {
			exitCode = code
		}
	}
	return exitCode
}

func runStdin(opts *Options) int {
	src, err := io.ReadAll(opts.Stdin)
	if err != nil {
		writeErr(opts.Stderr, "pyfmt: reading stdin: %v\n", err)
		return ExitError
	}

	target := opts.StdinFilename
	if target == "" {
		target = StdinFilename
	}

	input := string(src)
	output, code, ok := formatInput(opts, target, input)
	if !ok {
		if code == ExitOK {
			// Ignored: pass the content through unchanged.
			writeOut(opts.Stdout, input)
		}
		return code
	}

	if opts.Check {
		if input != output {
			return ExitFormatDiff
		}
		return ExitOK
	}

	if opts.Diff {
		d := diff.Unified(target, input, output)
		if d != "" {
			writeOut(opts.Stdout, d)
			return ExitFormatDiff
		}
		return ExitOK
	}

	writeOut(opts.Stdout, output)
	return ExitOK
}

func runFile(opts *Options, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		writeErr(opts.Stderr, "pyfmt: %v\n", err)
		return ExitError
	}

	input := string(src)
	output, code, ok := formatInput(opts, path, input)
	if !ok {
		return code
	}

	if opts.Verbose {
		writeErr(opts.Stderr, "%s\n", path)
	}

	if opts.Check {
		if input != output {
			if !opts.Quiet {
				writeErr(opts.Stderr, "%s %s\n", color.YellowString("would reformat"), path)
			}
			return ExitFormatDiff
		}
		return ExitOK
	}

	if opts.Diff {
		d := diff.Unified(path, input, output)
		if d != "" {
			writeOut(opts.Stdout, d)
			return ExitFormatDiff
		}
		return ExitOK
	}

	// Write mode (default for file args).
	if input == output {
		return ExitOK
	}

	info, err := os.Stat(path)
	if err != nil {
		writeErr(opts.Stderr, "pyfmt: %v\n", err)
		return ExitError
	}
	if err := os.WriteFile(path, []byte(output), info.Mode().Perm()); err != nil {
		writeErr(opts.Stderr, "pyfmt: writing %s: %v\n", path, err)
		return ExitError
	}
	if !opts.Quiet {
		writeErr(opts.Stderr, "%s %s\n", color.GreenString("reformatted"), path)
	}
	return ExitOK
}

// formatInput runs the pipeline. ok is false when there is no output to
// act on; code is then the exit code for the file.
func formatInput(opts *Options, path, input string) (output string, code int, ok bool) {
	res, err := opts.Formatter.Format(path, input)
	if err != nil {
		writeErr(opts.Stderr, "pyfmt: %v\n", err)
		return "", ExitError, false
	}

	switch res.Status {
	case pipeline.StatusIgnored:
		if opts.Verbose {
			writeErr(opts.Stderr, "%s %s\n", color.CyanString("ignored"), path)
		}
		return "", ExitOK, false
	case pipeline.StatusError:
		writeErr(opts.Stderr, "%s %s: %s\n", color.RedString("error:"), path, res.Message)
		return "", ExitError, false
	}
	return res.Content, ExitOK, true
}

// collect expands directories into the Python files below them. Files
// named explicitly are kept whatever their extension.
func collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// Reported when the file is read.
			files = append(files, p)
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && exclude.Matches(path, d.Name(), skipDirs) {
					return filepath.SkipDir
				}
				return nil
			}
			if ext := filepath.Ext(path); ext == ".py" || ext == ".pyi" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}

func mustCompile(patterns []string) exclude.Set {
	set, err := exclude.Compile(patterns, "")
	if err != nil {
		panic(err)
	}
	return set
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
