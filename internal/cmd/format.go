package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/pyfmt/internal/runner"
)

func newFormatCommand(a *app) *cobra.Command {
	var opts runner.Options

	cmd := &cobra.Command{
		Use:   "format [flags] [files...]",
		Short: "Format Python files",
		Long: `Format Python files in place. Directories are searched for .py and .pyi
files. With no files, reads from stdin and writes to stdout.

Exit status is 0 when nothing needed formatting or every file was written,
1 when --check or --diff found changes, and 2 on errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newPipeline()
			if err != nil {
				return err
			}

			opts.Files = args
			opts.Formatter = p
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()

			if code := runner.Run(&opts); code != runner.ExitOK {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Check, "check", false, "exit 1 if any file is not formatted")
	f.BoolVar(&opts.Diff, "diff", false, "print unified diff of changes")
	f.BoolVarP(&opts.Write, "write", "w", false, "write results back to files (default for file arguments)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress informational output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "print files as they are processed")
	f.StringVar(&opts.StdinFilename, "stdin-filename", runner.StdinFilename, "path used to resolve settings for stdin")
	cmd.MarkFlagsMutuallyExclusive("check", "diff", "write")

	return cmd
}
