// Package cmd implements the pyfmt command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/pyfmt/internal/config"
	"github.com/donaldgifford/pyfmt/internal/pipeline"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app holds the state shared by the subcommands.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "pyfmt",
		Short: "Configuration-aware Python formatter plugin",
		Long: `pyfmt formats Python source files according to the nearest
.pyfmt.toml, pyfmt.toml, .pyfmt.yml, .pyfmt.yaml or pyproject.toml
[tool.pyfmt] configuration.

It runs as a long-lived plugin speaking newline-delimited JSON (serve),
handles single requests (handle), or formats files directly (format).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config-walk", "ancestor", `where to look for config files: "ancestor" or "parent"`)
	flags.String("config", "", "use this config file for every target instead of discovery")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", `log format: "text" or "json"`)
	for _, name := range []string{"config-walk", "config", "log-level", "log-format"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	a.v.SetEnvPrefix("pyfmt")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newHandleCommand(a))
	cmd.AddCommand(newFormatCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// setupLogger installs the process logger on w. Logs never go to stdout,
// which carries protocol responses.
func (a *app) setupLogger(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.v.GetString("log-level"), err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format := a.v.GetString("log-format"); format {
	case "text":
		a.logger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		a.logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	slog.SetDefault(a.logger)
	return nil
}

// newPipeline builds a pipeline from the resolved flags.
func (a *app) newPipeline() (*pipeline.Pipeline, error) {
	policy, err := config.ParseWalkPolicy(a.v.GetString("config-walk"))
	if err != nil {
		return nil, err
	}

	resolver := config.NewResolver()
	resolver.Policy = policy
	resolver.ConfigFile = a.v.GetString("config")
	resolver.Logger = a.logger

	return pipeline.New(
		pipeline.WithResolver(resolver),
		pipeline.WithLogger(a.logger),
	), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pyfmt %s (%s) %s\n", Version, Commit, Date)
		},
	}
}
