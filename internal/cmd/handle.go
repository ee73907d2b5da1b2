package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pyfmt/internal/protocol"
)

func newHandleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "handle [request-json]",
		Short: "Handle a single JSON request",
		Long: `Handle formats the file described by one JSON request, read from the
argument or else from stdin, and prints the JSON response.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var request []byte
			if len(args) == 1 {
				request = []byte(args[0])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading request: %w", err)
				}
				request = data
			}

			p, err := a.newPipeline()
			if err != nil {
				return err
			}
			h := protocol.NewHandler(p,
				protocol.WithRecorder(protocol.LogRecorder{Logger: a.logger}),
				protocol.WithHandlerLogger(a.logger),
			)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", h.Handle(request))
			return err
		},
	}
}
