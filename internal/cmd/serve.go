package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pyfmt/internal/protocol"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Handle newline-delimited JSON requests on stdin",
		Long: `Serve reads one JSON request per line from stdin and writes one JSON
response per line to stdout, until stdin is closed or the process is
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd)
		},
	}

	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	if err := a.v.BindPFlag("metrics-addr", cmd.Flags().Lookup("metrics-addr")); err != nil {
		panic(err)
	}
	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	p, err := a.newPipeline()
	if err != nil {
		return err
	}

	recorders := protocol.MultiRecorder{protocol.LogRecorder{Logger: a.logger, Level: slog.LevelDebug}}

	if addr := a.v.GetString("metrics-addr"); addr != "" {
		metrics := protocol.NewMetricsRecorder(nil)
		recorders = append(recorders, metrics)

		srv, err := startMetricsServer(addr, metrics.Handler(), a.logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	h := protocol.NewHandler(p,
		protocol.WithRecorder(recorders),
		protocol.WithHandlerLogger(a.logger),
	)

	a.logger.Info("serving format requests")
	err = h.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.logger.Info("stopped serving format requests")
	return err
}

func startMetricsServer(addr string, handler http.Handler, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return srv, nil
}
