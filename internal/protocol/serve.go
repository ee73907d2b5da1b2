package protocol

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// MaxRequestSize is the longest request line Serve accepts.
const MaxRequestSize = 64 << 20

// Serve reads newline-delimited JSON requests from r and writes one response
// line per request to w, in order. Blank lines are skipped. It returns nil at
// EOF and the context error once ctx is done; cancellation is checked
// between requests.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxRequestSize)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		reqHandler := *h
		reqHandler.logger = h.logger.With("request_id", uuid.NewString())
		reqHandler.logger.Debug("request received", "bytes", len(line))

		if _, err := bw.Write(reqHandler.Handle(line)); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return ctx.Err()
}
