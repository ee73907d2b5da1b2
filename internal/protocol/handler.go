// Package protocol implements the JSON request/response contract of the
// formatter plugin.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/donaldgifford/pyfmt/internal/pipeline"
)

// Request keys.
const (
	KeyTarget        = "target"
	KeyTargetPath    = "target-path"
	KeyCurrentDir    = "current-dir"
	KeyTargetContent = "target-content"
)

// Response keys.
const (
	KeyFormatStatus     = "format-status"
	KeyFormattedContent = "formatted-content"
	KeyFormatError      = "format-error"
	KeyPluginPanic      = "plugin-panic"
)

// Formatter formats the content of one file.
type Formatter interface {
	Format(targetPath, content string) (pipeline.Result, error)
}

// LoggedFormatter is a Formatter that can log a single call to a given
// logger. The handler uses it so a request's own log lines reach the
// formatter.
type LoggedFormatter interface {
	Formatter
	FormatLogged(logger *slog.Logger, targetPath, content string) (pipeline.Result, error)
}

var _ LoggedFormatter = (*pipeline.Pipeline)(nil)

// Handler turns requests into responses. It never fails: every problem is
// reported inside the response.
type Handler struct {
	formatter Formatter
	recorder  DurationRecorder
	logger    *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRecorder sets where the elapsed time of each request is reported.
func WithRecorder(r DurationRecorder) HandlerOption {
	return func(h *Handler) { h.recorder = r }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler returns a Handler backed by f. A nil f uses the default
// pipeline.
func NewHandler(f Formatter, opts ...HandlerOption) *Handler {
	if f == nil {
		f = pipeline.New()
	}
	h := &Handler{formatter: f, recorder: NopRecorder{}}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Handle decodes a JSON request, formats it and returns the encoded
// response.
func (h *Handler) Handle(request []byte) []byte {
	start := time.Now()

	var req map[string]any
	var resp map[string]any
	if err := json.Unmarshal(request, &req); err != nil {
		resp = panicResponse(fmt.Sprintf("decoding request: %v", err))
	} else {
		resp = h.respond(req)
	}
	h.record(start, resp)

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(panicResponse(fmt.Sprintf("encoding response: %v", err)))
	}
	return out
}

func (h *Handler) format(target, content string) (pipeline.Result, error) {
	if lf, ok := h.formatter.(LoggedFormatter); ok {
		return lf.FormatLogged(h.logger, target, content)
	}
	return h.formatter.Format(target, content)
}

// HandleValue is Handle for an already decoded request.
func (h *Handler) HandleValue(req map[string]any) map[string]any {
	start := time.Now()
	resp := h.respond(req)
	h.record(start, resp)
	return resp
}

func (h *Handler) respond(req map[string]any) (resp map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("recovered panic while formatting", "panic", r)
			resp = panicResponse(fmt.Sprintf("panic: %v", r))
		}
	}()

	if req == nil {
		return panicResponse("request must be a JSON object")
	}
	target, err := Target(req)
	if err != nil {
		return panicResponse(err.Error())
	}
	content, ok := req[KeyTargetContent].(string)
	if !ok {
		return panicResponse(fmt.Sprintf("missing or invalid %q field", KeyTargetContent))
	}

	res, err := h.format(target, content)
	if err != nil {
		h.logger.Warn("format failed", "target", target, "error", err)
		return panicResponse(err.Error())
	}

	switch res.Status {
	case pipeline.StatusSuccess:
		return map[string]any{
			KeyFormatStatus:     res.Status.String(),
			KeyFormattedContent: res.Content,
		}
	case pipeline.StatusIgnored:
		return map[string]any{KeyFormatStatus: res.Status.String()}
	case pipeline.StatusError:
		return map[string]any{
			KeyFormatStatus: res.Status.String(),
			KeyFormatError:  res.Message,
		}
	}
	return panicResponse(fmt.Sprintf("unknown format status %d", res.Status))
}

// Target returns the file a request is about: the "target" field, or else
// "target-path" joined onto "current-dir" when that is present.
func Target(req map[string]any) (string, error) {
	if v, ok := req[KeyTarget]; ok {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%q must be a string", KeyTarget)
		}
		return s, nil
	}

	v, ok := req[KeyTargetPath]
	if !ok {
		return "", errors.New("missing target: expected \"target\" or \"target-path\"")
	}
	path, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string", KeyTargetPath)
	}
	if dir, ok := req[KeyCurrentDir].(string); ok && !filepath.IsAbs(path) {
		return filepath.Join(dir, path), nil
	}
	return path, nil
}

func (h *Handler) record(start time.Time, resp map[string]any) {
	h.recorder.RecordDuration(time.Since(start), outcomeOf(resp))
}

func panicResponse(msg string) map[string]any {
	return map[string]any{KeyPluginPanic: msg}
}

func outcomeOf(resp map[string]any) Outcome {
	if _, ok := resp[KeyPluginPanic]; ok {
		return OutcomePanic
	}
	s, _ := resp[KeyFormatStatus].(string)
	return Outcome(s)
}
