package protocol

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pyfmt/internal/config"
	"github.com/donaldgifford/pyfmt/internal/pipeline"
)

// fakeFormatter records the targets it is asked to format.
type fakeFormatter struct {
	mu      sync.Mutex
	targets []string
	result  pipeline.Result
	err     error
	panic   any
}

func (f *fakeFormatter) Format(target, _ string) (pipeline.Result, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	if f.panic != nil {
		panic(f.panic)
	}
	return f.result, f.err
}

func (f *fakeFormatter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.targets)
}

type recorded struct {
	elapsed time.Duration
	outcome Outcome
}

type spyRecorder struct {
	records []recorded
}

func (s *spyRecorder) RecordDuration(elapsed time.Duration, outcome Outcome) {
	s.records = append(s.records, recorded{elapsed, outcome})
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

func TestHandleResultMapping(t *testing.T) {
	tests := []struct {
		name   string
		result pipeline.Result
		want   map[string]any
		outc   Outcome
	}{
		{
			name:   "success",
			result: pipeline.Success("x = 1\n"),
			want:   map[string]any{"format-status": "success", "formatted-content": "x = 1\n"},
			outc:   OutcomeSuccess,
		},
		{
			name:   "ignored",
			result: pipeline.Ignored(),
			want:   map[string]any{"format-status": "ignored"},
			outc:   OutcomeIgnored,
		},
		{
			name:   "error",
			result: pipeline.Failed("Syntax error: invalid syntax at line 1, column 1"),
			want:   map[string]any{"format-status": "error", "format-error": "Syntax error: invalid syntax at line 1, column 1"},
			outc:   OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyRecorder{}
			h := NewHandler(&fakeFormatter{result: tt.result}, WithRecorder(spy))

			resp := decode(t, h.Handle([]byte(`{"target":"a.py","target-content":"x=1\n"}`)))
			assert.Equal(t, tt.want, resp)

			require.Len(t, spy.records, 1)
			assert.Equal(t, tt.outc, spy.records[0].outcome)
			assert.GreaterOrEqual(t, spy.records[0].elapsed, time.Duration(0))
		})
	}
}

func TestHandleRequestShapeFaults(t *testing.T) {
	tests := []struct {
		name    string
		request string
	}{
		{"not json", `{"target":`},
		{"array", `["a.py"]`},
		{"null", `null`},
		{"missing target", `{"target-content":"x"}`},
		{"target not string", `{"target":1,"target-content":"x"}`},
		{"target path not string", `{"target-path":["a.py"],"target-content":"x"}`},
		{"missing content", `{"target":"a.py"}`},
		{"content not string", `{"target":"a.py","target-content":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFormatter{result: pipeline.Success("")}
			spy := &spyRecorder{}
			h := NewHandler(f, WithRecorder(spy))

			resp := decode(t, h.Handle([]byte(tt.request)))
			require.Contains(t, resp, "plugin-panic")
			assert.NotContains(t, resp, "format-status")
			assert.Zero(t, f.calls(), "pipeline must not be entered")

			require.Len(t, spy.records, 1)
			assert.Equal(t, OutcomePanic, spy.records[0].outcome)
		})
	}
}

func TestHandlePipelineErrorIsPanic(t *testing.T) {
	h := NewHandler(&fakeFormatter{err: errors.New("missing file extension: Makefile")})

	resp := decode(t, h.Handle([]byte(`{"target":"Makefile","target-content":""}`)))
	assert.Equal(t, map[string]any{"plugin-panic": "missing file extension: Makefile"}, resp)
}

func TestHandleRecoversPanic(t *testing.T) {
	h := NewHandler(&fakeFormatter{panic: "boom"})

	resp := decode(t, h.Handle([]byte(`{"target":"a.py","target-content":""}`)))
	assert.Equal(t, map[string]any{"plugin-panic": "panic: boom"}, resp)
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name    string
		req     map[string]any
		want    string
		wantErr bool
	}{
		{"target wins", map[string]any{"target": "a.py", "target-path": "b.py"}, "a.py", false},
		{"target path", map[string]any{"target-path": "b.py"}, "b.py", false},
		{"joined onto current dir", map[string]any{"target-path": "pkg/b.py", "current-dir": "/work"}, filepath.Join("/work", "pkg/b.py"), false},
		{"absolute target path", map[string]any{"target-path": "/abs/b.py", "current-dir": "/work"}, "/abs/b.py", false},
		{"missing", map[string]any{"current-dir": "/work"}, "", true},
		{"wrong type", map[string]any{"target": true}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Target(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleValueEndToEnd(t *testing.T) {
	dir := t.TempDir()
	r := config.NewResolver()
	r.DefaultRoot = dir
	h := NewHandler(pipeline.New(pipeline.WithResolver(r)))

	resp := h.HandleValue(map[string]any{
		"current-dir":    dir,
		"target-path":    "main.py",
		"target-content": "x=1\n",
	})
	assert.Equal(t, map[string]any{"format-status": "success", "formatted-content": "x = 1\n"}, resp)

	resp = h.HandleValue(map[string]any{
		"target":         filepath.Join(dir, "bad.py"),
		"target-content": "def f(:\n",
	})
	assert.Equal(t, "error", resp["format-status"])
	assert.Contains(t, resp["format-error"], "Syntax error: ")

	resp = h.HandleValue(map[string]any{
		"target":         filepath.Join(dir, ".venv", "x.py"),
		"target-content": "x=1\n",
	})
	assert.Equal(t, map[string]any{"format-status": "ignored"}, resp)

	resp = h.HandleValue(map[string]any{"target": filepath.Join(dir, "x.py")})
	assert.Contains(t, resp, "plugin-panic")
}
