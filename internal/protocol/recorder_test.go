package protocol

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	r := LogRecorder{Logger: slog.New(slog.NewJSONHandler(&buf, nil)), Level: slog.LevelInfo}

	r.RecordDuration(1500*time.Microsecond, OutcomeIgnored)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "format request handled", entry["msg"])
	assert.Equal(t, "ignored", entry["outcome"])
	assert.EqualValues(t, 1500*time.Microsecond, entry["elapsed"])
}

func TestLogRecorderBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	LogRecorder{Logger: logger, Level: slog.LevelDebug}.RecordDuration(time.Millisecond, OutcomeSuccess)
	assert.Zero(t, buf.Len())
}

func TestMetricsRecorder(t *testing.T) {
	m := NewMetricsRecorder(nil)

	m.RecordDuration(2*time.Millisecond, OutcomeSuccess)
	m.RecordDuration(3*time.Millisecond, OutcomeSuccess)
	m.RecordDuration(time.Millisecond, OutcomePanic)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("plugin-panic")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration), "one histogram per outcome")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pyfmt_protocol_requests_total{outcome="success"} 2`)
	assert.Contains(t, rec.Body.String(), "pyfmt_protocol_request_duration_seconds_bucket")
}

func TestMultiRecorder(t *testing.T) {
	a, b := &spyRecorder{}, &spyRecorder{}
	MultiRecorder{a, NopRecorder{}, b}.RecordDuration(time.Second, OutcomeError)

	assert.Equal(t, []recorded{{time.Second, OutcomeError}}, a.records)
	assert.Equal(t, a.records, b.records)
}
