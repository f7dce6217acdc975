package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestErrFmtHandler_AddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := errors.New("boom")
	logger.Error("operation failed", ErrAttr(err))

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("log output is not JSON: %v", jsonErr)
	}
	if record[ErrAttrKey] == nil {
		t.Error("error attribute missing from record")
	}
	if _, ok := record[StacktraceAttrKey]; !ok {
		t.Error("stacktrace attribute missing for cockroachdb error")
	}
}

func TestErrFmtHandler_PlainRecord(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("training started", SamplesKey, 60000, FeaturesKey, 784)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := record[StacktraceAttrKey]; ok {
		t.Error("stacktrace attribute should not appear without an error")
	}
	if record[SamplesKey] != float64(60000) {
		t.Errorf("samples attribute = %v, want 60000", record[SamplesKey])
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ToLogLevel(tt.in)
		if err != nil {
			t.Errorf("ToLogLevel(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToLogLevel_Unknown(t *testing.T) {
	if _, err := ToLogLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level name")
	}
	if err := SetupLogger("verbose"); err == nil {
		t.Error("SetupLogger should reject an unknown level name")
	}
}
