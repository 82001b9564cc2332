package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("speakeralign")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "speakeralign" {
		t.Errorf("expected service 'speakeralign', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: "json", Output: "stdout"}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewWithWriterCapturesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "svc").WithComponent("speech")

	l.Info("pipeline finished", map[string]interface{}{FieldSegments: 3})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "pipeline finished" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry[FieldComponent] != "speech" {
		t.Errorf("expected component 'speech', got %v", entry[FieldComponent])
	}
	if entry[FieldSegments] != float64(3) {
		t.Errorf("expected segments 3, got %v", entry[FieldSegments])
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "svc")

	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("expected request_id in log line, got %s", buf.String())
	}
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected request id 'req-123', got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithContextAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	NewWithWriter(&buf, "svc").WithContext(ctx).Warn("degraded")

	if !strings.Contains(buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`) {
		t.Errorf("expected trace_id in log line, got %s", buf.String())
	}
}

func TestConsoleLevelTags(t *testing.T) {
	w := consoleWriter(&Config{NoColor: true}, "speakeralign")
	tests := map[string]string{
		"info":  "[SPE][INF]",
		"error": "[SPE][ERR]",
		"trace": "[SPE][TRACE]",
	}
	for level, want := range tests {
		if got := w.FormatLevel(level); got != want {
			t.Errorf("FormatLevel(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestInitSetsGlobalLogger(t *testing.T) {
	Init(&Config{Level: "info", Format: "json", ServiceName: "speakeralign"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "speakeralign" {
		t.Errorf("expected service name from config, got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(&Config{Level: "debug", Format: "console", Output: "stdout", NoColor: true})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "warn", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetCachesPerComponent(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewWithWriter(&buf, "speakeralign"))
	t.Cleanup(func() { SetGlobalLogger(nil) })

	a := Get("speech")
	if Get("speech") != a {
		t.Error("expected the cached component logger")
	}
	if Get("api") == a {
		t.Error("components must not share a logger")
	}

	a.Error("align failed")
	if !strings.Contains(buf.String(), `"component":"speech"`) {
		t.Errorf("component field missing: %s", buf.String())
	}

	SetGlobalLogger(NewWithWriter(&bytes.Buffer{}, "other"))
	if Get("speech") == a {
		t.Error("replacing the global logger should drop cached components")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"words", 12, "speakers", 2}, map[string]interface{}{"words": 12, "speakers": 2}},
		{"odd number of args", []interface{}{"op", "align", "trailing"}, map[string]interface{}{"op": "align"}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	fields := ErrorFields("diarize", fmt.Errorf("sidecar down"))
	if fields[FieldOperation] != "diarize" || fields[FieldError] != "sidecar down" {
		t.Errorf("unexpected error fields %v", fields)
	}

	fields = DurationFields("transcribe", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}
