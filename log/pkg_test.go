package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", ctxFunc(TraceContext), "TRACE"},
		{"DebugContext", ctxFunc(DebugContext), "DEBUG"},
		{"InfoContext", ctxFunc(InfoContext), "INFO"},
		{"WarnContext", ctxFunc(WarnContext), "WARN"},
		{"ErrorContext", ctxFunc(ErrorContext), "ERROR"},
		{"With", func(msg string, attrs ...slog.Attr) {
			With(slog.String("extra", "x")).Info(msg, attrs...)
		}, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			var got map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}

			if got["level"] != tt.level || got["msg"] != "message" {
				t.Errorf("got %v, want level %s", got, tt.level)
			}

			if got["key"] != "value" {
				t.Errorf("expected attribute key=value, got %v", got)
			}
		})
	}
}

func TestPackage_Config_UpdatesDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithTimeLayout("none")))
	Config(WithLevel(LevelError))

	Warn("dropped")

	if buf.Len() != 0 {
		t.Errorf("warn logged at error level: %q", buf.String())
	}

	Error("kept")

	if got, want := buf.String(), "level=ERROR msg=kept\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type contextFunc func(ctx context.Context, msg string, attrs ...slog.Attr)

func ctxFunc(fn contextFunc) func(string, ...slog.Attr) {
	return func(msg string, attrs ...slog.Attr) {
		fn(context.Background(), msg, attrs...)
	}
}
