package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatPretty} {
		if err := Init(WithFormat(format), WithWriter(&bytes.Buffer{})); err != nil {
			t.Fatalf("init %s: %v", format, err)
		}
		if Get() == nil {
			t.Fatalf("logger is nil after %s init", format)
		}
	}
	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := Sync(); err != nil {
		t.Errorf("failed to sync logger: %v", err)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat(FormatJSON), WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("board").Info(context.Background(), "entry added", String("identifier", "alice"), Int("pool", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v: %s", err, buf.String())
	}
	if rec["msg"] != "entry added" || rec["identifier"] != "alice" || rec["component"] != "board" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if src, _ := rec["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Fatalf("source should point at the caller, got %q", src)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %s", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatal(err)
	}
	Get().Debug(ctx, "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug not logged after level change: %s", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoggerPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat(FormatPretty), WithWriter(&buf), WithNoColor(true)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Warn(context.Background(), "lookup failed", Error(errors.New("boom")))
	out := buf.String()
	if !strings.Contains(out, "lookup failed") || !strings.Contains(out, "boom") {
		t.Fatalf("unexpected pretty output: %s", out)
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Error(context.Background(), "ignored")
	if l.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}
