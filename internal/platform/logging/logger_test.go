package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestNewJSONTo_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelInfo).Named("fact_loader").With("run_id", "r-1")

	logger.Info("fact rows appended", "table", "fact_callup", "appended", 3, "err", errors.New("boom"))
	logger.Debug("dropped by level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "fact rows appended" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["logger"] != "fact_loader" {
		t.Fatalf("unexpected logger name: %v", entry["logger"])
	}
	if entry["run_id"] != "r-1" || entry["table"] != "fact_callup" {
		t.Fatalf("missing fields: %v", entry)
	}
	if entry["appended"] != float64(3) {
		t.Fatalf("unexpected appended: %v", entry["appended"])
	}
	if entry["err"] != "boom" {
		t.Fatalf("unexpected err field: %v", entry["err"])
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"columns", []string{"a", "b"}, "dangling"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "dangling" {
		t.Fatalf("unexpected trailing key: %s", fields[1].Key)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.Sync() != nil {
		t.Fatalf("expected nil sync error on nil logger")
	}
}
