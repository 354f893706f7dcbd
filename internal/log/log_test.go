package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := New("run-1", NewHandler(&buf, "jsonl", slog.LevelInfo))

	l.Info("merged settings", "added", 7)
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if rec["msg"] != "merged settings" || rec["run_id"] != "run-1" || rec["added"] != float64(7) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	New("", NewHandler(&buf, "pretty", slog.LevelDebug)).Debug("backup written", "path", "/x")

	out := buf.String()
	if !strings.Contains(out, `msg="backup written"`) || !strings.Contains(out, "path=/x") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "run_id") {
		t.Errorf("empty run id should be omitted: %q", out)
	}
}

func TestNewTee(t *testing.T) {
	var file, console bytes.Buffer
	l := New("r", NewHandler(&file, "jsonl", slog.LevelInfo), NewHandler(&console, "pretty", slog.LevelDebug))

	l.Debug("debug only")
	l.With("category", "PreToolUse").Info("both")

	if strings.Contains(file.String(), "debug only") {
		t.Error("info handler received a debug record")
	}
	if !strings.Contains(console.String(), "debug only") {
		t.Error("debug handler missed a debug record")
	}
	for name, out := range map[string]string{"file": file.String(), "console": console.String()} {
		if !strings.Contains(out, "both") || !strings.Contains(out, "PreToolUse") {
			t.Errorf("%s output = %q", name, out)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() returned nil without a logger")
	}
	FromContext(context.Background()).Info("discarded")

	var buf bytes.Buffer
	l := New("", NewHandler(&buf, "jsonl", slog.LevelInfo))
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("logger from context did not write: %q", buf.String())
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Error("run ids repeat")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewRunID() = %q is not a UUID: %v", a, err)
	}
}
