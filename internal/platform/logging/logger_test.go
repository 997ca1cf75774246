package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	logger.Info("player added", "team_id", "t1", "player_id", "p1", "err", errors.New("late"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["team_id"] != "t1" || fields["player_id"] != "p1" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["err"] != "late" {
		t.Fatalf("expected error field, got %+v", fields["err"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	core, logs := observer.New(LevelInfo)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "sheet loaded")
	logger.DebugContext(ctx, "filtered out")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected debug entry to be filtered, got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatConsole, Output: &buf})

	logger.Info("roster saved", "players", 3)
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "roster saved") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("does not panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected nop logger")
	}
}

func TestSetMirror_ReceivesEnabledEntries(t *testing.T) {
	core, _ := observer.New(LevelInfo)
	logger := FromZap(zap.New(core))

	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Debug("filtered out")
	logger.WarnContext(t.Context(), "save failed", "team_id", "t1")

	if len(got) != 1 || got[0] != "warn:save failed" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}

	SetMirror(nil)
	logger.Info("after removal")
	if len(got) != 1 {
		t.Fatalf("mirror still installed: %v", got)
	}
}
