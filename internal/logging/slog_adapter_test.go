// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandler_WritesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	slogger := slog.New(NewSlogHandlerWithLogger(zl))

	slogger.Info("service started", "name", "relation-consumer")

	out := buf.String()
	if !strings.Contains(out, `"message":"service started"`) {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, `"name":"relation-consumer"`) {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	slogger := slog.New(NewSlogHandlerWithLogger(zl))

	slogger.Warn("warn msg")
	slogger.Error("error msg")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level, got %q", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("expected error level, got %q", out)
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	h := NewSlogHandlerWithLogger(zl).WithAttrs([]slog.Attr{slog.String("supervisor", "root")})
	slogger := slog.New(h)

	slogger.Info("child started")

	if !strings.Contains(buf.String(), `"supervisor":"root"`) {
		t.Errorf("expected pre-configured attribute, got %q", buf.String())
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	h := NewSlogHandlerWithLogger(zl).WithGroup("tree")
	slogger := slog.New(h)

	slogger.Info("grouped", "node", "messaging")

	if !strings.Contains(buf.String(), `"tree.node":"messaging"`) {
		t.Errorf("expected group-prefixed key, got %q", buf.String())
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf).Level(zerolog.WarnLevel)

	h := NewSlogHandlerWithLogger(zl)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
