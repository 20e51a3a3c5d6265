package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/precache/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestHandler(t)
			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	lg, buf := newTestHandler(t)
	lg.With("a", 1).Info("with attrs", "b", 2, "c", 3)

	g := goldie.New(t)
	g.Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_GroupAttr(t *testing.T) {
	lg, buf := newTestHandler(t)
	lg.Info("grouped", slog.Group("req", "method", "GET", "url", "/"), "status", 200)

	g := goldie.New(t)
	g.Assert(t, "handler_group", buf.Bytes())
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.WithGroup("http").With("code", 404).Info("missing", "path", "/x")
	assert.Equal(t, "missing http.code=404 http.path=/x\n", buf.String())

	buf.Reset()
	lg.WithGroup("").Info("plain", "k", "v")
	assert.Equal(t, "plain k=v\n", buf.String())
}

func TestPrettyHandler_WithAttrsDoesNotLeak(t *testing.T) {
	lg, buf := newTestHandler(t)

	parent := lg.With("shared", 1)
	parent.With("child", 2).Info("child")
	buf.Reset()

	parent.Info("parent")
	assert.Equal(t, "parent shared=1\n", buf.String())
}
