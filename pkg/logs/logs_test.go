package logs

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Alijeyrad/ticketcreator_backend/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, errBuf bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(m).With("component", "test")

	logger.Info("hello")
	logger.Error("boom")

	if !strings.Contains(debugBuf.String(), "hello") || !strings.Contains(debugBuf.String(), "boom") {
		t.Errorf("debug handler output = %q", debugBuf.String())
	}
	if strings.Contains(errBuf.String(), "hello") || !strings.Contains(errBuf.String(), "component=test") {
		t.Errorf("error handler output = %q", errBuf.String())
	}
	if !m.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled should be true when any handler accepts the level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "info"
	cfg.Logging.Output.File.Enabled = true
	cfg.Logging.Output.File.Path = filepath.Join(t.TempDir(), "app.log")

	logger, closeFn := New(cfg)
	defer closeFn()

	if logger == nil {
		t.Fatal("New returned nil logger")
	}
	logger.Info("written to file")
}
