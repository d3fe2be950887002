package reqctx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRequestMetaRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := RequestMetaFromContext(ctx); ok {
		t.Fatal("empty context reported metadata")
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("RequestIDFromContext = %q", got)
	}

	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "abc-123", ClientIP: "10.0.0.1"})
	meta, ok := RequestMetaFromContext(ctx)
	if !ok || meta.ClientIP != "10.0.0.1" {
		t.Fatalf("meta = %+v, %v", meta, ok)
	}
	if got := RequestIDFromContext(ctx); got != "abc-123" {
		t.Fatalf("RequestIDFromContext = %q", got)
	}
}

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "abc-123"})
	Logger(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=abc-123") {
		t.Errorf("log line = %q", buf.String())
	}
}
