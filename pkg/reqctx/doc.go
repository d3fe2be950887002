// Package reqctx carries request-scoped data from the HTTP layer into
// services.
//
// The request id middleware stores a *RequestMeta on every request:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{
//	    RequestID:   "abc-123",
//	    ClientIP:    "192.168.1.1",
//	    RequestedAt: time.Now(),
//	})
//
// Services read it back, usually only to correlate log lines:
//
//	reqctx.Logger(ctx).Warn("publish failed", "err", err)
//
// Context keys are unexported; access goes through the getters.
package reqctx
