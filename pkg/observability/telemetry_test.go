package observability

import (
	"context"
	"testing"

	"github.com/Alijeyrad/ticketcreator_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Observability.ServiceName = "tickets"
	cfg.Observability.Tracing.SamplingRate = 0.25

	got := FromCentralConfig(cfg)
	if got.ServiceName != "tickets" || got.Environment != "test" || got.SamplingRate != 0.25 {
		t.Errorf("FromCentralConfig = %+v", got)
	}
}

func TestInitTelemetry_NoExporter(t *testing.T) {
	p, err := InitTelemetry(context.Background(), Config{ServiceName: "tickets"})
	if err != nil {
		t.Fatalf("InitTelemetry: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	var nilProvider *Provider
	if err := nilProvider.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Shutdown = %v", err)
	}
}
