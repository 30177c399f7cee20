package observability

import (
	"testing"

	"github.com/futbol-analytics/scouting-warehouse/internal/config"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "scouting-warehouse",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNStaysOff(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: true,
		UptraceDSN:     " ",
		ServiceName:    "scouting-warehouse",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}
