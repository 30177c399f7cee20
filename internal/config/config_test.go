package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_URL", "")
	t.Setenv("DB_USER", "etl")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("MONTHLY_YEAR", "")
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected AppEnv: %q", cfg.AppEnv)
	}
	if cfg.DBDriver != DriverMySQL {
		t.Fatalf("unexpected DBDriver: %q", cfg.DBDriver)
	}
	if !strings.HasPrefix(cfg.DBURL, "etl:secret@tcp(localhost") || !strings.Contains(cfg.DBURL, "/futbol_portafolio") {
		t.Fatalf("unexpected composed mysql dsn: %q", cfg.DBURL)
	}
	if cfg.MonthlyYear != 2025 {
		t.Fatalf("unexpected MonthlyYear: %d", cfg.MonthlyYear)
	}
	if cfg.IdempotencyPolicy != "append" || cfg.KeyNormalizer != "exact" {
		t.Fatalf("unexpected load strategy: %q %q", cfg.IdempotencyPolicy, cfg.KeyNormalizer)
	}
	if cfg.LoadBatchSize != 500 || cfg.LoadWorkers != 4 {
		t.Fatalf("unexpected batch settings: %d %d", cfg.LoadBatchSize, cfg.LoadWorkers)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RejectsUnknownDriverAndPolicy(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("DB_DRIVER", "oracle")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown DB_DRIVER")
		}
	})

	t.Run("policy", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("IDEMPOTENCY_POLICY", "upsert")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown IDEMPOTENCY_POLICY")
		}
	})

	t.Run("workers", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("LOAD_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for LOAD_WORKERS=0")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-team=scouting, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_ExplicitDBURLWins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_URL", "postgres://warehouse@db:5432/scouting?sslmode=disable")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBURL != "postgres://warehouse@db:5432/scouting?sslmode=disable" {
		t.Fatalf("unexpected DBURL: %q", cfg.DBURL)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
}

func TestComposeDBURL(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		got := composeDBURL(DriverPostgres, "etl", "p@ss", "db:5432", "futbol_portafolio")
		want := "postgres://etl:p%40ss@db:5432/futbol_portafolio?sslmode=disable"
		if got != want {
			t.Fatalf("unexpected postgres url: %q", got)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		if got := composeDBURL(DriverSQLite, "", "", "", "futbol_portafolio"); got != "futbol_portafolio.db" {
			t.Fatalf("unexpected sqlite path: %q", got)
		}
		if got := composeDBURL(DriverSQLite, "", "", "", "data/warehouse.sqlite"); got != "data/warehouse.sqlite" {
			t.Fatalf("unexpected sqlite path: %q", got)
		}
	})
}

func TestLoadMappingOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	content := `sheets:
  players:
    sheet: Jugadores 2025
    columns:
      Nombre: player_name
      Valor (M€): market_value_millions
  match_stats:
    columns:
      Goles Totales: goals
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write mapping file: %v", err)
	}

	overrides, err := LoadMappingOverrides(path)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	if len(overrides) != 2 {
		t.Fatalf("expected 2 sheet overrides, got %d", len(overrides))
	}
	players := overrides["players"]
	if players.Sheet != "Jugadores 2025" {
		t.Fatalf("unexpected sheet name: %q", players.Sheet)
	}
	if players.Columns["Nombre"] != "player_name" || players.Columns["Valor (M€)"] != "market_value_millions" {
		t.Fatalf("unexpected player columns: %+v", players.Columns)
	}
	if overrides["match_stats"].Columns["Goles Totales"] != "goals" {
		t.Fatalf("unexpected match stat columns: %+v", overrides["match_stats"].Columns)
	}
}

func TestLoadMappingOverrides_EmptyPath(t *testing.T) {
	overrides, err := LoadMappingOverrides(" ")
	if err != nil || overrides != nil {
		t.Fatalf("expected no overrides, got %v %v", overrides, err)
	}
}

func TestLoadMappingOverrides_MissingFile(t *testing.T) {
	if _, err := LoadMappingOverrides(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
