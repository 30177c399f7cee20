package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

// Config stores runtime configuration for the warehouse loader.
type Config struct {
	AppEnv                  string `validate:"oneof=dev stage prod"`
	ServiceName             string `validate:"required"`
	ServiceVersion          string
	LogLevel                logging.Level
	DBDriver                string `validate:"oneof=postgres mysql sqlite"`
	DBURL                   string `validate:"required"`
	DBDisablePreparedBinary bool
	SourcePath              string `validate:"required"`
	MappingFile             string
	MonthlyYear             int    `validate:"gte=1900,lte=2100"`
	IdempotencyPolicy       string `validate:"oneof=append skip-existing"`
	KeyNormalizer           string `validate:"oneof=exact casefold accentfold tokenset"`
	LoadBatchSize           int    `validate:"gte=1"`
	LoadWorkers             int    `validate:"gte=1,lte=64"`
	ReportPath              string
	UptraceEnabled          bool
	UptraceDSN              string `validate:"required_if=UptraceEnabled true"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load() (Config, error) {
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	monthlyYear, err := getEnvAsInt("MONTHLY_YEAR", 2025)
	if err != nil {
		return Config{}, fmt.Errorf("parse MONTHLY_YEAR: %w", err)
	}
	loadBatchSize, err := getEnvAsInt("LOAD_BATCH_SIZE", 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOAD_BATCH_SIZE: %w", err)
	}
	loadWorkers, err := getEnvAsInt("LOAD_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOAD_WORKERS: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	cfg := Config{
		AppEnv:                  strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDev))),
		ServiceName:             getEnv("APP_SERVICE_NAME", "scouting-warehouse"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBDriver:                strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverMySQL))),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		SourcePath:              strings.TrimSpace(getEnv("SOURCE_PATH", "data_raw/CONVOCATORIAS.xlsx")),
		MappingFile:             strings.TrimSpace(getEnv("MAPPING_FILE", "")),
		MonthlyYear:             monthlyYear,
		IdempotencyPolicy:       strings.ToLower(strings.TrimSpace(getEnv("IDEMPOTENCY_POLICY", "append"))),
		KeyNormalizer:           strings.ToLower(strings.TrimSpace(getEnv("KEY_NORMALIZER", "exact"))),
		LoadBatchSize:           loadBatchSize,
		LoadWorkers:             loadWorkers,
		ReportPath:              strings.TrimSpace(getEnv("REPORT_PATH", "")),
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
	}
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.DBURL == "" {
		cfg.DBURL = composeDBURL(
			cfg.DBDriver,
			getEnv("DB_USER", ""),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_NAME", "futbol_portafolio"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct constraints. It is called again after command
// line flags override loaded values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// composeDBURL builds a connection string from discrete settings when DB_URL
// is not set. For sqlite the database name is a file path.
func composeDBURL(driver, user, password, host, name string) string {
	switch driver {
	case DriverMySQL:
		dsn := mysql.NewConfig()
		dsn.User = user
		dsn.Passwd = password
		dsn.Net = "tcp"
		dsn.Addr = host
		dsn.DBName = name
		dsn.ParseTime = true
		return dsn.FormatDSN()
	case DriverSQLite:
		if strings.Contains(name, ".") {
			return name
		}
		return name + ".db"
	default:
		u := url.URL{
			Scheme:   "postgres",
			Host:     host,
			Path:     "/" + name,
			RawQuery: "sslmode=disable",
		}
		if user != "" {
			u.User = url.UserPassword(user, password)
		}
		return u.String()
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}
