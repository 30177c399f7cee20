package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/config"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-migration")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	databaseURL, err := migrationDatabaseURL(cfg)
	if err != nil {
		fatal(logger, "build migration database url", err)
	}

	migrationsDir, err := resolveMigrationsDir(cfg.DBDriver)
	if err != nil {
		fatal(logger, "resolve migrations dir", err)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		fatal(logger, "create migrator", err)
	}
	defer closeMigrator(m, logger)

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	switch cmd {
	case "up":
		err = m.Up()
		handleMigrationErr(err, logger)
		logger.Info("migrations applied", "source", sourceURL, "driver", cfg.DBDriver)
	case "down":
		steps, parseErr := parseSteps(os.Args[2:])
		if parseErr != nil {
			fatal(logger, "parse down steps", parseErr)
		}
		err = m.Steps(-steps)
		handleMigrationErr(err, logger)
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, versionErr := m.Version()
		if errors.Is(versionErr, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return
		}
		if versionErr != nil {
			fatal(logger, "read version", versionErr)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(os.Args) < 3 {
			fatal(logger, "force", errors.New("force requires a version argument"))
		}
		version, parseErr := parseVersion(os.Args[2])
		if parseErr != nil {
			fatal(logger, "parse version", parseErr)
		}
		if err := m.Force(version); err != nil {
			fatal(logger, "force version", err)
		}
		logger.Info("forced migration version", "version", version)
	case "goto", "migrate":
		if len(os.Args) < 3 {
			fatal(logger, "goto", errors.New("goto requires a target version argument"))
		}
		target, parseErr := parseTarget(os.Args[2])
		if parseErr != nil {
			fatal(logger, "parse target", parseErr)
		}
		err = m.Migrate(target)
		handleMigrationErr(err, logger)
		logger.Info("migrated", "version", target)
	default:
		printUsage()
		os.Exit(2)
	}
}

// migrationDatabaseURL turns the loader's connection settings into the URL
// form golang-migrate expects for each driver.
func migrationDatabaseURL(cfg config.Config) (string, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if !strings.Contains(cfg.DBURL, "://") {
			return "", fmt.Errorf("postgres DB_URL must be a URL for migrations, got a key/value DSN")
		}
		return normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary), nil
	case config.DriverMySQL:
		dsn, err := mysql.ParseDSN(cfg.DBURL)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		dsn.MultiStatements = true
		return "mysql://" + dsn.FormatDSN(), nil
	case config.DriverSQLite:
		return "sqlite://" + strings.TrimPrefix(cfg.DBURL, "file:"), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func handleMigrationErr(err error, logger *logging.Logger) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return
	}
	fatal(logger, "migration failed", err)
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db failed", "error", dbErr)
	}
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	_ = logger.Sync()
	os.Exit(1)
}

func resolveMigrationsDir(driver string) (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		strings.TrimSpace(os.Getenv("MIGRATIONS_PATH")),
		filepath.Join(".", "db", "migrations", driver),
		filepath.Join("/app", "db", "migrations", driver),
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, MIGRATIONS_PATH, ./db/migrations/%s, /app/db/migrations/%s)", driver, driver)
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s down 1\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s version\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s force 1771900000\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "  %s goto 1771900000\n", filepath.Base(os.Args[0]))
}
