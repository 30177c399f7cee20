package app

import (
	"net/url"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/config"
	"github.com/go-sql-driver/mysql"
)

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

// dbName extracts the database name for span attributes. Sqlite reports the
// file name.
func dbName(driver, raw string) string {
	switch driver {
	case config.DriverMySQL:
		parsed, err := mysql.ParseDSN(raw)
		if err != nil {
			return ""
		}
		return parsed.DBName
	case config.DriverSQLite:
		path := strings.TrimPrefix(strings.TrimSpace(raw), "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if i := strings.LastIndexAny(path, `/\`); i >= 0 {
			path = path[i+1:]
		}
		return path
	default:
		return dbNameFromURL(raw)
	}
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

// dbSystem maps a driver to its OpenTelemetry db.system value.
func dbSystem(driver string) string {
	switch driver {
	case config.DriverPostgres:
		return "postgresql"
	case config.DriverMySQL:
		return "mysql"
	default:
		return driver
	}
}
