package sqldb

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	qb "github.com/futbol-analytics/scouting-warehouse/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// Postgres caps a statement at 65535 bind parameters; mysql and sqlite allow
// fewer in older builds. Inserts are split to stay under this bound.
const defaultMaxParams = 30000

// Sink appends warehouse rows through database/sql. Every Append call runs in
// its own transaction, so a failed batch leaves no partial rows behind.
type Sink struct {
	db        *sqlx.DB
	format    qb.PlaceholderFormat
	maxParams int
	logger    *logging.Logger
}

func NewSink(db *sqlx.DB, logger *logging.Logger) *Sink {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sink{
		db:        db,
		format:    qb.FormatForDriver(db.DriverName()),
		maxParams: defaultMaxParams,
		logger:    logger.Named("sqldb_sink"),
	}
}

func (s *Sink) Append(ctx context.Context, table string, rows dataset.RowSet) (int, error) {
	if rows.Len() == 0 {
		return 0, nil
	}
	if len(rows.Columns) == 0 {
		return 0, sinkError(crerr.Newf("no columns to insert"), "append %s", table)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, sinkError(err, "begin append %s", table)
	}

	perStatement := max(1, s.maxParams/len(rows.Columns))
	for _, chunk := range rows.Chunk(perStatement) {
		insert := qb.InsertInto(table).PlaceholderFormat(s.format).Columns(rows.Columns...)
		for _, row := range chunk.Rows {
			insert.Values(normalizeArgs(chunk.Values(row))...)
		}
		query, args, err := insert.ToSQL()
		if err != nil {
			_ = tx.Rollback()
			return 0, sinkError(err, "build insert %s", table)
		}

		s.logger.DebugContext(ctx, "sink insert",
			"table", table,
			"rows", insert.Rows(),
			"query", formatQueryForTrace(query),
		)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return 0, sinkError(err, "insert into %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, sinkError(err, "commit append %s", table)
	}
	return rows.Len(), nil
}

// ReadTable selects columns from table ordered by the first column. Driver
// byte slices are returned as strings.
func (s *Sink) ReadTable(ctx context.Context, table string, columns ...string) (dataset.RowSet, error) {
	if len(columns) == 0 {
		return dataset.RowSet{}, sinkError(crerr.Newf("no columns to select"), "read %s", table)
	}

	query, err := qb.Select(columns...).
		From(table).
		OrderBy(columns[0]).
		ToSQL()
	if err != nil {
		return dataset.RowSet{}, sinkError(err, "build select %s", table)
	}
	s.logger.DebugContext(ctx, "sink select", "table", table, "query", formatQueryForTrace(query))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return dataset.RowSet{}, sinkError(err, "select %s", table)
	}
	defer rows.Close()

	out := dataset.New(columns...)
	for rows.Next() {
		scanned := make(map[string]any, len(columns))
		if err := rows.MapScan(scanned); err != nil {
			return dataset.RowSet{}, sinkError(err, "scan %s", table)
		}
		row := make(dataset.Row, len(columns))
		for _, c := range columns {
			row[c] = fromDriver(scanned[c])
		}
		out.Add(row)
	}
	if err := rows.Err(); err != nil {
		return dataset.RowSet{}, sinkError(err, "iterate %s", table)
	}
	return out, nil
}

// sinkError wraps a driver failure so that both errors.Is(err, warehouse.ErrSink)
// and errors.Is(err, <driver error>) hold.
func sinkError(err error, format string, args ...any) error {
	return crerr.Wrapf(fmt.Errorf("%w: %w", warehouse.ErrSink, err), format, args...)
}

// normalizeArgs turns dates into plain UTC midnights so every driver stores
// the calendar day unchanged.
func normalizeArgs(values []any) []any {
	for i, v := range values {
		if t, ok := v.(time.Time); ok {
			values[i] = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return values
}

func fromDriver(v any) any {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case nil:
		return nil
	default:
		return value
	}
}

