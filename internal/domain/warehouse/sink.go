package warehouse

import (
	"context"
	"errors"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
)

// ErrSink marks failures of the relational sink. They are fatal for a run.
var ErrSink = errors.New("warehouse sink failure")

// Sink is the appendable relational store the pipeline loads into.
type Sink interface {
	// Append inserts rows into table and returns the number of rows written.
	Append(ctx context.Context, table string, rows dataset.RowSet) (int, error)
	// ReadTable returns every row of table restricted to columns.
	ReadTable(ctx context.Context, table string, columns ...string) (dataset.RowSet, error)
}
