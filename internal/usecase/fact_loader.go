package usecase

import (
	"context"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type FactLoadResult struct {
	Table          string         `json:"table"`
	Read           int            `json:"read"`
	Discarded      int            `json:"discarded"`
	DiscardReasons map[string]int `json:"discard_reasons,omitempty"`
	CoercionGaps   map[string]int `json:"coercion_gaps,omitempty"`
	Appended       int            `json:"appended"`
}

// FactLoader appends fact rows. It never updates or deletes.
type FactLoader struct {
	appender chunkAppender
	logger   *logging.Logger
}

func NewFactLoader(sink warehouse.Sink, batchSize int, logger *logging.Logger) *FactLoader {
	if logger == nil {
		logger = logging.Default()
	}
	return &FactLoader{
		appender: chunkAppender{sink: sink, batchSize: batchSize, workers: 1},
		logger:   logger.Named("fact_loader"),
	}
}

// Load coerces the declared columns, drops rows failing the table's
// completeness rule and appends the rest narrowed to the table's columns.
// Target columns missing from rows are left out of the insert.
func (l *FactLoader) Load(ctx context.Context, fact warehouse.Fact, rows dataset.RowSet) (FactLoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FactLoader.Load", attribute.String("table", fact.Table))
	defer span.End()

	result := FactLoadResult{Table: fact.Table, Read: rows.Len()}

	coerced, gaps := coerceRows(rows, fact.Kinds)
	if len(gaps) > 0 {
		result.CoercionGaps = gaps
		l.logger.WarnContext(ctx, "coercion gaps",
			"table", fact.Table,
			"gaps", sumCounts(gaps),
		)
	}

	complete := dataset.RowSet{Columns: coerced.Columns}
	for _, row := range coerced.Rows {
		ok, reason := fact.Rule.Check(row)
		if !ok {
			if result.DiscardReasons == nil {
				result.DiscardReasons = make(map[string]int)
			}
			result.DiscardReasons[reason]++
			result.Discarded++
			continue
		}
		complete.Add(row)
	}

	narrowed := complete.Project(fact.Columns...)
	appended, err := l.appender.append(ctx, fact.Table, narrowed)
	result.Appended = appended
	if err != nil {
		return result, err
	}

	l.logger.InfoContext(ctx, "fact rows appended",
		"table", fact.Table,
		"read", result.Read,
		"discarded", result.Discarded,
		"appended", result.Appended,
	)
	return result, nil
}
