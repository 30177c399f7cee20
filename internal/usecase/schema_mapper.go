package usecase

import (
	"context"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SchemaMapper renames spreadsheet headers to canonical warehouse columns.
type SchemaMapper struct {
	logger *logging.Logger
}

func NewSchemaMapper(logger *logging.Logger) *SchemaMapper {
	if logger == nil {
		logger = logging.Default()
	}
	return &SchemaMapper{logger: logger.Named("schema_mapper")}
}

// Map keeps only the canonical columns that some source column maps to, in
// mapping order. A source column already named after a canonical column maps
// to it. When several source columns map to the same canonical column the
// leftmost wins.
func (m *SchemaMapper) Map(ctx context.Context, rows dataset.RowSet, mapping SheetMapping) (dataset.RowSet, error) {
	_, span := startUsecaseSpan(ctx, "usecase.SchemaMapper.Map", attribute.String("sheet", mapping.Sheet))
	defer span.End()

	m.logger.InfoContext(ctx, "source columns discovered",
		"sheet", mapping.Sheet,
		"columns", rows.Columns,
	)

	renames := make(map[string]string, len(mapping.Columns))
	for _, c := range mapping.Columns {
		if _, ok := renames[c.Source]; !ok {
			renames[c.Source] = c.Target
		}
	}

	targets := mapping.Targets()
	wanted := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		wanted[target] = struct{}{}
	}

	chosen := make(map[string]string, len(targets))
	for _, column := range rows.Columns {
		target, ok := renames[column]
		if !ok {
			if _, canonical := wanted[column]; !canonical {
				continue
			}
			target = column
		}
		if _, taken := chosen[target]; taken {
			m.logger.DebugContext(ctx, "duplicate column ignored",
				"sheet", mapping.Sheet,
				"column", column,
				"target", target,
			)
			continue
		}
		chosen[target] = column
	}

	for _, required := range mapping.Required {
		if _, ok := chosen[required]; !ok {
			return dataset.RowSet{}, &SchemaError{Sheet: mapping.Sheet, Column: required}
		}
	}

	columns := make([]string, 0, len(chosen))
	for _, target := range targets {
		if _, ok := chosen[target]; ok {
			columns = append(columns, target)
		}
	}

	out := dataset.RowSet{Columns: columns, Rows: make([]dataset.Row, 0, len(rows.Rows))}
	for _, row := range rows.Rows {
		mapped := make(dataset.Row, len(columns))
		for _, target := range columns {
			mapped[target] = row[chosen[target]]
		}
		out.Rows = append(out.Rows, mapped)
	}

	m.logger.DebugContext(ctx, "columns mapped",
		"sheet", mapping.Sheet,
		"columns", columns,
		"rows", out.Len(),
	)
	return out, nil
}
