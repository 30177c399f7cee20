package usecase

import (
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/coerce"
)

// coerceRows converts every declared column present in rows to its kind. Rows
// are copied. Values that fail to convert become null and are counted per
// column.
func coerceRows(rows dataset.RowSet, kinds map[string]warehouse.Kind) (dataset.RowSet, map[string]int) {
	gaps := make(map[string]int)
	out := dataset.RowSet{Columns: rows.Columns, Rows: make([]dataset.Row, 0, len(rows.Rows))}

	for _, row := range rows.Rows {
		converted := row.Clone()
		for _, column := range rows.Columns {
			kind, ok := kinds[column]
			if !ok {
				continue
			}
			value, gap := coerceValue(kind, row[column])
			if gap {
				gaps[column]++
			}
			converted[column] = value
		}
		out.Rows = append(out.Rows, converted)
	}
	return out, gaps
}

func coerceValue(kind warehouse.Kind, v any) (any, bool) {
	switch kind {
	case warehouse.KindNumber:
		return coerce.Number(v)
	case warehouse.KindInteger:
		return coerce.Integer(v)
	case warehouse.KindDate:
		return coerce.Date(v)
	default:
		return coerce.Text(v)
	}
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
