package usecase

import (
	"slices"
	"sort"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
)

// MonthLabels are the Spanish month headers in calendar order.
var MonthLabels = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// SpanishMonths maps a month label to its number.
func SpanishMonths() map[string]int {
	out := make(map[string]int, len(MonthLabels))
	for i, label := range MonthLabels {
		out[label] = i + 1
	}
	return out
}

const (
	columnMonthName = "month_name"
	columnMonth     = "month"
)

// PivotTransformer reshapes month-per-column sheets into long rows.
type PivotTransformer struct{}

func NewPivotTransformer() *PivotTransformer {
	return &PivotTransformer{}
}

// Melt emits one (idColumn, month_name, valueColumn) row per input row and
// month label present in rows, month by month. Null values are kept.
func (p *PivotTransformer) Melt(rows dataset.RowSet, idColumn, valueColumn string, labels []string) dataset.RowSet {
	out := dataset.New(idColumn, columnMonthName, valueColumn)
	for _, label := range labels {
		if !rows.Has(label) {
			continue
		}
		for _, row := range rows.Rows {
			out.Add(dataset.Row{
				idColumn:        nullable(row[idColumn]),
				columnMonthName: label,
				valueColumn:     nullable(row[label]),
			})
		}
	}
	return out
}

// MergeOuter full-outer-joins left and right on keys. Null keys match each
// other, duplicate keys produce every pairing and the side without a match is
// null. Output rows are ordered by key so the result does not depend on which
// side is left; columns are keys, then left's, then right's.
func (p *PivotTransformer) MergeOuter(left, right dataset.RowSet, keys ...string) dataset.RowSet {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	columns := append([]string(nil), keys...)
	leftValues := valueColumns(left.Columns, keySet)
	rightValues := make([]string, 0, len(right.Columns))
	for _, c := range valueColumns(right.Columns, keySet) {
		if !slices.Contains(leftValues, c) {
			rightValues = append(rightValues, c)
		}
	}
	columns = append(columns, leftValues...)
	columns = append(columns, rightValues...)

	rightByKey := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		k := compositeKey(row, keys)
		rightByKey[k] = append(rightByKey[k], i)
	}

	type keyedRow struct {
		key string
		row dataset.Row
	}
	merged := make([]keyedRow, 0, left.Len()+right.Len())
	matched := make([]bool, right.Len())

	for _, l := range left.Rows {
		k := compositeKey(l, keys)
		partners := rightByKey[k]
		if len(partners) == 0 {
			merged = append(merged, keyedRow{key: k, row: combine(columns, l, nil)})
			continue
		}
		for _, idx := range partners {
			matched[idx] = true
			merged = append(merged, keyedRow{key: k, row: combine(columns, l, right.Rows[idx])})
		}
	}
	for i, r := range right.Rows {
		if matched[i] {
			continue
		}
		merged = append(merged, keyedRow{key: compositeKey(r, keys), row: combine(columns, nil, r)})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].key < merged[j].key
	})

	out := dataset.RowSet{Columns: columns, Rows: make([]dataset.Row, 0, len(merged))}
	for _, m := range merged {
		out.Rows = append(out.Rows, m.row)
	}
	return out
}

// TranslateMonths adds the month number for each month label; unknown labels
// leave the month null.
func (p *PivotTransformer) TranslateMonths(rows dataset.RowSet, months map[string]int) dataset.RowSet {
	out := rows.WithColumn(columnMonth)
	out.Rows = make([]dataset.Row, 0, rows.Len())
	for _, row := range rows.Rows {
		translated := row.Clone()
		translated[columnMonth] = nil
		if label, ok := row.Text(columnMonthName); ok {
			if month, known := months[strings.TrimSpace(label)]; known {
				translated[columnMonth] = int64(month)
			}
		}
		out.Rows = append(out.Rows, translated)
	}
	return out
}

func valueColumns(columns []string, keys map[string]struct{}) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, isKey := keys[c]; !isKey {
			out = append(out, c)
		}
	}
	return out
}

// combine builds a merged row. For a value column present on both sides the
// non-null side wins, left first.
func combine(columns []string, left, right dataset.Row) dataset.Row {
	out := make(dataset.Row, len(columns))
	for _, c := range columns {
		var v any
		if left != nil && !left.IsNull(c) {
			v = left[c]
		} else if right != nil && !right.IsNull(c) {
			v = right[c]
		}
		out[c] = v
	}
	return out
}

func compositeKey(row dataset.Row, keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		text, ok := row.Text(k)
		if !ok {
			b.WriteByte(0x00)
			continue
		}
		b.WriteByte(0x01)
		b.WriteString(text)
	}
	return b.String()
}

func nullable(v any) any {
	if dataset.IsNullValue(v) {
		return nil
	}
	return v
}
