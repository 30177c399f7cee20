package dataset

import "slices"

// RowSet is an ordered collection of rows sharing a column list. Rows may omit
// columns; a missing column reads as null.
type RowSet struct {
	Columns []string
	Rows    []Row
}

func New(columns ...string) RowSet {
	return RowSet{Columns: append([]string(nil), columns...)}
}

func (s RowSet) Len() int {
	return len(s.Rows)
}

func (s RowSet) Has(column string) bool {
	return slices.Contains(s.Columns, column)
}

// Add appends a row. Unknown keys in row are kept but only listed columns are
// considered part of the set.
func (s *RowSet) Add(row Row) {
	s.Rows = append(s.Rows, row)
}

// WithColumn returns a copy of the column list extended with column when it
// is not already present. Rows are shared.
func (s RowSet) WithColumn(column string) RowSet {
	if s.Has(column) {
		return s
	}
	cols := make([]string, 0, len(s.Columns)+1)
	cols = append(cols, s.Columns...)
	cols = append(cols, column)
	return RowSet{Columns: cols, Rows: s.Rows}
}

// Project keeps the requested columns that exist in the set, in the requested
// order, and copies every row down to those columns.
func (s RowSet) Project(columns ...string) RowSet {
	kept := make([]string, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup || !s.Has(c) {
			continue
		}
		seen[c] = struct{}{}
		kept = append(kept, c)
	}

	out := RowSet{Columns: kept, Rows: make([]Row, 0, len(s.Rows))}
	for _, row := range s.Rows {
		narrowed := make(Row, len(kept))
		for _, c := range kept {
			v, ok := row[c]
			if !ok || IsNullValue(v) {
				narrowed[c] = nil
				continue
			}
			narrowed[c] = v
		}
		out.Rows = append(out.Rows, narrowed)
	}
	return out
}

// Values returns the row values aligned to the column list, nulls as nil.
func (s RowSet) Values(row Row) []any {
	out := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		v, ok := row[c]
		if !ok || IsNullValue(v) {
			continue
		}
		out[i] = v
	}
	return out
}

// Chunk splits the set into consecutive sets of at most size rows.
func (s RowSet) Chunk(size int) []RowSet {
	if size <= 0 || len(s.Rows) <= size {
		return []RowSet{s}
	}
	out := make([]RowSet, 0, (len(s.Rows)+size-1)/size)
	for start := 0; start < len(s.Rows); start += size {
		end := start + size
		if end > len(s.Rows) {
			end = len(s.Rows)
		}
		out = append(out, RowSet{Columns: s.Columns, Rows: s.Rows[start:end]})
	}
	return out
}
