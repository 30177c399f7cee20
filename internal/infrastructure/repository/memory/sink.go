package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
)

// Sink is an in-process warehouse. Dimensions with a sink-assigned surrogate
// key get sequential ids starting at 1, like an auto-increment column.
type Sink struct {
	mu         sync.RWMutex
	tables     map[string][]dataset.Row
	sequences  map[string]int64
	identities map[string]string
}

func NewSink() *Sink {
	identities := make(map[string]string)
	for _, dim := range []warehouse.Dimension{
		warehouse.PlayerDimension(),
		warehouse.ClubDimension(),
		warehouse.MatchDimension(),
	} {
		if dim.SurrogateKey != dim.NaturalKey {
			identities[dim.Table] = dim.SurrogateKey
		}
	}
	return &Sink{
		tables:     make(map[string][]dataset.Row),
		sequences:  make(map[string]int64),
		identities: identities,
	}
}

func (s *Sink) Append(ctx context.Context, table string, rows dataset.RowSet) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("append %s: %w: %w", table, warehouse.ErrSink, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	identity := s.identities[table]
	for _, row := range rows.Rows {
		stored := make(dataset.Row, len(rows.Columns)+1)
		for _, c := range rows.Columns {
			if v, ok := row[c]; ok && !dataset.IsNullValue(v) {
				stored[c] = v
			}
		}
		if identity != "" {
			s.sequences[table]++
			stored[identity] = s.sequences[table]
		}
		s.tables[table] = append(s.tables[table], stored)
	}
	return rows.Len(), nil
}

// ReadTable returns copies of the stored rows in insertion order. Unknown
// tables read as empty.
func (s *Sink) ReadTable(ctx context.Context, table string, columns ...string) (dataset.RowSet, error) {
	if err := ctx.Err(); err != nil {
		return dataset.RowSet{}, fmt.Errorf("read %s: %w: %w", table, warehouse.ErrSink, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := dataset.New(columns...)
	for _, row := range s.tables[table] {
		copied := make(dataset.Row, len(columns))
		for _, c := range columns {
			copied[c] = row[c]
		}
		out.Add(copied)
	}
	return out, nil
}

// Count returns the number of rows stored in table.
func (s *Sink) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

// Rows returns copies of every stored row of table.
func (s *Sink) Rows(table string) []dataset.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dataset.Row, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, row.Clone())
	}
	return out
}
