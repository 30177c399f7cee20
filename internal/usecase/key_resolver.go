package usecase

import (
	"context"
	"fmt"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// Lookup joins the fact column FactKey against a dimension's natural key and
// writes the surrogate key into Target.
type Lookup struct {
	Dimension warehouse.Dimension
	FactKey   string
	Target    string
}

// Resolution counts the outcome of one lookup. Unresolved includes rows whose
// fact key was null.
type Resolution struct {
	Table      string `json:"table"`
	FactKey    string `json:"fact_key"`
	Rows       int    `json:"rows"`
	Resolved   int    `json:"resolved"`
	Unresolved int    `json:"unresolved"`
	NullKeys   int    `json:"null_keys"`
	Ambiguous  int    `json:"ambiguous_keys,omitempty"`
}

type KeyResolver struct {
	sink       warehouse.Sink
	normalizer KeyNormalizer
	logger     *logging.Logger
}

func NewKeyResolver(sink warehouse.Sink, normalizer KeyNormalizer, logger *logging.Logger) *KeyResolver {
	if logger == nil {
		logger = logging.Default()
	}
	if normalizer == nil {
		normalizer = exactNormalizer{}
	}
	return &KeyResolver{
		sink:       sink,
		normalizer: normalizer,
		logger:     logger.Named("key_resolver"),
	}
}

type keyIndex struct {
	surrogates map[string]any
	ambiguous  int
}

// Resolve left-joins facts against each lookup's dimension as currently
// stored in the sink. Every input row yields exactly one output row; a miss
// leaves Target null. Lookups whose FactKey column is absent are skipped.
// The sink is only read.
func (r *KeyResolver) Resolve(ctx context.Context, facts dataset.RowSet, lookups ...Lookup) (dataset.RowSet, []Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.KeyResolver.Resolve")
	defer span.End()

	active := make([]Lookup, 0, len(lookups))
	for _, lookup := range lookups {
		if facts.Has(lookup.FactKey) {
			active = append(active, lookup)
		}
	}

	indexes := make([]keyIndex, len(active))
	p := pool.New().WithContext(ctx).WithCancelOnError()
	for i, lookup := range active {
		p.Go(func(ctx context.Context) error {
			index, err := r.loadIndex(ctx, lookup.Dimension)
			if err != nil {
				return err
			}
			indexes[i] = index
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return dataset.RowSet{}, nil, err
	}

	out := facts
	for _, lookup := range active {
		out = out.WithColumn(lookup.Target)
	}
	out.Rows = make([]dataset.Row, 0, facts.Len())

	resolutions := make([]Resolution, len(active))
	for i, lookup := range active {
		resolutions[i] = Resolution{
			Table:     lookup.Dimension.Table,
			FactKey:   lookup.FactKey,
			Rows:      facts.Len(),
			Ambiguous: indexes[i].ambiguous,
		}
	}

	for _, row := range facts.Rows {
		resolved := row.Clone()
		for i, lookup := range active {
			key, ok := row.Text(lookup.FactKey)
			if !ok {
				resolved[lookup.Target] = nil
				resolutions[i].NullKeys++
				resolutions[i].Unresolved++
				continue
			}
			surrogate, found := indexes[i].surrogates[r.normalizer.Normalize(key)]
			if !found {
				resolved[lookup.Target] = nil
				resolutions[i].Unresolved++
				continue
			}
			resolved[lookup.Target] = surrogate
			resolutions[i].Resolved++
		}
		out.Rows = append(out.Rows, resolved)
	}

	for _, res := range resolutions {
		if res.Unresolved > 0 {
			r.logger.WarnContext(ctx, "unresolved keys",
				"table", res.Table,
				"fact_key", res.FactKey,
				"unresolved", res.Unresolved,
				"null_keys", res.NullKeys,
				"rows", res.Rows,
				"normalizer", r.normalizer.Name(),
			)
		}
		if res.Ambiguous > 0 {
			r.logger.WarnContext(ctx, "ambiguous dimension keys, first surrogate kept",
				"table", res.Table,
				"ambiguous", res.Ambiguous,
			)
		}
	}
	return out, resolutions, nil
}

func (r *KeyResolver) loadIndex(ctx context.Context, dim warehouse.Dimension) (keyIndex, error) {
	columns := []string{dim.SurrogateKey}
	if dim.NaturalKey != dim.SurrogateKey {
		columns = append(columns, dim.NaturalKey)
	}

	stored, err := r.sink.ReadTable(ctx, dim.Table, columns...)
	if err != nil {
		return keyIndex{}, fmt.Errorf("read %s lookup: %w", dim.Table, err)
	}

	index := keyIndex{surrogates: make(map[string]any, stored.Len())}
	for _, row := range stored.Rows {
		natural, ok := row.Text(dim.NaturalKey)
		if !ok || row.IsNull(dim.SurrogateKey) {
			continue
		}
		key := r.normalizer.Normalize(natural)
		if _, exists := index.surrogates[key]; exists {
			index.ambiguous++
			continue
		}
		index.surrogates[key] = row[dim.SurrogateKey]
	}

	r.logger.DebugContext(ctx, "dimension lookup loaded",
		"table", dim.Table,
		"keys", len(index.surrogates),
	)
	return index, nil
}
