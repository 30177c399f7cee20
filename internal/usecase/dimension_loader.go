package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// IdempotencyPolicy decides what happens to dimension keys that already
// exist in the sink.
type IdempotencyPolicy string

const (
	// PolicyAppend appends every batch key; reruns duplicate dimension rows.
	PolicyAppend IdempotencyPolicy = "append"
	// PolicySkipExisting reads the stored natural keys first and appends
	// only unseen ones.
	PolicySkipExisting IdempotencyPolicy = "skip-existing"
)

func ParseIdempotencyPolicy(raw string) (IdempotencyPolicy, error) {
	switch IdempotencyPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyAppend:
		return PolicyAppend, nil
	case PolicySkipExisting:
		return PolicySkipExisting, nil
	default:
		return "", fmt.Errorf("%w: unknown idempotency policy %q", ErrInvalidInput, raw)
	}
}

type DimensionLoaderConfig struct {
	Policy    IdempotencyPolicy
	BatchSize int
	Workers   int
}

type DimensionLoadResult struct {
	Table        string         `json:"table"`
	Read         int            `json:"read"`
	EmptyKeys    int            `json:"empty_keys"`
	Duplicates   int            `json:"duplicates"`
	Existing     int            `json:"existing"`
	CoercionGaps map[string]int `json:"coercion_gaps,omitempty"`
	Appended     int            `json:"appended"`
}

type DimensionLoader struct {
	sink     warehouse.Sink
	cfg      DimensionLoaderConfig
	appender chunkAppender
	logger   *logging.Logger
}

func NewDimensionLoader(sink warehouse.Sink, cfg DimensionLoaderConfig, logger *logging.Logger) *DimensionLoader {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyAppend
	}
	return &DimensionLoader{
		sink: sink,
		cfg:  cfg,
		appender: chunkAppender{
			sink:      sink,
			batchSize: cfg.BatchSize,
			workers:   cfg.Workers,
		},
		logger: logger.Named("dimension_loader"),
	}
}

// Load deduplicates rows by natural key (first occurrence wins), coerces the
// attribute columns, narrows to the dimension's columns and appends.
func (l *DimensionLoader) Load(ctx context.Context, dim warehouse.Dimension, rows dataset.RowSet) (DimensionLoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DimensionLoader.Load", attribute.String("table", dim.Table))
	defer span.End()

	result := DimensionLoadResult{Table: dim.Table, Read: rows.Len()}
	if !rows.Has(dim.NaturalKey) {
		return result, fmt.Errorf("%w: %s rows have no %s column", ErrInvalidInput, dim.Table, dim.NaturalKey)
	}

	unique := dataset.RowSet{Columns: rows.Columns}
	seen := make(map[string]struct{}, rows.Len())
	for _, row := range rows.Rows {
		key, ok := row.Text(dim.NaturalKey)
		if !ok {
			result.EmptyKeys++
			continue
		}
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique.Add(row)
	}

	if l.cfg.Policy == PolicySkipExisting && unique.Len() > 0 {
		existing, err := l.existingKeys(ctx, dim)
		if err != nil {
			return result, err
		}
		fresh := dataset.RowSet{Columns: unique.Columns}
		for _, row := range unique.Rows {
			key, _ := row.Text(dim.NaturalKey)
			if _, ok := existing[key]; ok {
				result.Existing++
				continue
			}
			fresh.Add(row)
		}
		unique = fresh
	}

	coerced, gaps := coerceRows(unique, dim.Kinds)
	if len(gaps) > 0 {
		result.CoercionGaps = gaps
		l.logger.WarnContext(ctx, "coercion gaps",
			"table", dim.Table,
			"gaps", sumCounts(gaps),
		)
	}

	narrowed := coerced.Project(dim.Columns...)
	appended, err := l.appender.append(ctx, dim.Table, narrowed)
	result.Appended = appended
	if err != nil {
		return result, err
	}

	l.logger.InfoContext(ctx, "dimension rows appended",
		"table", dim.Table,
		"read", result.Read,
		"empty_keys", result.EmptyKeys,
		"duplicates", result.Duplicates,
		"existing", result.Existing,
		"appended", result.Appended,
	)
	return result, nil
}

func (l *DimensionLoader) existingKeys(ctx context.Context, dim warehouse.Dimension) (map[string]struct{}, error) {
	stored, err := l.sink.ReadTable(ctx, dim.Table, dim.NaturalKey)
	if err != nil {
		return nil, fmt.Errorf("read %s keys: %w", dim.Table, err)
	}
	out := make(map[string]struct{}, stored.Len())
	for _, row := range stored.Rows {
		if key, ok := row.Text(dim.NaturalKey); ok {
			out[key] = struct{}{}
		}
	}
	return out, nil
}
