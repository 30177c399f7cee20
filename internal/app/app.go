package app

import (
	"context"
	"fmt"

	"github.com/futbol-analytics/scouting-warehouse/internal/config"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/infrastructure/repository/memory"
	"github.com/futbol-analytics/scouting-warehouse/internal/infrastructure/repository/sqldb"
	"github.com/futbol-analytics/scouting-warehouse/internal/infrastructure/workbook"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/futbol-analytics/scouting-warehouse/internal/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Warehouse owns the resources of one load: the workbook, the sink handle
// and the pipeline wired on top of them.
type Warehouse struct {
	pipeline *usecase.PipelineService
	reader   *workbook.Reader
	db       *sqlx.DB
}

// NewWarehouse opens the source workbook and the sink. With dryRun the sink
// is in memory and nothing reaches the database.
func NewWarehouse(ctx context.Context, cfg config.Config, dryRun bool, logger *logging.Logger) (*Warehouse, error) {
	if logger == nil {
		logger = logging.Default()
	}

	mappings, err := loadMappings(cfg.MappingFile)
	if err != nil {
		return nil, err
	}
	policy, err := usecase.ParseIdempotencyPolicy(cfg.IdempotencyPolicy)
	if err != nil {
		return nil, err
	}
	normalizer, err := usecase.ParseKeyNormalizer(cfg.KeyNormalizer)
	if err != nil {
		return nil, err
	}

	reader, err := workbook.Open(cfg.SourcePath)
	if err != nil {
		return nil, err
	}

	w := &Warehouse{reader: reader}

	var sink warehouse.Sink
	workers := cfg.LoadWorkers
	if dryRun {
		sink = memory.NewSink()
		logger.InfoContext(ctx, "dry run, using in-memory sink")
	} else {
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			_ = reader.Close()
			return nil, err
		}
		w.db = db
		sink = sqldb.NewSink(db, logger)
		if cfg.DBDriver == config.DriverSQLite {
			// sqlite allows a single writer.
			workers = 1
		}
	}

	w.pipeline = usecase.NewPipelineService(
		reader,
		usecase.NewSchemaMapper(logger),
		usecase.NewDimensionLoader(sink, usecase.DimensionLoaderConfig{
			Policy:    policy,
			BatchSize: cfg.LoadBatchSize,
			Workers:   workers,
		}, logger),
		usecase.NewKeyResolver(sink, normalizer, logger),
		usecase.NewPivotTransformer(),
		usecase.NewFactLoader(sink, cfg.LoadBatchSize, logger),
		usecase.PipelineConfig{Year: cfg.MonthlyYear, Mappings: mappings},
		logger,
	)

	logger.InfoContext(ctx, "warehouse ready",
		"source", cfg.SourcePath,
		"sheets", reader.Sheets(),
		"driver", cfg.DBDriver,
		"dry_run", dryRun,
		"policy", string(policy),
		"normalizer", normalizer.Name(),
		"workers", workers,
	)
	return w, nil
}

func (w *Warehouse) Run(ctx context.Context, steps ...usecase.Step) (usecase.RunReport, error) {
	return w.pipeline.Run(ctx, steps...)
}

func (w *Warehouse) Close() error {
	var firstErr error
	if w.reader != nil {
		if err := w.reader.Close(); err != nil {
			firstErr = fmt.Errorf("close workbook: %w", err)
		}
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}
	return firstErr
}

func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := cfg.DBURL
	if cfg.DBDriver == config.DriverPostgres {
		dsn = normalizeDBURL(dsn, cfg.DBDisablePreparedBinary)
	}

	db, err := otelsqlx.Open(cfg.DBDriver, dsn,
		otelsql.WithDBName(dbName(cfg.DBDriver, dsn)),
		otelsql.WithAttributes(attribute.String("db.system", dbSystem(cfg.DBDriver))),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBDriver, err)
	}

	logger.InfoContext(ctx, "database connected", "driver", cfg.DBDriver, "db_name", dbName(cfg.DBDriver, dsn))
	return db, nil
}

func loadMappings(path string) (usecase.Mappings, error) {
	overrides, err := config.LoadMappingOverrides(path)
	if err != nil {
		return usecase.Mappings{}, err
	}
	if len(overrides) == 0 {
		return usecase.DefaultMappings(), nil
	}

	converted := make(map[string]usecase.SheetOverride, len(overrides))
	for key, override := range overrides {
		converted[key] = usecase.SheetOverride{Name: override.Sheet, Columns: override.Columns}
	}
	return usecase.DefaultMappings().Apply(converted)
}

var _ source.Reader = (*workbook.Reader)(nil)
