package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Step is one unit of the load. Steps always run in AllSteps order.
type Step string

const (
	StepPlayers     Step = "players"
	StepMatches     Step = "matches"
	StepCallups     Step = "callups"
	StepMatchStats  Step = "match-stats"
	StepMonthlyPerf Step = "monthly-perf"
)

var AllSteps = []Step{StepPlayers, StepMatches, StepCallups, StepMatchStats, StepMonthlyPerf}

// ParseSteps validates step names and returns them in canonical order without
// duplicates. No names means every step.
func ParseSteps(names []string) ([]Step, error) {
	if len(names) == 0 {
		return append([]Step(nil), AllSteps...), nil
	}
	requested := make(map[Step]struct{}, len(names))
	for _, name := range names {
		step := Step(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(AllSteps, step) {
			return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidInput, name)
		}
		requested[step] = struct{}{}
	}
	out := make([]Step, 0, len(requested))
	for _, step := range AllSteps {
		if _, ok := requested[step]; ok {
			out = append(out, step)
		}
	}
	return out, nil
}

type PipelineConfig struct {
	Year     int
	Mappings Mappings
}

type StepReport struct {
	Step        Step                  `json:"step"`
	Dimensions  []DimensionLoadResult `json:"dimensions,omitempty"`
	Resolutions []Resolution          `json:"resolutions,omitempty"`
	Facts       []FactLoadResult      `json:"facts,omitempty"`
	DurationMs  int64                 `json:"duration_ms"`
	Error       string                `json:"error,omitempty"`
}

type RunReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Year       int          `json:"year"`
	Steps      []StepReport `json:"steps"`
}

type PipelineService struct {
	source   source.Reader
	mapper   *SchemaMapper
	dims     *DimensionLoader
	resolver *KeyResolver
	pivot    *PivotTransformer
	facts    *FactLoader
	cfg      PipelineConfig
	logger   *logging.Logger
}

func NewPipelineService(
	reader source.Reader,
	mapper *SchemaMapper,
	dims *DimensionLoader,
	resolver *KeyResolver,
	pivot *PivotTransformer,
	facts *FactLoader,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		source:   reader,
		mapper:   mapper,
		dims:     dims,
		resolver: resolver,
		pivot:    pivot,
		facts:    facts,
		cfg:      cfg,
		logger:   logger.Named("pipeline"),
	}
}

// Run executes the requested steps in dependency order. The first failing
// step aborts the run; what earlier steps appended stays in the sink. The
// report covers every step that started.
func (s *PipelineService) Run(ctx context.Context, steps ...Step) (RunReport, error) {
	ordered, err := ParseSteps(stepNames(steps))
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Year:      s.cfg.Year,
	}
	logger := s.logger.With("run_id", report.RunID)

	ctx, span := usecaseTracer.Start(ctx, "usecase.PipelineService.Run")
	span.SetAttributes(attribute.String("run_id", report.RunID))
	defer span.End()

	logger.InfoContext(ctx, "pipeline run started", "steps", stepNames(ordered), "year", s.cfg.Year)

	for _, step := range ordered {
		started := time.Now()
		stepReport := StepReport{Step: step}

		stepErr := s.runStep(ctx, step, &stepReport)
		stepReport.DurationMs = time.Since(started).Milliseconds()
		if stepErr != nil {
			stepReport.Error = stepErr.Error()
		}
		report.Steps = append(report.Steps, stepReport)

		if stepErr != nil {
			report.FinishedAt = time.Now().UTC()
			span.RecordError(stepErr)
			span.SetStatus(codes.Error, "step failed")
			logger.ErrorContext(ctx, "pipeline step failed", "step", string(step), "error", stepErr)
			return report, fmt.Errorf("step %s: %w", step, stepErr)
		}
		logger.InfoContext(ctx, "pipeline step finished", "step", string(step), "duration_ms", stepReport.DurationMs)
	}

	report.FinishedAt = time.Now().UTC()
	logger.InfoContext(ctx, "pipeline run finished", "steps", len(report.Steps))
	return report, nil
}

func (s *PipelineService) runStep(ctx context.Context, step Step, report *StepReport) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService."+string(step))
	defer span.End()

	switch step {
	case StepPlayers:
		return s.loadDimensionSheet(ctx, s.cfg.Mappings.Players, warehouse.PlayerDimension(), report)
	case StepMatches:
		return s.loadDimensionSheet(ctx, s.cfg.Mappings.Matches, warehouse.MatchDimension(), report)
	case StepCallups:
		return s.loadCallups(ctx, report)
	case StepMatchStats:
		return s.loadMatchStats(ctx, report)
	case StepMonthlyPerf:
		return s.loadMonthlyPerf(ctx, report)
	default:
		return fmt.Errorf("%w: unknown step %q", ErrInvalidInput, step)
	}
}

func (s *PipelineService) readMapped(ctx context.Context, mapping SheetMapping) (dataset.RowSet, error) {
	raw, err := s.source.ReadSheet(ctx, mapping.Sheet)
	if err != nil {
		return dataset.RowSet{}, fmt.Errorf("read sheet %s: %w", mapping.Sheet, err)
	}
	return s.mapper.Map(ctx, raw, mapping)
}

func (s *PipelineService) loadDimensionSheet(ctx context.Context, mapping SheetMapping, dim warehouse.Dimension, report *StepReport) error {
	rows, err := s.readMapped(ctx, mapping)
	if err != nil {
		return err
	}
	result, err := s.dims.Load(ctx, dim, rows)
	report.Dimensions = append(report.Dimensions, result)
	return err
}

// loadCallups commits the club dimension before resolving callup references.
func (s *PipelineService) loadCallups(ctx context.Context, report *StepReport) error {
	rows, err := s.readMapped(ctx, s.cfg.Mappings.Callups)
	if err != nil {
		return err
	}

	clubs, err := s.dims.Load(ctx, warehouse.ClubDimension(), rows)
	report.Dimensions = append(report.Dimensions, clubs)
	if err != nil {
		return err
	}

	resolved, resolutions, err := s.resolver.Resolve(ctx, rows,
		playerLookup(),
		Lookup{Dimension: warehouse.ClubDimension(), FactKey: "club_name", Target: "club_id"},
		matchLookup(),
	)
	report.Resolutions = resolutions
	if err != nil {
		return err
	}

	result, err := s.facts.Load(ctx, warehouse.CallupFact(), resolved)
	report.Facts = append(report.Facts, result)
	return err
}

// loadMatchStats keeps rows whose player did not resolve.
func (s *PipelineService) loadMatchStats(ctx context.Context, report *StepReport) error {
	rows, err := s.readMapped(ctx, s.cfg.Mappings.MatchStats)
	if err != nil {
		return err
	}

	resolved, resolutions, err := s.resolver.Resolve(ctx, rows, playerLookup(), matchLookup())
	report.Resolutions = resolutions
	if err != nil {
		return err
	}

	result, err := s.facts.Load(ctx, warehouse.MatchStatsFact(), resolved)
	report.Facts = append(report.Facts, result)
	return err
}

func (s *PipelineService) loadMonthlyPerf(ctx context.Context, report *StepReport) error {
	ratings, err := s.readMapped(ctx, s.cfg.Mappings.MonthlyRatings)
	if err != nil {
		return err
	}
	matches, err := s.readMapped(ctx, s.cfg.Mappings.MonthlyMatches)
	if err != nil {
		return err
	}

	long := s.pivot.MergeOuter(
		s.pivot.Melt(ratings, "player_name", "avg_rating", MonthLabels),
		s.pivot.Melt(matches, "player_name", "matches_played", MonthLabels),
		"player_name", columnMonthName,
	)
	long = s.pivot.TranslateMonths(long, SpanishMonths())
	long = withConstant(long, "year", int64(s.cfg.Year))

	resolved, resolutions, err := s.resolver.Resolve(ctx, long, playerLookup())
	report.Resolutions = resolutions
	if err != nil {
		return err
	}

	result, err := s.facts.Load(ctx, warehouse.MonthlyPerfFact(), resolved)
	report.Facts = append(report.Facts, result)
	return err
}

func playerLookup() Lookup {
	return Lookup{Dimension: warehouse.PlayerDimension(), FactKey: "player_name", Target: "player_id"}
}

// matchLookup keeps a match reference only when the match exists in dim_match.
func matchLookup() Lookup {
	return Lookup{Dimension: warehouse.MatchDimension(), FactKey: "match_id", Target: "match_id"}
}

func withConstant(rows dataset.RowSet, column string, value any) dataset.RowSet {
	out := rows.WithColumn(column)
	out.Rows = make([]dataset.Row, 0, rows.Len())
	for _, row := range rows.Rows {
		r := row.Clone()
		r[column] = value
		out.Rows = append(out.Rows, r)
	}
	return out
}

func stepNames(steps []Step) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		out = append(out, string(step))
	}
	return out
}
