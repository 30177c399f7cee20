package usecase

import (
	"errors"
	"testing"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/infrastructure/repository/memory"
)

func TestPipelineService_RunAllSteps(t *testing.T) {
	sink := memory.NewSink()
	service := newTestPipeline(scoutingWorkbook(), sink, PolicyAppend)

	report, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if report.RunID == "" {
		t.Fatalf("expected run id")
	}
	if len(report.Steps) != len(AllSteps) {
		t.Fatalf("expected %d step reports, got %d", len(AllSteps), len(report.Steps))
	}

	want := map[string]int{
		warehouse.TablePlayer:      2,
		warehouse.TableMatch:       2,
		warehouse.TableClub:        2,
		warehouse.TableCallup:      2,
		warehouse.TableMatchStats:  2,
		warehouse.TableMonthlyPerf: 2,
	}
	for table, count := range want {
		if got := sink.Count(table); got != count {
			t.Fatalf("%s: expected %d rows, got %d", table, count, got)
		}
	}

	for _, row := range sink.Rows(warehouse.TablePlayer) {
		if row["player_name"] == "Juan Pérez" && row["age"] != int64(24) {
			t.Fatalf("expected the first Juan Pérez row to win, got %+v", row)
		}
	}
}

func TestPipelineService_UnresolvedPlayerCallupVersusMatchStat(t *testing.T) {
	sink := memory.NewSink()
	service := newTestPipeline(scoutingWorkbook(), sink, PolicyAppend)

	report, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}

	for _, row := range sink.Rows(warehouse.TableCallup) {
		if _, ok := row["player_id"]; !ok {
			t.Fatalf("callup stored without player: %+v", row)
		}
	}

	nullPlayers := 0
	for _, row := range sink.Rows(warehouse.TableMatchStats) {
		if _, ok := row["player_id"]; !ok {
			nullPlayers++
		}
	}
	if nullPlayers != 1 {
		t.Fatalf("expected one match stat row with null player, got %d", nullPlayers)
	}

	callups := report.Steps[2]
	if callups.Step != StepCallups || callups.Facts[0].Discarded != 1 {
		t.Fatalf("expected one discarded callup, got %+v", callups)
	}
	stats := report.Steps[3]
	if stats.Resolutions[0].Unresolved != 1 || stats.Facts[0].Discarded != 0 {
		t.Fatalf("unexpected match stat report: %+v", stats)
	}
}

func TestPipelineService_MonthlyPerf(t *testing.T) {
	sink := memory.NewSink()
	service := newTestPipeline(scoutingWorkbook(), sink, PolicyAppend)

	if _, err := service.Run(t.Context(), StepPlayers, StepMonthlyPerf); err != nil {
		t.Fatalf("run pipeline: %v", err)
	}

	rows := sink.Rows(warehouse.TableMonthlyPerf)
	if len(rows) != 2 {
		t.Fatalf("expected Ana's two months, got %+v", rows)
	}
	byMonth := map[any]map[string]any{}
	for _, row := range rows {
		if row["year"] != int64(2025) || row["player_id"] != int64(2) {
			t.Fatalf("unexpected monthly row: %+v", row)
		}
		byMonth[row["month"]] = row
	}
	if byMonth[int64(1)]["avg_rating"] != 7.1 {
		t.Fatalf("unexpected January row: %+v", byMonth[int64(1)])
	}
	if byMonth[int64(2)]["matches_played"] != int64(3) {
		t.Fatalf("unexpected February row: %+v", byMonth[int64(2)])
	}
}

func TestPipelineService_RerunDoublesEveryTable(t *testing.T) {
	sink := memory.NewSink()
	service := newTestPipeline(scoutingWorkbook(), sink, PolicyAppend)

	if _, err := service.Run(t.Context()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := map[string]int{}
	tables := []string{
		warehouse.TablePlayer, warehouse.TableMatch, warehouse.TableClub,
		warehouse.TableCallup, warehouse.TableMatchStats, warehouse.TableMonthlyPerf,
	}
	for _, table := range tables {
		first[table] = sink.Count(table)
	}

	if _, err := service.Run(t.Context()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, table := range tables {
		if got := sink.Count(table); got != 2*first[table] {
			t.Fatalf("%s: expected %d rows after rerun, got %d", table, 2*first[table], got)
		}
	}
}

func TestPipelineService_SkipExistingKeepsDimensionsStable(t *testing.T) {
	sink := memory.NewSink()
	service := newTestPipeline(scoutingWorkbook(), sink, PolicySkipExisting)

	for i := 0; i < 2; i++ {
		if _, err := service.Run(t.Context()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if got := sink.Count(warehouse.TablePlayer); got != 2 {
		t.Fatalf("expected 2 players, got %d", got)
	}
	if got := sink.Count(warehouse.TableCallup); got != 4 {
		t.Fatalf("facts stay at-least-once, expected 4 callups, got %d", got)
	}
}

func TestPipelineService_SchemaErrorKeepsEarlierSteps(t *testing.T) {
	src := scoutingWorkbook()
	src[source.SheetCallups] = sheet([]string{"Jugador", "Pais"}, []any{"Juan Pérez", "AR"})
	sink := memory.NewSink()
	service := newTestPipeline(src, sink, PolicyAppend)

	report, err := service.Run(t.Context())
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if len(report.Steps) != 3 || report.Steps[2].Error == "" {
		t.Fatalf("expected the callups step to be reported as failed, got %+v", report.Steps)
	}
	if sink.Count(warehouse.TablePlayer) != 2 || sink.Count(warehouse.TableMatch) != 2 {
		t.Fatalf("earlier steps must stay committed")
	}
	if sink.Count(warehouse.TableMatchStats) != 0 {
		t.Fatalf("later steps must not run")
	}
}

func TestPipelineService_StepsRunInCanonicalOrder(t *testing.T) {
	service := newTestPipeline(scoutingWorkbook(), memory.NewSink(), PolicyAppend)

	report, err := service.Run(t.Context(), StepMatches, StepPlayers, StepMatches)
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if len(report.Steps) != 2 || report.Steps[0].Step != StepPlayers || report.Steps[1].Step != StepMatches {
		t.Fatalf("unexpected step order: %+v", report.Steps)
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps([]string{"monthly-perf", " Players "})
	if err != nil {
		t.Fatalf("parse steps: %v", err)
	}
	if len(steps) != 2 || steps[0] != StepPlayers || steps[1] != StepMonthlyPerf {
		t.Fatalf("unexpected steps: %v", steps)
	}
	if _, err := ParseSteps([]string{"goals"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
