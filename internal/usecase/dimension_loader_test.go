package usecase

import (
	"testing"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/infrastructure/repository/memory"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
)

func TestDimensionLoader_FirstOccurrenceWins(t *testing.T) {
	sink := memory.NewSink()
	loader := NewDimensionLoader(sink, DimensionLoaderConfig{}, logging.NewNop())

	rows := sheet(
		[]string{"player_name", "age"},
		[]any{"Juan Pérez", "24"},
		[]any{"Juan Pérez", "31"},
		[]any{"  ", "40"},
		[]any{nil, "41"},
	)

	result, err := loader.Load(t.Context(), warehouse.PlayerDimension(), rows)
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	if result.Appended != 1 || result.Duplicates != 1 || result.EmptyKeys != 2 || result.Read != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored := sink.Rows(warehouse.TablePlayer)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored player, got %d", len(stored))
	}
	if stored[0]["age"] != int64(24) {
		t.Fatalf("expected first occurrence attributes, got %+v", stored[0])
	}
}

func TestDimensionLoader_CoercesAndNarrows(t *testing.T) {
	sink := memory.NewSink()
	loader := NewDimensionLoader(sink, DimensionLoaderConfig{}, logging.NewNop())

	rows := sheet(
		[]string{"match_id", "match_date", "opponent", "extra"},
		[]any{"F1", "21/03/2025", "Chile", "x"},
		[]any{"F2", "pendiente", "Perú", "y"},
	)

	result, err := loader.Load(t.Context(), warehouse.MatchDimension(), rows)
	if err != nil {
		t.Fatalf("load matches: %v", err)
	}
	if result.CoercionGaps["match_date"] != 1 {
		t.Fatalf("expected one match_date gap, got %+v", result.CoercionGaps)
	}

	stored := sink.Rows(warehouse.TableMatch)
	if len(stored) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(stored))
	}
	if _, ok := stored[0]["extra"]; ok {
		t.Fatalf("non-target column stored: %+v", stored[0])
	}
	if _, ok := stored[1]["match_date"]; ok {
		t.Fatalf("unparsable date must be stored as null: %+v", stored[1])
	}
}

func TestDimensionLoader_AppendPolicyDuplicatesAcrossRuns(t *testing.T) {
	sink := memory.NewSink()
	loader := NewDimensionLoader(sink, DimensionLoaderConfig{Policy: PolicyAppend}, logging.NewNop())
	rows := sheet([]string{"club_name", "country_code"}, []any{"Boca", "AR"}, []any{"Porto", "PT"})

	for i := 0; i < 2; i++ {
		if _, err := loader.Load(t.Context(), warehouse.ClubDimension(), rows); err != nil {
			t.Fatalf("load clubs run %d: %v", i, err)
		}
	}
	if got := sink.Count(warehouse.TableClub); got != 4 {
		t.Fatalf("expected 4 clubs after two runs, got %d", got)
	}
}

func TestDimensionLoader_SkipExistingPolicy(t *testing.T) {
	sink := memory.NewSink()
	loader := NewDimensionLoader(sink, DimensionLoaderConfig{Policy: PolicySkipExisting}, logging.NewNop())

	first := sheet([]string{"club_name"}, []any{"Boca"})
	if _, err := loader.Load(t.Context(), warehouse.ClubDimension(), first); err != nil {
		t.Fatalf("load first batch: %v", err)
	}

	second := sheet([]string{"club_name"}, []any{"Boca"}, []any{"River"})
	result, err := loader.Load(t.Context(), warehouse.ClubDimension(), second)
	if err != nil {
		t.Fatalf("load second batch: %v", err)
	}
	if result.Existing != 1 || result.Appended != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := sink.Count(warehouse.TableClub); got != 2 {
		t.Fatalf("expected 2 clubs, got %d", got)
	}
}

func TestDimensionLoader_ParallelChunks(t *testing.T) {
	sink := memory.NewSink()
	loader := NewDimensionLoader(sink, DimensionLoaderConfig{BatchSize: 3, Workers: 4}, logging.NewNop())

	rows := dataset.New("player_name")
	for i := 0; i < 25; i++ {
		rows.Add(dataset.Row{"player_name": "Jugador " + string(rune('A'+i))})
	}

	result, err := loader.Load(t.Context(), warehouse.PlayerDimension(), rows)
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	if result.Appended != 25 || sink.Count(warehouse.TablePlayer) != 25 {
		t.Fatalf("expected 25 appended rows, got %+v", result)
	}
}

func TestDimensionLoader_RequiresNaturalKeyColumn(t *testing.T) {
	loader := NewDimensionLoader(memory.NewSink(), DimensionLoaderConfig{}, logging.NewNop())
	_, err := loader.Load(t.Context(), warehouse.ClubDimension(), sheet([]string{"country_code"}, []any{"AR"}))
	if err == nil {
		t.Fatalf("expected error for missing natural key column")
	}
}

func TestParseIdempotencyPolicy(t *testing.T) {
	if p, err := ParseIdempotencyPolicy(""); err != nil || p != PolicyAppend {
		t.Fatalf("expected default append policy, got %q %v", p, err)
	}
	if p, err := ParseIdempotencyPolicy("Skip-Existing"); err != nil || p != PolicySkipExisting {
		t.Fatalf("expected skip-existing, got %q %v", p, err)
	}
	if _, err := ParseIdempotencyPolicy("upsert"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
