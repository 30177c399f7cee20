package usecase

import (
	"errors"
	"testing"

	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
)

func TestSchemaMapper_RenamesAndOrdersByMapping(t *testing.T) {
	mapper := NewSchemaMapper(logging.NewNop())
	rows := sheet(
		[]string{"Perfil", "Notas", "Jugador", "Edad"},
		[]any{"Derecho", "ignorar", "Juan Pérez", 24},
	)

	out, err := mapper.Map(t.Context(), rows, DefaultMappings().Players)
	if err != nil {
		t.Fatalf("map players: %v", err)
	}

	want := []string{"player_name", "age", "foot"}
	if len(out.Columns) != len(want) {
		t.Fatalf("unexpected columns: %v", out.Columns)
	}
	for i := range want {
		if out.Columns[i] != want[i] {
			t.Fatalf("unexpected columns: %v", out.Columns)
		}
	}
	if out.Rows[0]["player_name"] != "Juan Pérez" || out.Rows[0]["foot"] != "Derecho" {
		t.Fatalf("unexpected row: %+v", out.Rows[0])
	}
	if _, ok := out.Rows[0]["Notas"]; ok {
		t.Fatalf("unmapped column leaked into output")
	}
}

func TestSchemaMapper_DuplicateTargetKeepsLeftmost(t *testing.T) {
	mapper := NewSchemaMapper(logging.NewNop())
	mapping := SheetMapping{
		Sheet: "Estadisticas",
		Columns: []ColumnRename{
			{"Jugador", "player_name"},
			{"Nombre", "player_name"},
		},
		Required: []string{"player_name"},
	}
	rows := sheet([]string{"Nombre", "Jugador"}, []any{"izquierda", "derecha"})

	out, err := mapper.Map(t.Context(), rows, mapping)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(out.Columns) != 1 || out.Rows[0]["player_name"] != "izquierda" {
		t.Fatalf("expected leftmost column to win, got %+v", out.Rows[0])
	}
}

func TestSchemaMapper_CanonicalHeaderCounts(t *testing.T) {
	mapper := NewSchemaMapper(logging.NewNop())
	rows := sheet([]string{"player_name", "club_name"}, []any{"Juan", "Boca"})

	out, err := mapper.Map(t.Context(), rows, DefaultMappings().Callups)
	if err != nil {
		t.Fatalf("map callups: %v", err)
	}
	if out.Rows[0]["club_name"] != "Boca" {
		t.Fatalf("unexpected row: %+v", out.Rows[0])
	}
}

func TestSchemaMapper_MissingRequiredColumn(t *testing.T) {
	mapper := NewSchemaMapper(logging.NewNop())
	rows := sheet([]string{"Jugador", "Pais"}, []any{"Juan", "AR"})

	_, err := mapper.Map(t.Context(), rows, DefaultMappings().Callups)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Sheet != "Convocatorias" || schemaErr.Column != "club_name" {
		t.Fatalf("unexpected schema error: %+v", schemaErr)
	}
}
