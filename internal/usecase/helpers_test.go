package usecase

import (
	"context"
	"fmt"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/warehouse"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
)

type sheetSource map[string]dataset.RowSet

func (s sheetSource) ReadSheet(_ context.Context, name string) (dataset.RowSet, error) {
	rows, ok := s[name]
	if !ok {
		return dataset.RowSet{}, fmt.Errorf("%w: %s", source.ErrSheetNotFound, name)
	}
	return rows, nil
}

// sheet builds a row set from a header and positional values.
func sheet(columns []string, values ...[]any) dataset.RowSet {
	out := dataset.New(columns...)
	for _, v := range values {
		row := make(dataset.Row, len(columns))
		for i, c := range columns {
			if i < len(v) {
				row[c] = v[i]
			}
		}
		out.Add(row)
	}
	return out
}

func newTestPipeline(src source.Reader, sink warehouse.Sink, policy IdempotencyPolicy) *PipelineService {
	logger := logging.NewNop()
	return NewPipelineService(
		src,
		NewSchemaMapper(logger),
		NewDimensionLoader(sink, DimensionLoaderConfig{Policy: policy, BatchSize: 2, Workers: 3}, logger),
		NewKeyResolver(sink, nil, logger),
		NewPivotTransformer(),
		NewFactLoader(sink, 2, logger),
		PipelineConfig{Year: 2025, Mappings: DefaultMappings()},
		logger,
	)
}

func scoutingWorkbook() sheetSource {
	return sheetSource{
		source.SheetPlayers: sheet(
			[]string{"Jugador", "Edad", "Estatura (m)", "Perfil", "Valor Mercado (M€)"},
			[]any{"Juan Pérez", "24", "1,78", "Derecho", "12.5"},
			[]any{"Ana Gómez", 22.0, 1.65, "Zurdo", nil},
			[]any{"Juan Pérez", "31", "1,80", "Zurdo", "3"},
			[]any{"", "20", nil, nil, nil},
		),
		source.SheetMatches: sheet(
			[]string{"Fecha", "Fecha Compromiso", "Rival", "Condicion", "Resultado"},
			[]any{"F1", "2025-03-21", "Chile", "Local", "2-1"},
			[]any{"F2", "45742", "Perú", "Visitante", "0-0"},
		),
		source.SheetCallups: sheet(
			[]string{"Jugador", "Equipo", "Pais", "Fecha Convocatoria", "Numero Fecha Clasificación", "Fecha"},
			[]any{"Juan Pérez", "Boca", "AR", "2025-03-10", "1", "F1"},
			[]any{"Ana Gómez", "Porto", "PT", "10/03/2025", "1", "F1"},
			[]any{"Carlos Ruiz", "Boca", "AR", "2025-03-10", "1", "F9"},
		),
		source.SheetMatchStats: sheet(
			[]string{"Fecha", "Jugador", "Calificacion", "Minutos Jugados", "Goles"},
			[]any{"F1", "Juan Pérez", "7,4", "90", "1"},
			[]any{"F1", "Carlos Ruiz", "6.1", "45", "n/d"},
		),
		source.SheetMonthlyRatings: sheet(
			[]string{"Jugador", "Enero", "Febrero"},
			[]any{"Ana Gómez", 7.1, nil},
			[]any{"Nadie", 6.0, 6.5},
		),
		source.SheetMonthlyMatches: sheet(
			[]string{"Jugador", "Febrero"},
			[]any{"Ana Gómez", 3},
		),
	}
}
