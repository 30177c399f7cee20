package source

import (
	"context"
	"errors"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
)

// Sheet names of the scouting workbook.
const (
	SheetPlayers        = "Jugadores"
	SheetMatches        = "Fechas"
	SheetCallups        = "Convocatorias"
	SheetMatchStats     = "Estadisticas"
	SheetMonthlyRatings = "Rendimiento"
	SheetMonthlyMatches = "Partidos"
)

var ErrSheetNotFound = errors.New("sheet not found")

// Reader yields named sheets as row sets whose columns are the header labels.
type Reader interface {
	ReadSheet(ctx context.Context, name string) (dataset.RowSet, error)
}
