package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
)

// ColumnRename maps a spreadsheet header label to a canonical column.
type ColumnRename struct {
	Source string
	Target string
}

// SheetMapping is the ordered rename table of one sheet. Output columns follow
// the order in which targets first appear in Columns.
type SheetMapping struct {
	Sheet    string
	Columns  []ColumnRename
	Required []string
}

// Targets returns the distinct canonical columns in mapping order.
func (m SheetMapping) Targets() []string {
	out := make([]string, 0, len(m.Columns))
	seen := make(map[string]struct{}, len(m.Columns))
	for _, c := range m.Columns {
		if _, ok := seen[c.Target]; ok {
			continue
		}
		seen[c.Target] = struct{}{}
		out = append(out, c.Target)
	}
	return out
}

type Mappings struct {
	Players        SheetMapping
	Matches        SheetMapping
	Callups        SheetMapping
	MatchStats     SheetMapping
	MonthlyRatings SheetMapping
	MonthlyMatches SheetMapping
}

// SheetOverride renames a sheet and/or adds header aliases (label -> target).
type SheetOverride struct {
	Name    string
	Columns map[string]string
}

func DefaultMappings() Mappings {
	return Mappings{
		Players: SheetMapping{
			Sheet: source.SheetPlayers,
			Columns: []ColumnRename{
				{"Jugador", "player_name"},
				{"Edad", "age"},
				{"Estatura (m)", "height_m"},
				{"Perfil", "foot"},
				{"Posicion", "position"},
				{"Posicion en campo", "field_role"},
				{"Lesiones Ultimo Año", "injuries_last_year"},
				{"Atacante", "attack_rating"},
				{"Creatividad", "creativity_rating"},
				{"Defensa", "defense_rating"},
				{"Táctica", "tactical_rating"},
				{"Técnica", "technical_rating"},
				{"Partidos Jugados Selección", "matches"},
				{"Goles Selección", "national_team_goals"},
				{"Partidos Temporada", "season_matches"},
				{"Partidos Titular", "season_starts"},
				{"Total Minutos", "season_minutes"},
				{"Valoracion Temporada", "season_rating"},
				{"Valor Mercado (M€)", "market_value_millions"},
			},
			Required: []string{"player_name"},
		},
		Matches: SheetMapping{
			Sheet: source.SheetMatches,
			Columns: []ColumnRename{
				{"Fecha", "match_id"},
				{"Fecha Compromiso", "match_date"},
				{"Rival", "opponent"},
				{"Condicion", "home_away"},
				{"Resultado", "result"},
			},
			Required: []string{"match_id"},
		},
		Callups: SheetMapping{
			Sheet: source.SheetCallups,
			Columns: []ColumnRename{
				{"Jugador", "player_name"},
				{"Equipo", "club_name"},
				{"Pais", "country_code"},
				{"Fecha Convocatoria", "callup_date"},
				{"Numero Fecha Clasificación", "qualifier_round"},
				{"Fecha", "match_id"},
			},
			Required: []string{"player_name", "club_name"},
		},
		MatchStats: SheetMapping{
			Sheet: source.SheetMatchStats,
			Columns: []ColumnRename{
				{"Fecha", "match_id"},
				{"Jugador", "player_name"},
				{"Calificacion", "rating"},
				{"Minutos Jugados", "minutes_played"},
				{"Goles", "goals"},
				{"Tiros Totales", "total_shots"},
				{"Remates a Puerta", "shots_on_target"},
				{"Remates Fuera", "shots_off_target"},
				{"Remates al palo", "shots_hit_post"},
				{"Ocasiones Claras Falladas", "big_chances_missed"},
				{"Fueras de Juego", "offsides"},
				{"Asistencias", "assists"},
				{"Ocasiones Claras Creadas", "big_chances_created"},
				{"Pases Clave", "key_passes"},
				{"Centros efectivos", "accurate_crosses"},
				{"Centros Totales", "total_crosses"},
				{"Pases Precisos", "accurate_passes"},
				{"Pases Intentados", "attempted_passes"},
				{"Pases precisos en campo rival", "accurate_passes_opponent_half"},
				{"Pases en campo rival", "passes_opponent_half"},
				{"Pases precisos en campo propio", "accurate_passes_own_half"},
				{"Pases en campo propio", "passes_own_half"},
				{"Pases Largos completados", "long_balls_completed"},
				{"Pases Largos intentados", "long_balls_attempted"},
				{"Toques", "touches"},
				{"Toques Fallidos", "miscontrols"},
				{"Regates Ganados", "dribbles_won"},
				{"Regates Intentados", "dribbles_attempted"},
				{"Faltas Recibidas", "fouls_won"},
				{"Posesiones Perdidas", "possessions_lost"},
				{"Entradas ganadas", "tackles_won"},
				{"Entradas Totales", "tackles_total"},
				{"Interceptaciones", "interceptions"},
				{"Despejes", "clearances"},
				{"Recuperaciones", "recoveries"},
				{"Duelos en el suelo ganados", "ground_duels_won"},
				{"Duelos en el suelo", "ground_duels_total"},
				{"Duelos Aereos Ganados", "aerial_duels_won"},
				{"Duelos Aereos", "aerial_duels_total"},
				{"Faltas Cometidas", "fouls_committed"},
				{"Regateado", "times_dribbled_past"},
				{"Penalti cometido", "penalties_committed"},
				{"Penalti Provocado", "penalties_won"},
				{"Penalti Recibido", "penalties_received"},
				{"Salvadas", "saves"},
				{"Autogoles", "own_goals"},
			},
			Required: []string{"player_name"},
		},
		MonthlyRatings: monthlyMapping(source.SheetMonthlyRatings),
		MonthlyMatches: monthlyMapping(source.SheetMonthlyMatches),
	}
}

func monthlyMapping(sheet string) SheetMapping {
	columns := make([]ColumnRename, 0, len(MonthLabels)+1)
	columns = append(columns, ColumnRename{"Jugador", "player_name"})
	for _, label := range MonthLabels {
		columns = append(columns, ColumnRename{label, label})
	}
	return SheetMapping{
		Sheet:    sheet,
		Columns:  columns,
		Required: []string{"player_name"},
	}
}

// Apply returns a copy of m with overrides applied. Keys are players, matches,
// callups, match_stats, monthly_ratings and monthly_matches.
func (m Mappings) Apply(overrides map[string]SheetOverride) (Mappings, error) {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := m
	for _, key := range keys {
		target, err := out.byKey(key)
		if err != nil {
			return Mappings{}, err
		}
		updated, err := applyOverride(*target, overrides[key])
		if err != nil {
			return Mappings{}, fmt.Errorf("mapping %s: %w", key, err)
		}
		*target = updated
	}
	return out, nil
}

func (m *Mappings) byKey(key string) (*SheetMapping, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "players":
		return &m.Players, nil
	case "matches":
		return &m.Matches, nil
	case "callups":
		return &m.Callups, nil
	case "match_stats":
		return &m.MatchStats, nil
	case "monthly_ratings":
		return &m.MonthlyRatings, nil
	case "monthly_matches":
		return &m.MonthlyMatches, nil
	default:
		return nil, fmt.Errorf("%w: unknown mapping %q", ErrInvalidInput, key)
	}
}

func applyOverride(mapping SheetMapping, override SheetOverride) (SheetMapping, error) {
	out := SheetMapping{
		Sheet:    mapping.Sheet,
		Columns:  append([]ColumnRename(nil), mapping.Columns...),
		Required: append([]string(nil), mapping.Required...),
	}
	if name := strings.TrimSpace(override.Name); name != "" {
		out.Sheet = name
	}

	known := make(map[string]struct{}, len(out.Columns))
	for _, target := range mapping.Targets() {
		known[target] = struct{}{}
	}

	labels := make([]string, 0, len(override.Columns))
	for label := range override.Columns {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		target := strings.TrimSpace(override.Columns[label])
		label = strings.TrimSpace(label)
		if label == "" {
			return SheetMapping{}, fmt.Errorf("%w: empty source label", ErrInvalidInput)
		}
		if _, ok := known[target]; !ok {
			return SheetMapping{}, fmt.Errorf("%w: unknown target column %q for label %q", ErrInvalidInput, target, label)
		}

		replaced := false
		for i := range out.Columns {
			if out.Columns[i].Source == label {
				out.Columns[i].Target = target
				replaced = true
			}
		}
		if !replaced {
			out.Columns = append(out.Columns, ColumnRename{Source: label, Target: target})
		}
	}
	return out, nil
}
