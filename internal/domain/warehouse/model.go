package warehouse

import (
	"strings"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
)

const (
	TablePlayer      = "dim_player"
	TableClub        = "dim_club"
	TableMatch       = "dim_match"
	TableCallup      = "fact_callup"
	TableMatchStats  = "fact_match_stats"
	TableMonthlyPerf = "fact_monthly_player_perf"
)

// Kind is the storage type a column is coerced to before loading.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindInteger
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Dimension describes a dimension table and how its rows are identified.
// When SurrogateKey equals NaturalKey the key is stored as-is and references
// resolve by existence.
type Dimension struct {
	Table        string
	NaturalKey   string
	SurrogateKey string
	Columns      []string
	Kinds        map[string]Kind
}

// Fact describes a fact table: its column order, coercion kinds and the rule
// deciding which rows are complete enough to load.
type Fact struct {
	Table   string
	Columns []string
	Kinds   map[string]Kind
	Rule    CompletenessRule
}

// CompletenessRule discards a row when any Required column is null, or when
// every column of one AnyOf group is null.
type CompletenessRule struct {
	Required []string
	AnyOf    [][]string
}

// Check returns false and the failing column (or group) when row must be
// discarded.
func (r CompletenessRule) Check(row dataset.Row) (bool, string) {
	for _, column := range r.Required {
		if row.IsNull(column) {
			return false, column
		}
	}
	for _, group := range r.AnyOf {
		if len(group) == 0 {
			continue
		}
		present := false
		for _, column := range group {
			if !row.IsNull(column) {
				present = true
				break
			}
		}
		if !present {
			return false, strings.Join(group, "|")
		}
	}
	return true, ""
}
