package warehouse

// MatchStatMetrics lists the per-match performance columns in load order.
var MatchStatMetrics = []string{
	"rating",
	"minutes_played",
	"goals",
	"total_shots",
	"shots_on_target",
	"shots_off_target",
	"shots_hit_post",
	"big_chances_missed",
	"offsides",
	"assists",
	"big_chances_created",
	"key_passes",
	"accurate_crosses",
	"total_crosses",
	"accurate_passes",
	"attempted_passes",
	"accurate_passes_opponent_half",
	"passes_opponent_half",
	"accurate_passes_own_half",
	"passes_own_half",
	"long_balls_completed",
	"long_balls_attempted",
	"touches",
	"miscontrols",
	"dribbles_won",
	"dribbles_attempted",
	"fouls_won",
	"possessions_lost",
	"tackles_won",
	"tackles_total",
	"interceptions",
	"clearances",
	"recoveries",
	"ground_duels_won",
	"ground_duels_total",
	"aerial_duels_won",
	"aerial_duels_total",
	"fouls_committed",
	"times_dribbled_past",
	"penalties_committed",
	"penalties_won",
	"penalties_received",
	"saves",
	"own_goals",
}

func PlayerDimension() Dimension {
	return Dimension{
		Table:        TablePlayer,
		NaturalKey:   "player_name",
		SurrogateKey: "player_id",
		Columns: []string{
			"player_name",
			"age",
			"height_m",
			"foot",
			"position",
			"field_role",
			"injuries_last_year",
			"attack_rating",
			"creativity_rating",
			"defense_rating",
			"tactical_rating",
			"technical_rating",
			"matches",
			"national_team_goals",
			"season_matches",
			"season_starts",
			"season_minutes",
			"season_rating",
			"market_value_millions",
		},
		Kinds: map[string]Kind{
			"player_name":           KindText,
			"age":                   KindInteger,
			"height_m":              KindNumber,
			"foot":                  KindText,
			"position":              KindText,
			"field_role":            KindText,
			"injuries_last_year":    KindInteger,
			"attack_rating":         KindNumber,
			"creativity_rating":     KindNumber,
			"defense_rating":        KindNumber,
			"tactical_rating":       KindNumber,
			"technical_rating":      KindNumber,
			"matches":               KindInteger,
			"national_team_goals":   KindInteger,
			"season_matches":        KindInteger,
			"season_starts":         KindInteger,
			"season_minutes":        KindInteger,
			"season_rating":         KindNumber,
			"market_value_millions": KindNumber,
		},
	}
}

func ClubDimension() Dimension {
	return Dimension{
		Table:        TableClub,
		NaturalKey:   "club_name",
		SurrogateKey: "club_id",
		Columns:      []string{"club_name", "country_code"},
		Kinds: map[string]Kind{
			"club_name":    KindText,
			"country_code": KindText,
		},
	}
}

// MatchDimension is keyed by the opaque match identifier taken from the
// calendar sheet; it is never parsed as a date for identity purposes.
func MatchDimension() Dimension {
	return Dimension{
		Table:        TableMatch,
		NaturalKey:   "match_id",
		SurrogateKey: "match_id",
		Columns:      []string{"match_id", "match_date", "opponent", "home_away", "result"},
		Kinds: map[string]Kind{
			"match_id":   KindText,
			"match_date": KindDate,
			"opponent":   KindText,
			"home_away":  KindText,
			"result":     KindText,
		},
	}
}

func CallupFact() Fact {
	return Fact{
		Table:   TableCallup,
		Columns: []string{"callup_date", "qualifier_round", "match_id", "player_id", "club_id"},
		Kinds: map[string]Kind{
			"callup_date":     KindDate,
			"qualifier_round": KindInteger,
			"match_id":        KindText,
			"player_id":       KindInteger,
			"club_id":         KindInteger,
		},
		Rule: CompletenessRule{Required: []string{"player_id"}},
	}
}

// MatchStatsFact loads rows even when the player did not resolve; the
// reference is left null.
func MatchStatsFact() Fact {
	columns := make([]string, 0, len(MatchStatMetrics)+2)
	columns = append(columns, "match_id", "player_id")
	columns = append(columns, MatchStatMetrics...)

	kinds := make(map[string]Kind, len(columns))
	kinds["match_id"] = KindText
	kinds["player_id"] = KindInteger
	for _, metric := range MatchStatMetrics {
		kinds[metric] = KindNumber
	}

	return Fact{
		Table:   TableMatchStats,
		Columns: columns,
		Kinds:   kinds,
	}
}

func MonthlyPerfFact() Fact {
	return Fact{
		Table:   TableMonthlyPerf,
		Columns: []string{"player_id", "year", "month", "avg_rating", "matches_played"},
		Kinds: map[string]Kind{
			"player_id":      KindInteger,
			"year":           KindInteger,
			"month":          KindInteger,
			"avg_rating":     KindNumber,
			"matches_played": KindInteger,
		},
		Rule: CompletenessRule{
			Required: []string{"player_id", "month"},
			AnyOf:    [][]string{{"avg_rating", "matches_played"}},
		},
	}
}
