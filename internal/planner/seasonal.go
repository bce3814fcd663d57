package planner

import "time"

// seasonalIngredients maps each season to produce typically available in it,
// used to bias generated recipes toward what is actually in season.
var seasonalIngredients = map[string][]string{
	"inverno":   {"cavolo nero", "broccoli", "finocchi", "arance", "cachi", "zucca", "radicchio", "carciofi"},
	"primavera": {"asparagi", "fave", "piselli", "fragole", "agretti", "carciofi", "spinaci"},
	"estate":    {"pomodori", "zucchine", "melanzane", "peperoni", "pesche", "albicocche", "basilico", "fichi"},
	"autunno":   {"zucca", "funghi", "castagne", "uva", "cavolfiore", "pere", "melograno"},
}

// SeasonFor maps a month onto the meteorological season.
func SeasonFor(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "inverno"
	case time.March, time.April, time.May:
		return "primavera"
	case time.June, time.July, time.August:
		return "estate"
	default:
		return "autunno"
	}
}

// SeasonalIngredients returns the produce in season for the given month.
func SeasonalIngredients(month time.Month) []string {
	return seasonalIngredients[SeasonFor(month)]
}
