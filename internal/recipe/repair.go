package recipe

import "regexp"

// The repair chain is an ordered list of independent text transforms, each
// targeting one JSON-syntax violation common in model output. They are applied
// in sequence and each is testable on its own.
var repairSteps = []func(string) string{
	normalizeQuotes,
	stripTrailingCommas,
	quoteBareKeys,
	quoteUnitValues,
}

// Repair applies every repair step in order.
func Repair(s string) string {
	for _, step := range repairSteps {
		s = step(s)
	}
	return s
}

var (
	singleQuoteRe   = regexp.MustCompile(`'`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	unitValueRe     = regexp.MustCompile(`:\s*(\d+(?:[.,]\d+)?\s*(?:g|gr|kg|ml|cl|l|cucchiai|cucchiaio|cucchiaini|cucchiaino|tazze|tazza|fette|fetta|pz|spicchi|spicchio)\b)`)
	qbValueRe       = regexp.MustCompile(`:\s*(q\.b\.)`)
)

// normalizeQuotes replaces single quotes with double quotes. Blunt, but models
// that emit Python-style dicts quote everything consistently.
func normalizeQuotes(s string) string {
	return singleQuoteRe.ReplaceAllString(s, `"`)
}

// stripTrailingCommas removes commas left before a closing brace or bracket.
func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// quoteBareKeys wraps unquoted object keys in double quotes.
func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `$1"$2":`)
}

// quoteUnitValues quotes bare quantity values like 100g, 2 cucchiai and the
// q.b. ("quanto basta") sentinel, the most common breakage in recipe output.
func quoteUnitValues(s string) string {
	s = unitValueRe.ReplaceAllString(s, `: "$1"`)
	return qbValueRe.ReplaceAllString(s, `: "$1"`)
}
