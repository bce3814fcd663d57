package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-rag/internal/models"
)

// macroSynonyms folds native-language and English spellings onto the three
// canonical macro keys.
var macroSynonyms = map[string][]string{
	models.MacroProtein:      {"protein", "proteins", "proteine", "prot"},
	models.MacroCarbohydrate: {"carbohydrate", "carbohydrates", "carbs", "carb", "carboidrati"},
	models.MacroFat:          {"fat", "fats", "grassi", "lipidi"},
}

var (
	ingredientNameKeys     = []string{"name", "nome", "ingredient", "ingrediente", "item"}
	ingredientQuantityKeys = []string{"quantity", "quantità", "quantita", "qty", "amount", "dose"}
)

// NormalizeMacros reads a macros mapping under any synonymous key spelling and
// returns exactly the three canonical keys. Missing macros default to zero.
// Feeding an already-canonical mapping through again changes nothing.
func NormalizeMacros(raw map[string]any) map[string]float64 {
	out := make(map[string]float64, len(models.MacroKeys))
	for _, canonical := range models.MacroKeys {
		out[canonical] = 0
		for _, syn := range macroSynonyms[canonical] {
			if v, ok := lookupFold(raw, syn); ok {
				if f, ok := toFloat(v); ok {
					out[canonical] = f
				}
				break
			}
		}
	}
	return out
}

// NormalizeIngredient converts whatever shape the model emitted into the
// Ingredient sum type: a dict with any synonymous name/quantity keys, a bare
// string, or anything else, which degrades to a generic placeholder.
func NormalizeIngredient(raw any) models.Ingredient {
	switch v := raw.(type) {
	case map[string]any:
		name := firstString(v, ingredientNameKeys)
		quantity := firstString(v, ingredientQuantityKeys)
		if name == "" && quantity == "" {
			return models.Ingredient{Name: "ingrediente", Quantity: "q.b."}
		}
		if name == "" {
			name = "ingrediente"
		}
		return models.Ingredient{Name: name, Quantity: quantity}
	case string:
		if strings.TrimSpace(v) == "" {
			return models.Ingredient{Name: "ingrediente", Quantity: "q.b."}
		}
		return models.Ingredient{Freeform: strings.TrimSpace(v)}
	default:
		return models.Ingredient{Name: "ingrediente", Quantity: "q.b."}
	}
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := lookupFold(m, k); ok {
			switch s := v.(type) {
			case string:
				return strings.TrimSpace(s)
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64)
			}
		}
	}
	return ""
}

// lookupFold is a case-insensitive map lookup.
func lookupFold(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// toInt coerces JSON numbers and numeric strings to int, truncating floats.
// Anything else yields 0; a bad field must not invalidate the whole record.
func toInt(v any) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toStringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := strings.TrimSpace(toString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(list) == "" {
			return nil
		}
		return []string{strings.TrimSpace(list)}
	default:
		return nil
	}
}
