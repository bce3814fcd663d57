// Package recipe recovers a structured RecipeRecord from free-form model
// output. The extractor is a total function: no input makes it return an
// error, the worst case is a sentinel record plus a debug artifact on disk.
package recipe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"recipe-rag/internal/models"
)

// DebugFileName is the single-slot dump of the last response that defeated
// every extraction stage, overwritten on each total failure.
const DebugFileName = "last_failed_response.txt"

// Extraction stages, in the order they are attempted.
const (
	StageDirect = "direct"
	StageRepair = "repair"
	StageIsland = "island"
	StageFailed = "failed"
)

var requiredKeys = []string{"recipe_name", "ingredients"}

// Diagnostic reports which stage produced the record, so callers that care
// can tell "the model refused" from "parsing needed repair".
type Diagnostic struct {
	Stage      string
	Candidates int
}

// Failed reports whether the extraction fell through to the sentinel record.
func (d *Diagnostic) Failed() bool {
	return d != nil && d.Stage == StageFailed
}

type Extractor struct {
	debugPath string
}

// NewExtractor returns an extractor that dumps unrecoverable responses under
// cacheDir. An empty cacheDir disables the debug artifact.
func NewExtractor(cacheDir string) *Extractor {
	if cacheDir == "" {
		return &Extractor{}
	}
	return &Extractor{debugPath: filepath.Join(cacheDir, DebugFileName)}
}

// ExtractRecipe is the plain never-fails wrapper around Extract.
func (e *Extractor) ExtractRecipe(responseText string) models.RecipeRecord {
	record, _ := e.Extract(responseText)
	return record
}

// Extract walks the recovery stages in priority order: fenced-block candidate
// parsed directly, then through the repair chain, then a scan of every
// balanced JSON island in the full text. Each later stage only runs if the
// previous one failed.
func (e *Extractor) Extract(responseText string) (models.RecipeRecord, *Diagnostic) {
	candidate := fencedBlock(responseText)

	if obj, ok := parseObject(candidate); ok {
		return buildRecord(obj), &Diagnostic{Stage: StageDirect}
	}

	if obj, ok := parseObject(Repair(candidate)); ok {
		return buildRecord(obj), &Diagnostic{Stage: StageRepair}
	}

	islands := scanIslands(responseText)
	for _, island := range islands {
		if obj, ok := acceptIsland(island); ok {
			return buildRecord(obj), &Diagnostic{Stage: StageIsland, Candidates: len(islands)}
		}
	}

	e.dumpFailure(responseText)
	return SentinelRecord(), &Diagnostic{Stage: StageFailed, Candidates: len(islands)}
}

// fencedBlock picks the JSON candidate: a ```json fence wins, then any ```
// fence, then the whole text trimmed.
func fencedBlock(text string) string {
	for _, marker := range []string{"```json", "```"} {
		if _, after, found := strings.Cut(text, marker); found {
			if body, _, closed := strings.Cut(after, "```"); closed {
				return strings.TrimSpace(body)
			}
		}
	}
	return strings.TrimSpace(text)
}

func parseObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// acceptIsland parses one balanced substring, repairing if needed, and accepts
// it only if it carries the required keys. List candidates are searched for
// the first element that qualifies.
func acceptIsland(island string) (map[string]any, bool) {
	for _, attempt := range []string{island, Repair(island)} {
		var v any
		if err := json.Unmarshal([]byte(attempt), &v); err != nil {
			continue
		}
		switch parsed := v.(type) {
		case map[string]any:
			if hasRequiredKeys(parsed) {
				return parsed, true
			}
		case []any:
			for _, item := range parsed {
				if obj, ok := item.(map[string]any); ok && hasRequiredKeys(obj) {
					return obj, true
				}
			}
		}
	}
	return nil, false
}

func hasRequiredKeys(obj map[string]any) bool {
	for _, key := range requiredKeys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

func buildRecord(obj map[string]any) models.RecipeRecord {
	record := models.RecipeRecord{
		RecipeName:    strings.TrimSpace(toString(obj["recipe_name"])),
		Instructions:  toStringList(obj["instructions"]),
		Calories:      toInt(obj["calories"]),
		PrepTime:      toInt(obj["prep_time"]),
		CookingTime:   toInt(obj["cooking_time"]),
		Notes:         strings.TrimSpace(toString(obj["notes"])),
		SeasonalScore: 0.8,
	}

	if score, ok := toFloat(obj["seasonal_score"]); ok {
		record.SeasonalScore = score
	}

	macros, _ := obj["macros"].(map[string]any)
	record.Macros = NormalizeMacros(macros)

	if rawIngredients, ok := obj["ingredients"].([]any); ok {
		record.Ingredients = make([]models.Ingredient, 0, len(rawIngredients))
		for _, raw := range rawIngredients {
			record.Ingredients = append(record.Ingredients, NormalizeIngredient(raw))
		}
	} else {
		record.Ingredients = []models.Ingredient{}
	}

	return record
}

// SentinelRecord is the well-formed empty result substituted when no stage
// recovered a recipe. Callers treat it like any other record.
func SentinelRecord() models.RecipeRecord {
	return models.RecipeRecord{
		RecipeName:   models.SentinelRecipeName,
		Ingredients:  []models.Ingredient{},
		Instructions: []string{models.SentinelInstruction},
		Macros:       NormalizeMacros(nil),
		Notes:        models.SentinelNote,
	}
}

func (e *Extractor) dumpFailure(responseText string) {
	if e.debugPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(e.debugPath), 0o755); err != nil {
		log.Warn().Err(err).Msg("Cannot create cache dir for debug dump")
		return
	}
	if err := os.WriteFile(e.debugPath, []byte(responseText), 0o644); err != nil {
		log.Warn().Err(err).Str("file", e.debugPath).Msg("Cannot write debug dump")
	}
}
