package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-rag/internal/models"
)

func TestExtractValidJSON(t *testing.T) {
	e := NewExtractor("")
	input := `{"recipe_name": "Test", "ingredients": [], "instructions": [], "calories": 300, "macros": {"protein": 20, "carbs": 30, "fats": 5}}`

	record, diag := e.Extract(input)
	assert.Equal(t, StageDirect, diag.Stage)
	assert.False(t, diag.Failed())
	assert.Equal(t, "Test", record.RecipeName)
	assert.Equal(t, 300, record.Calories)
	assert.Equal(t, map[string]float64{"protein": 20, "carbohydrate": 30, "fat": 5}, record.Macros)
}

func TestExtractFencedJSON(t *testing.T) {
	e := NewExtractor("")
	input := "Ecco la ricetta richiesta:\n```json\n{\"recipe_name\": \"Orata al forno\", \"ingredients\": [], \"calories\": 450}\n```\nBuon appetito!"

	record, diag := e.Extract(input)
	assert.Equal(t, StageDirect, diag.Stage)
	assert.Equal(t, "Orata al forno", record.RecipeName)
	assert.Equal(t, 450, record.Calories)
}

func TestExtractBareFence(t *testing.T) {
	e := NewExtractor("")
	input := "```\n{\"recipe_name\": \"Zuppa\", \"ingredients\": []}\n```"

	record, diag := e.Extract(input)
	assert.Equal(t, StageDirect, diag.Stage)
	assert.Equal(t, "Zuppa", record.RecipeName)
}

func TestExtractRepairsTrailingComma(t *testing.T) {
	e := NewExtractor("")
	record, diag := e.Extract(`{"recipe_name": "X", "ingredients": [],}`)

	assert.Equal(t, StageRepair, diag.Stage)
	assert.Equal(t, "X", record.RecipeName)
	assert.Equal(t, 0, record.Calories)
	assert.Equal(t, map[string]float64{"protein": 0, "carbohydrate": 0, "fat": 0}, record.Macros)
	assert.Empty(t, record.Ingredients)
}

func TestExtractRepairsSingleQuotesAndBareKeys(t *testing.T) {
	e := NewExtractor("")
	record, diag := e.Extract(`{recipe_name: 'Pasta e ceci', ingredients: [], calories: 520}`)

	assert.Equal(t, StageRepair, diag.Stage)
	assert.Equal(t, "Pasta e ceci", record.RecipeName)
	assert.Equal(t, 520, record.Calories)
}

func TestExtractIslandFromProse(t *testing.T) {
	e := NewExtractor("")
	input := `Certo! Qui sotto trovi la ricetta.

Prima nota a margine: {"irrelevant": true}

{"recipe_name": "Minestrone", "ingredients": [{"name": "verdure", "quantity": "300g"}], "calories": 280}

Fammi sapere se va bene.`

	record, diag := e.Extract(input)
	assert.Equal(t, StageIsland, diag.Stage)
	assert.Equal(t, "Minestrone", record.RecipeName)
	require.Len(t, record.Ingredients, 1)
	assert.Equal(t, "verdure", record.Ingredients[0].Name)
}

func TestExtractIslandFromArray(t *testing.T) {
	e := NewExtractor("")
	input := `Risultati: [{"junk": 1}, {"recipe_name": "Farro", "ingredients": []}, {"junk": 2}] fine`

	record, diag := e.Extract(input)
	assert.Equal(t, StageIsland, diag.Stage)
	assert.Equal(t, "Farro", record.RecipeName)
}

func TestExtractTotalFailureWritesDebugAndSentinel(t *testing.T) {
	cacheDir := t.TempDir()
	e := NewExtractor(cacheDir)
	input := "Sorry, I cannot help with that."

	record, diag := e.Extract(input)
	assert.True(t, diag.Failed())
	assert.Equal(t, models.SentinelRecipeName, record.RecipeName)
	assert.Equal(t, 0, record.Calories)
	assert.Equal(t, map[string]float64{"protein": 0, "carbohydrate": 0, "fat": 0}, record.Macros)
	assert.Equal(t, models.SentinelNote, record.Notes)

	dumped, err := os.ReadFile(filepath.Join(cacheDir, DebugFileName))
	require.NoError(t, err)
	assert.Equal(t, input, string(dumped))
}

func TestExtractNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t ",
		"plain prose with no json at all",
		"{",
		"}{",
		"```json",
		"```json\n{broken\n```",
		`[1, 2, 3]`,
		`{"recipe_name": 42, "ingredients": "not a list", "macros": "not a map", "calories": "many"}`,
		`{'recipe_name': , 'ingredients'}`,
		string([]byte{0xff, 0xfe, 0x00}),
	}
	e := NewExtractor("")
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			record := e.ExtractRecipe(in)
			assert.NotNil(t, record.Macros)
			assert.NotNil(t, record.Ingredients)
		}, "input %q", in)
	}
}

func TestExtractIngredientShapes(t *testing.T) {
	e := NewExtractor("")
	input := `{"recipe_name": "Mix", "ingredients": [
		{"name": "farro", "quantity": "100g"},
		{"nome": "ceci", "quantità": "200g"},
		"un filo d'olio",
		42,
		{}
	]}`

	record, diag := e.Extract(input)
	assert.Equal(t, StageDirect, diag.Stage)
	require.Len(t, record.Ingredients, 5)
	assert.Equal(t, models.Ingredient{Name: "farro", Quantity: "100g"}, record.Ingredients[0])
	assert.Equal(t, models.Ingredient{Name: "ceci", Quantity: "200g"}, record.Ingredients[1])
	assert.Equal(t, models.Ingredient{Freeform: "un filo d'olio"}, record.Ingredients[2])
	assert.Equal(t, models.Ingredient{Name: "ingrediente", Quantity: "q.b."}, record.Ingredients[3])
	assert.Equal(t, models.Ingredient{Name: "ingrediente", Quantity: "q.b."}, record.Ingredients[4])
}

func TestExtractFieldDefaults(t *testing.T) {
	e := NewExtractor("")
	record, _ := e.Extract(`{"recipe_name": "Solo nome", "ingredients": [], "prep_time": "dieci"}`)

	assert.Equal(t, 0, record.PrepTime) // bad field defaults alone
	assert.Equal(t, "Solo nome", record.RecipeName)
	assert.InDelta(t, 0.8, record.SeasonalScore, 1e-9)

	record, _ = e.Extract(`{"recipe_name": "Con punteggio", "ingredients": [], "seasonal_score": 0.3, "prep_time": 12.9}`)
	assert.InDelta(t, 0.3, record.SeasonalScore, 1e-9)
	assert.Equal(t, 12, record.PrepTime) // floats truncate
}
