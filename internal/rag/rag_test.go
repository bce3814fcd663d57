package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-rag/internal/config"
	"recipe-rag/internal/index"
	"recipe-rag/internal/models"
	"recipe-rag/internal/recipe"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testRAG(t *testing.T, gen generateFunc) *RAG {
	t.Helper()
	cfg := config.Default()
	cfg.CorpusDir = t.TempDir()
	cfg.IndexDir = t.TempDir()
	r := NewRAG(index.New(cfg, stubEmbedder{}), recipe.NewExtractor(""), cfg)
	r.generate = gen
	return r
}

func TestGenerateMealExtractsRecipe(t *testing.T) {
	r := testRAG(t, func(context.Context, string) (string, error) {
		return "```json\n{\"recipe_name\": \"Farro con verdure\", \"ingredients\": [], \"calories\": 520}\n```", nil
	})

	plan := r.GenerateMeal(context.Background(), "2026-08-31", models.Pranzo, false)
	assert.Equal(t, models.Pranzo, plan.MealType)
	assert.Equal(t, "Farro con verdure", plan.Recipe.RecipeName)
	assert.Equal(t, 520, plan.Recipe.Calories)
}

func TestGenerateMealTransportErrorYieldsSentinel(t *testing.T) {
	r := testRAG(t, func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})

	plan := r.GenerateMeal(context.Background(), "2026-08-31", models.Cena, false)
	assert.Equal(t, models.SentinelRecipeName, plan.Recipe.RecipeName)
	assert.Equal(t, 0, plan.Recipe.Calories)
}

func TestGenerateMealUnparseableYieldsSentinel(t *testing.T) {
	r := testRAG(t, func(context.Context, string) (string, error) {
		return "Mi dispiace, non posso aiutarti.", nil
	})

	plan := r.GenerateMeal(context.Background(), "2026-08-31", models.Colazione, false)
	assert.Equal(t, models.SentinelRecipeName, plan.Recipe.RecipeName)
}

func TestBuildMealPrompt(t *testing.T) {
	prompt := buildMealPrompt("2026-08-31", models.Pranzo, true, "[ricette.pdf, pag. 3] zuppa di farro\n")
	assert.Contains(t, prompt, "RICETTE DI RIFERIMENTO")
	assert.Contains(t, prompt, "zuppa di farro")
	assert.Contains(t, prompt, "carboidrati complessi") // workout pranzo override
	assert.Contains(t, prompt, "Giorno di allenamento: Sì")

	rest := buildMealPrompt("2026-08-31", models.Pranzo, false, "")
	assert.NotContains(t, rest, "RICETTE DI RIFERIMENTO")
	assert.Contains(t, rest, "400-600 calorie")
	assert.Contains(t, rest, "Ingredienti di stagione")
	assert.Contains(t, rest, "pomodori") // August is estate
	require.Contains(t, rest, string(models.Pranzo))
}
