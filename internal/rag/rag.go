package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipe-rag/internal/config"
	"recipe-rag/internal/index"
	"recipe-rag/internal/llmservice"
	"recipe-rag/internal/models"
	"recipe-rag/internal/planner"
	"recipe-rag/internal/recipe"
)

type generateFunc func(ctx context.Context, prompt string) (string, error)

// RAG grounds meal generation in the recipe index: retrieve, prompt, extract.
type RAG struct {
	indexer   *index.Indexer
	extractor *recipe.Extractor
	cfg       *config.Config
	generate  generateFunc
}

func NewRAG(indexer *index.Indexer, extractor *recipe.Extractor, cfg *config.Config) *RAG {
	r := &RAG{indexer: indexer, extractor: extractor, cfg: cfg}
	r.generate = func(ctx context.Context, prompt string) (string, error) {
		return llmservice.Complete(ctx, &cfg.InferenceLLM, prompt)
	}
	return r
}

// GenerateMeal produces one meal for the given slot. It always returns a
// well-formed plan: transport failures and unparseable completions both
// degrade to the sentinel recipe.
func (r *RAG) GenerateMeal(ctx context.Context, date string, mealType models.MealType, isWorkoutDay bool) models.MealPlan {
	grounding := r.retrieveContext(ctx, fmt.Sprintf("ricetta %s stagionale", mealType))
	prompt := buildMealPrompt(date, mealType, isWorkoutDay, grounding)

	response, err := r.generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("meal_type", string(mealType)).Msg("Meal generation failed")
		return models.MealPlan{Date: date, MealType: mealType, Recipe: recipe.SentinelRecord()}
	}

	rec, diag := r.extractor.Extract(response)
	if diag.Failed() {
		log.Warn().Str("meal_type", string(mealType)).Msg("Recipe extraction fell back to sentinel")
	} else {
		log.Debug().Str("stage", diag.Stage).Str("recipe", rec.RecipeName).Msg("Recipe extracted")
	}
	return models.MealPlan{Date: date, MealType: mealType, Recipe: rec}
}

// retrieveContext searches the index for grounding chunks. Retrieval failure
// is not fatal to generation; the prompt just goes out ungrounded.
func (r *RAG) retrieveContext(ctx context.Context, query string) string {
	hits, err := r.indexer.Search(ctx, query, r.cfg.RAG.TopK)
	if err != nil {
		log.Warn().Err(err).Msg("Index search failed, generating without grounding context")
		return ""
	}
	if len(hits) == 0 {
		return ""
	}

	var b strings.Builder
	for _, hit := range hits {
		fmt.Fprintf(&b, "[%s, pag. %d] %s\n\n", hit.Source, hit.Page, hit.Text)
	}
	return b.String()
}

func buildMealPrompt(date string, mealType models.MealType, isWorkoutDay bool, grounding string) string {
	requirements := models.MealRequirements[mealType]
	if mealType == models.Pranzo && isWorkoutDay {
		requirements = models.PranzoWorkout
	}

	workout := "No"
	if isWorkoutDay {
		workout = "Sì"
	}

	var b strings.Builder
	b.WriteString(models.SystemPromptTemplate)
	if grounding != "" {
		b.WriteString("\nRICETTE DI RIFERIMENTO:\n=================\n")
		b.WriteString(grounding)
	}
	if seasonal := planner.SeasonalIngredients(planMonth(date)); len(seasonal) > 0 {
		fmt.Fprintf(&b, "\nIngredienti di stagione da privilegiare: %s\n", strings.Join(seasonal, ", "))
	}
	fmt.Fprintf(&b, "\nGenera una ricetta per %s del %s.\n\nGiorno di allenamento: %s\n\nRequisiti specifici per %s:\n%s",
		mealType, date, workout, mealType, requirements)
	return b.String()
}

// planMonth reads the month out of a YYYY-MM-DD date, defaulting to the
// current month when the date is malformed.
func planMonth(date string) time.Month {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Now().Month()
	}
	return t.Month()
}
