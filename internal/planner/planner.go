// Package planner assembles whole days of meals, keeps the meal history on
// disk and derives shopping lists from generated recipes.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipe-rag/internal/helper"
	"recipe-rag/internal/models"
)

// MealGenerator produces one meal per slot; rag.RAG satisfies it.
type MealGenerator interface {
	GenerateMeal(ctx context.Context, date string, mealType models.MealType, isWorkoutDay bool) models.MealPlan
}

const historyFileName = "meal_history.json"

// restDayMeals is the slot sequence of a regular day; workout days append
// post_workout.
var restDayMeals = []models.MealType{
	models.Colazione,
	models.SpuntinoMattina,
	models.Pranzo,
	models.SpuntinoPomeriggio,
	models.Cena,
}

type Planner struct {
	generator   MealGenerator
	dataDir     string
	historyPath string
	history     []models.DailyPlan
}

func New(generator MealGenerator, dataDir string) (*Planner, error) {
	if err := helper.CreateFolder(dataDir); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	p := &Planner{
		generator:   generator,
		dataDir:     dataDir,
		historyPath: filepath.Join(dataDir, historyFileName),
	}
	p.loadHistory()
	return p, nil
}

// GenerateDailyPlan generates every meal slot of the day, aggregates totals
// and appends the plan to the persisted history.
func (p *Planner) GenerateDailyPlan(ctx context.Context, date string, isWorkoutDay bool) (*models.DailyPlan, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	slots := restDayMeals
	if isWorkoutDay {
		slots = append(append([]models.MealType{}, restDayMeals...), models.PostWorkout)
	}

	meals := make([]models.MealPlan, 0, len(slots))
	for _, mealType := range slots {
		meals = append(meals, p.generator.GenerateMeal(ctx, date, mealType, isWorkoutDay))
	}

	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}

	dayLabel := "Giorno riposo"
	if isWorkoutDay {
		dayLabel = "Giorno allenamento"
	}

	plan := &models.DailyPlan{
		ID:            id,
		Date:          date,
		IsWorkoutDay:  isWorkoutDay,
		Meals:         meals,
		TotalCalories: totalCalories(meals),
		TotalMacros:   totalMacros(meals),
		ShoppingList:  ShoppingList(meals),
		Notes:         fmt.Sprintf("Piano generato per %s - %s", date, dayLabel),
	}

	p.history = append(p.history, *plan)
	if err := p.saveHistory(); err != nil {
		return nil, err
	}
	return plan, nil
}

// History returns the persisted daily plans, oldest first.
func (p *Planner) History() []models.DailyPlan {
	return p.history
}

func totalCalories(meals []models.MealPlan) int {
	total := 0
	for _, m := range meals {
		total += m.Recipe.Calories
	}
	return total
}

func totalMacros(meals []models.MealPlan) map[string]float64 {
	totals := make(map[string]float64, len(models.MacroKeys))
	for _, key := range models.MacroKeys {
		totals[key] = 0
		for _, m := range meals {
			totals[key] += m.Recipe.Macros[key]
		}
	}
	return totals
}

// ShoppingList consolidates ingredients across meals, grouping quantities
// under one entry per ingredient name. Freeform ingredients pass through.
func ShoppingList(meals []models.MealPlan) []string {
	quantities := make(map[string][]string)
	var order []string
	for _, meal := range meals {
		for _, ing := range meal.Recipe.Ingredients {
			name := ing.Name
			if ing.IsFreeform() {
				name = ing.Freeform
			}
			if _, seen := quantities[name]; !seen {
				order = append(order, name)
			}
			if ing.Quantity != "" {
				quantities[name] = append(quantities[name], ing.Quantity)
			} else if _, seen := quantities[name]; !seen {
				quantities[name] = nil
			}
		}
	}

	sort.Strings(order)
	list := make([]string, 0, len(order))
	for _, name := range order {
		if qs := quantities[name]; len(qs) > 0 {
			list = append(list, fmt.Sprintf("%s (%s)", name, strings.Join(qs, ", ")))
		} else {
			list = append(list, name)
		}
	}
	return list
}

func (p *Planner) loadHistory() {
	data, err := os.ReadFile(p.historyPath)
	if err != nil {
		p.history = nil
		return
	}
	if err := json.Unmarshal(data, &p.history); err != nil {
		log.Warn().Err(err).Str("file", p.historyPath).Msg("Corrupt meal history, starting fresh")
		p.history = nil
	}
}

func (p *Planner) saveHistory() error {
	data, err := json.MarshalIndent(p.history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meal history: %w", err)
	}
	if err := os.WriteFile(p.historyPath, data, 0o644); err != nil {
		return fmt.Errorf("writing meal history: %w", err)
	}
	return nil
}
