package models

// Chunk represents a slice of extracted page text with its origin
type Chunk struct {
	Source   string
	Page     int
	Text     string
	Position int
}

// RetrievedChunk is a single similarity search hit, ordered by descending score
type RetrievedChunk struct {
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
	Source string  `json:"source"`
	Page   int     `json:"page"`
}

// Ingredient is the normalized form of whatever shape the model emitted:
// a name/quantity pair, or a bare freeform string when no pair was recoverable.
type Ingredient struct {
	Name     string `json:"name,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Freeform string `json:"freeform,omitempty"`
}

// IsFreeform reports whether the ingredient carries only unstructured text.
func (i Ingredient) IsFreeform() bool {
	return i.Freeform != ""
}

// Display renders the ingredient for prompts, shopping lists and logs.
func (i Ingredient) Display() string {
	if i.IsFreeform() {
		return i.Freeform
	}
	if i.Quantity == "" {
		return i.Name
	}
	return i.Name + " (" + i.Quantity + ")"
}

// RecipeRecord is the structured output contract for one generated recipe.
// Macros always carries exactly the three canonical keys.
type RecipeRecord struct {
	RecipeName    string             `json:"recipe_name"`
	Ingredients   []Ingredient       `json:"ingredients"`
	Instructions  []string           `json:"instructions"`
	Calories      int                `json:"calories"`
	Macros        map[string]float64 `json:"macros"`
	PrepTime      int                `json:"prep_time"`
	CookingTime   int                `json:"cooking_time"`
	Notes         string             `json:"notes"`
	SeasonalScore float64            `json:"seasonal_score"`
}

type MealType string

const (
	Colazione          MealType = "colazione"
	SpuntinoMattina    MealType = "spuntino_mattina"
	Pranzo             MealType = "pranzo"
	SpuntinoPomeriggio MealType = "spuntino_pomeriggio"
	Cena               MealType = "cena"
	PostWorkout        MealType = "post_workout"
)

// MealPlan binds one generated recipe to a slot in the day.
type MealPlan struct {
	Date     string       `json:"date"`
	MealType MealType     `json:"meal_type"`
	Recipe   RecipeRecord `json:"recipe"`
}

// DailyPlan is a full day of meals with aggregated totals.
type DailyPlan struct {
	ID            string             `json:"id"`
	Date          string             `json:"date"`
	IsWorkoutDay  bool               `json:"is_workout_day"`
	Meals         []MealPlan         `json:"meals"`
	TotalCalories int                `json:"total_calories"`
	TotalMacros   map[string]float64 `json:"total_macros"`
	ShoppingList  []string           `json:"shopping_list"`
	Notes         string             `json:"notes"`
}
