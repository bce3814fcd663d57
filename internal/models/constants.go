package models

const (
	MacroProtein      = "protein"
	MacroCarbohydrate = "carbohydrate"
	MacroFat          = "fat"

	// Sentinel record literals, surfaced when extraction fails entirely
	SentinelRecipeName  = "Pasto da definire"
	SentinelInstruction = "Errore generazione - riprova"
	SentinelNote        = "Generazione fallita - riprovare"
)

// MacroKeys is the canonical key set every macros mapping is normalized to.
var MacroKeys = []string{MacroProtein, MacroCarbohydrate, MacroFat}

var SystemPromptTemplate = `Sei un nutrizionista esperto di cucina italiana.
Genera ricette sane, stagionali e pratiche basandoti sul contesto fornito.

FORMATO RISPOSTA:
=================
Genera un JSON strutturato con:
- recipe_name: nome ricetta appetitoso e descrittivo
- ingredients: lista ingredienti con quantità precise
- instructions: step by step chiari e numerati
- calories: calorie totali stimate
- macros: {"protein": X, "carbs": Y, "fats": Z} in grammi
- prep_time: minuti preparazione
- cooking_time: minuti cottura
- seasonal_score: 0.0-1.0 (quanto usa ingredienti stagionali)
- notes: consigli per conservazione, varianti, meal prep

Genera SOLO il JSON della ricetta, senza commenti aggiuntivi.
`

// MealRequirements holds the per-slot calorie and protein targets injected
// into the generation prompt. Workout days override pranzo separately.
var MealRequirements = map[MealType]string{
	Colazione:          "- Energetica ma leggera\n- 300-500 calorie\n- Proteine: 20-30g\n",
	SpuntinoMattina:    "- Leggero e nutriente\n- 150-250 calorie\n- Proteine: 10-15g\n",
	Pranzo:             "- Bilanciata\n- 400-600 calorie\n- Proteine: 30-40g\n",
	SpuntinoPomeriggio: "- Leggero e nutriente\n- 150-250 calorie\n- Proteine: 10-15g\n",
	Cena:               "- Leggera e digeribile\n- 400-600 calorie\n- Proteine: 30-40g\n",
	PostWorkout:        "- Recovery focused\n- Proteine + carboidrati\n- 300-400 calorie\n- Proteine: 25-35g\n",
}

// PranzoWorkout replaces the pranzo requirements on training days.
const PranzoWorkout = "- Bilanciata con focus su carboidrati complessi\n- 500-700 calorie\n- Proteine: 35-45g\n"
