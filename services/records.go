package services

const (
	ItemTypeFood    = "food"
	ItemTypeWorkout = "workout"
)

// Resolution sources, in fallback order.
const (
	SourceIngredient = "ingredient"
	SourceRecipe     = "recipe"
	SourceGuess      = "nutrition_guess"
	SourceNotFound   = "not_found"
)

// CandidateItem is a raw extracted name awaiting nutrition resolution.
type CandidateItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
}

type Macros struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
	Fiber   float64 `json:"fiber,omitempty"`
	Sugar   float64 `json:"sugar,omitempty"`
}

// NutritionRecord is the resolver output for one candidate item.
// Calories is nil exactly when Source == SourceNotFound; a resolved zero
// stays a real zero.
type NutritionRecord struct {
	Name        string  `json:"name"`
	Calories    *int    `json:"calories"`
	ServingSize string  `json:"serving_size,omitempty"`
	Nutrition   *Macros `json:"nutrition"`
	Source      string  `json:"source"`
}

type WorkoutRecord struct {
	Exercise       string `json:"exercise,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	CaloriesBurned int    `json:"estimated_calories_burned"`
}

// AnalysisDetail is one entry of a structured analysis response. Food rows
// carry Item/Calories/Macros, workout rows Exercise/CaloriesBurned; pointers
// keep "absent" distinct from zero.
type AnalysisDetail struct {
	Item           string   `json:"item,omitempty"`
	Exercise       string   `json:"exercise,omitempty"`
	Quantity       float64  `json:"quantity,omitempty"`
	Calories       *float64 `json:"calories,omitempty"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty"`
	Macros         *Macros  `json:"macros,omitempty"`
	Source         string   `json:"source,omitempty"`
}

// Analysis is the structured-text service response. Type may be absent; the
// caller decides a default.
type Analysis struct {
	Type    string           `json:"type,omitempty"`
	Details []AnalysisDetail `json:"details"`
}

// LogEnvelope is the aggregated, storage-ready summary of one submission.
type LogEnvelope struct {
	ItemType      string `json:"item_type"`
	TotalCalories int    `json:"total_calories"`
	Details       any    `json:"details"`
}
