package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestAggregateRecordsSumsKnownCalories(t *testing.T) {
	records := []NutritionRecord{
		{Name: "Fried Chicken", Calories: intPtr(320), Source: SourceRecipe},
		{Name: "Waffle", Calories: intPtr(290), Source: SourceIngredient},
		{Name: "Unobtainium Stew", Source: SourceNotFound}, // unknown counts as 0
		{Name: "Butter", Calories: intPtr(102), Source: SourceIngredient},
	}

	env := AggregateRecords(records)
	assert.Equal(t, ItemTypeFood, env.ItemType)
	assert.Equal(t, 712, env.TotalCalories)

	// unresolved items stay visible, in their original position
	details, ok := env.Details.([]NutritionRecord)
	assert.True(t, ok)
	assert.Len(t, details, 4)
	assert.Equal(t, "Unobtainium Stew", details[2].Name)
	assert.Equal(t, SourceNotFound, details[2].Source)
}

func TestAggregateRecordsEmpty(t *testing.T) {
	env := AggregateRecords(nil)
	assert.Equal(t, 0, env.TotalCalories)
	assert.Equal(t, ItemTypeFood, env.ItemType)
}

func TestAggregateRecordsZeroIsNotUnknown(t *testing.T) {
	records := []NutritionRecord{
		{Name: "Water", Calories: intPtr(0), Source: SourceIngredient},
		{Name: "Mystery", Source: SourceNotFound},
	}
	env := AggregateRecords(records)
	assert.Equal(t, 0, env.TotalCalories)

	raw, err := json.Marshal(records[0])
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"calories":0`)

	raw, err = json.Marshal(records[1])
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"calories":null`)
}

func TestAggregateWorkout(t *testing.T) {
	env := AggregateWorkout(WorkoutRecord{Transcript: "I ran for 30 minutes", CaloriesBurned: 420})
	assert.Equal(t, ItemTypeWorkout, env.ItemType)
	assert.Equal(t, 420, env.TotalCalories)
}

func TestAggregateAnalysisMixedRows(t *testing.T) {
	details := []AnalysisDetail{
		{Item: "Dal Tadka", Calories: floatPtr(180.4)},
		{Exercise: "30-minute run", CaloriesBurned: floatPtr(420)},
		{Item: "No numbers at all"}, // contributes 0
	}

	env := AggregateAnalysis(ItemTypeWorkout, details)
	assert.Equal(t, ItemTypeWorkout, env.ItemType)
	assert.Equal(t, 600, env.TotalCalories) // 180.4 + 420 rounded
}

func TestAggregateAnalysisDefaultsTypeToFood(t *testing.T) {
	env := AggregateAnalysis("", []AnalysisDetail{{Item: "Roti", Calories: floatPtr(160)}})
	assert.Equal(t, ItemTypeFood, env.ItemType)
	assert.Equal(t, 160, env.TotalCalories)
}

func TestAggregateAnalysisEmpty(t *testing.T) {
	env := AggregateAnalysis(ItemTypeFood, nil)
	assert.Equal(t, 0, env.TotalCalories)
}
