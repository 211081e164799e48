package services

import "math"

// AggregateRecords sums resolved food records into a log envelope. Unresolved
// items contribute 0 but stay in Details so the caller can see and correct
// them. Order is preserved.
func AggregateRecords(records []NutritionRecord) LogEnvelope {
	total := 0
	for _, r := range records {
		if r.Calories != nil {
			total += *r.Calories
		}
	}
	return LogEnvelope{ItemType: ItemTypeFood, TotalCalories: total, Details: records}
}

// AggregateWorkout wraps a single workout estimate in a log envelope.
func AggregateWorkout(rec WorkoutRecord) LogEnvelope {
	return LogEnvelope{ItemType: ItemTypeWorkout, TotalCalories: rec.CaloriesBurned, Details: rec}
}

// AggregateAnalysis sums structured-analysis details. Food rows count
// calories, workout rows calories burned; rows with neither contribute 0.
// Missing type defaults to food.
func AggregateAnalysis(itemType string, details []AnalysisDetail) LogEnvelope {
	var total float64
	for _, d := range details {
		switch {
		case d.Calories != nil:
			total += *d.Calories
		case d.CaloriesBurned != nil:
			total += *d.CaloriesBurned
		}
	}
	if itemType == "" {
		itemType = ItemTypeFood
	}
	return LogEnvelope{
		ItemType:      itemType,
		TotalCalories: int(math.Round(total)),
		Details:       details,
	}
}
