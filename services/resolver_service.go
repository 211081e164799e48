package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/udaypartap979/calorie-counter/utils"
)

// maxConcurrentLookups bounds the per-request fan-out so a pathological
// extraction (hundreds of tokens) cannot open unbounded upstream calls.
const maxConcurrentLookups = 8

const workoutCaloriesPrompt = `Based on the following workout transcript, provide a rough estimate of the total calories burned. Respond with only a single number. For example: 350. Transcript: %q`

// ResolverService resolves a candidate name to a best-effort nutrition
// estimate through a ranked fallback chain: ingredient lookup, recipe search,
// heuristic guess. Every upstream failure degrades to the next step; the
// chain itself never fails the caller.
type ResolverService struct {
	spoon *SpoonacularService
	gem   *GeminiService
}

func NewResolverService(spoon *SpoonacularService, gem *GeminiService) *ResolverService {
	return &ResolverService{spoon: spoon, gem: gem}
}

// Resolve always returns a record. Source tells which step won; not_found
// means every step failed or errored.
func (s *ResolverService) Resolve(ctx context.Context, name string) NutritionRecord {
	if rec := s.fromIngredient(ctx, name); rec != nil {
		return *rec
	}
	if rec := s.fromRecipe(ctx, name); rec != nil {
		return *rec
	}
	if rec := s.fromGuess(ctx, name); rec != nil {
		return *rec
	}
	return NutritionRecord{Name: name, Source: SourceNotFound}
}

// ResolveAll fans resolution out over a bounded worker pool. Output order
// matches input order regardless of completion order, and one item's failure
// never touches its siblings.
func (s *ResolverService) ResolveAll(ctx context.Context, items []CandidateItem) []NutritionRecord {
	out := make([]NutritionRecord, len(items))
	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = s.Resolve(ctx, name)
		}(i, item.Name)
	}

	wg.Wait()
	return out
}

// ResolveWorkout estimates total calories burned for a workout transcript.
// Single estimator stage, no fallback chain; a bad estimate parses to 0.
func (s *ResolverService) ResolveWorkout(ctx context.Context, transcript string) WorkoutRecord {
	rec := WorkoutRecord{Transcript: transcript}

	out, err := s.gem.GenerateText(ctx, fmt.Sprintf(workoutCaloriesPrompt, transcript))
	if err != nil {
		utils.Logger().Warnw("workout calorie estimate failed", "error", err)
		return rec
	}

	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || n < 0 {
		return rec
	}
	rec.CaloriesBurned = n
	return rec
}

func (s *ResolverService) fromIngredient(ctx context.Context, name string) *NutritionRecord {
	hit, err := s.spoon.SearchIngredient(ctx, name)
	if err != nil {
		utils.Logger().Warnw("ingredient search failed", "item", name, "error", err)
		return nil
	}
	if hit == nil {
		return nil
	}

	info, err := s.spoon.IngredientInfo(ctx, hit.ID, 100, "grams")
	if err != nil {
		utils.Logger().Warnw("ingredient info failed", "item", name, "id", hit.ID, "error", err)
		return nil
	}
	if info == nil {
		return nil
	}

	nutrients := info.Nutrition.Nutrients
	cal := int(math.Round(nutrientAmount(nutrients, "Calories")))
	return &NutritionRecord{
		Name:        info.Name,
		Calories:    &cal,
		ServingSize: "100 grams",
		Nutrition: &Macros{
			Protein: nutrientAmount(nutrients, "Protein"),
			Fat:     nutrientAmount(nutrients, "Fat"),
			Carbs:   nutrientAmount(nutrients, "Carbohydrates"),
			Fiber:   nutrientAmount(nutrients, "Fiber"),
			Sugar:   nutrientAmount(nutrients, "Sugar"),
		},
		Source: SourceIngredient,
	}
}

func (s *ResolverService) fromRecipe(ctx context.Context, name string) *NutritionRecord {
	hit, err := s.spoon.SearchRecipe(ctx, name)
	if err != nil {
		utils.Logger().Warnw("recipe search failed", "item", name, "error", err)
		return nil
	}
	if hit == nil {
		return nil
	}

	nutrients := hit.Nutrition.Nutrients
	cal := int(math.Round(nutrientAmount(nutrients, "Calories")))
	return &NutritionRecord{
		Name:        hit.Title,
		Calories:    &cal,
		ServingSize: fmt.Sprintf("1 serving (%d total servings)", hit.Servings),
		Nutrition: &Macros{
			Protein: nutrientAmount(nutrients, "Protein"),
			Fat:     nutrientAmount(nutrients, "Fat"),
			Carbs:   nutrientAmount(nutrients, "Carbohydrates"),
			Fiber:   nutrientAmount(nutrients, "Fiber"),
			Sugar:   nutrientAmount(nutrients, "Sugar"),
		},
		Source: SourceRecipe,
	}
}

func (s *ResolverService) fromGuess(ctx context.Context, name string) *NutritionRecord {
	guess, err := s.spoon.GuessNutrition(ctx, name)
	if err != nil {
		utils.Logger().Warnw("nutrition guess failed", "item", name, "error", err)
		return nil
	}
	if guess == nil {
		return nil
	}

	cal := int(math.Round(guess.Calories.Value))
	return &NutritionRecord{
		Name:        name,
		Calories:    &cal,
		ServingSize: "estimated portion",
		Nutrition: &Macros{
			Protein: math.Round(guessAmount(guess.Protein)),
			Fat:     math.Round(guessAmount(guess.Fat)),
			Carbs:   math.Round(guessAmount(guess.Carbs)),
		},
		Source: SourceGuess,
	}
}

func guessAmount(v *guessValue) float64 {
	if v == nil {
		return 0
	}
	return v.Value
}
