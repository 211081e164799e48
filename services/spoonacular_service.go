package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

type SpoonacularService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSpoonacularService initializes the SpoonacularService with credentials and HTTP client
func NewSpoonacularService() *SpoonacularService {
	base := os.Getenv("SPOONACULAR_BASE_URL")
	if base == "" {
		base = "https://api.spoonacular.com"
	}
	return &SpoonacularService{
		apiKey:  os.Getenv("SPOONACULAR_API_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type IngredientHit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ingredientSearchResponse struct {
	Results []IngredientHit `json:"results"`
}

// SearchIngredient calls the ingredient search endpoint and returns the first
// hit, or nil when nothing matched.
func (s *SpoonacularService) SearchIngredient(ctx context.Context, name string) (*IngredientHit, error) {
	u := fmt.Sprintf(
		"%s/food/ingredients/search?query=%s&number=1&apiKey=%s",
		s.baseURL, url.QueryEscape(name), s.apiKey,
	)

	var sr ingredientSearchResponse
	if err := s.getJSON(ctx, u, &sr); err != nil {
		return nil, fmt.Errorf("ingredient search for %q: %w", name, err)
	}
	if len(sr.Results) == 0 {
		return nil, nil
	}
	return &sr.Results[0], nil
}

type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type IngredientInfo struct {
	Name      string `json:"name"`
	Nutrition struct {
		Nutrients []Nutrient `json:"nutrients"`
	} `json:"nutrition"`
}

// IngredientInfo fetches detailed nutrition for an ingredient id at the given
// amount and unit.
func (s *SpoonacularService) IngredientInfo(ctx context.Context, id int, amount float64, unit string) (*IngredientInfo, error) {
	u := fmt.Sprintf(
		"%s/food/ingredients/%d/information?amount=%s&unit=%s&apiKey=%s",
		s.baseURL, id, strconv.FormatFloat(amount, 'f', -1, 64), url.QueryEscape(unit), s.apiKey,
	)

	var info IngredientInfo
	if err := s.getJSON(ctx, u, &info); err != nil {
		return nil, fmt.Errorf("ingredient info for id %d: %w", id, err)
	}
	if len(info.Nutrition.Nutrients) == 0 {
		return nil, nil
	}
	return &info, nil
}

type RecipeHit struct {
	Title     string `json:"title"`
	Servings  int    `json:"servings"`
	Nutrition struct {
		Nutrients []Nutrient `json:"nutrients"`
	} `json:"nutrition"`
}

type recipeSearchResponse struct {
	Results []RecipeHit `json:"results"`
}

// SearchRecipe calls the recipe complexSearch endpoint with nutrition
// enrichment and returns the first hit, or nil when nothing matched.
func (s *SpoonacularService) SearchRecipe(ctx context.Context, query string) (*RecipeHit, error) {
	u := fmt.Sprintf(
		"%s/recipes/complexSearch?query=%s&number=1&addRecipeNutrition=true&apiKey=%s",
		s.baseURL, url.QueryEscape(query), s.apiKey,
	)

	var rr recipeSearchResponse
	if err := s.getJSON(ctx, u, &rr); err != nil {
		return nil, fmt.Errorf("recipe search for %q: %w", query, err)
	}
	if len(rr.Results) == 0 || len(rr.Results[0].Nutrition.Nutrients) == 0 {
		return nil, nil
	}
	return &rr.Results[0], nil
}

type guessValue struct {
	Value float64 `json:"value"`
}

type NutritionGuess struct {
	Calories *guessValue `json:"calories"`
	Protein  *guessValue `json:"protein"`
	Fat      *guessValue `json:"fat"`
	Carbs    *guessValue `json:"carbs"`
}

// GuessNutrition requests a rough, title-only nutrition estimate. Returns nil
// when the service produced no calorie figure.
func (s *SpoonacularService) GuessNutrition(ctx context.Context, title string) (*NutritionGuess, error) {
	u := fmt.Sprintf(
		"%s/recipes/guessNutrition?title=%s&apiKey=%s",
		s.baseURL, url.QueryEscape(title), s.apiKey,
	)

	var g NutritionGuess
	if err := s.getJSON(ctx, u, &g); err != nil {
		return nil, fmt.Errorf("nutrition guess for %q: %w", title, err)
	}
	if g.Calories == nil {
		return nil, nil
	}
	return &g, nil
}

func (s *SpoonacularService) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Spoonacular: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Spoonacular response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spoonacular API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse Spoonacular JSON: %w", err)
	}
	return nil
}

// nutrientAmount extracts a nutrient by exact label match, 0 when absent.
func nutrientAmount(nutrients []Nutrient, name string) float64 {
	for _, n := range nutrients {
		if n.Name == name {
			return n.Amount
		}
	}
	return 0
}
