package services

import (
	"context"
	"errors"
	"strings"

	"github.com/udaypartap979/calorie-counter/utils"
)

// ErrNothingIdentified means extraction finished but produced zero usable
// tokens. Surfaced as 404, not a server error.
var ErrNothingIdentified = errors.New("no food items could be identified")

const identifyImagePrompt = `Analyze this image and identify all distinct, edible food items and drinks.
- For composite dishes (like 'Chicken and Waffles'), identify the main dish name.
- For separate items (like drinks or side sauces), list them individually.
- Exclude all non-edible items like plates, cutlery, tablecloths, or people.
- Return the list as a simple comma-separated string.
- Example output: Fried Chicken, Waffle, Syrup, Butter`

const classifyAudioPrompt = `Does this audio describe eating food, nutrition, or calories, OR does it describe physical exercise like running, lifting weights, or a workout? Respond with only the word "food" or "workout".`

const foodsFromTextPrompt = `From the following text, extract food items and their portion sizes. Respond with a comma-separated list. Text: `

// ExtractorService turns a raw input artifact into an ordered list of
// candidate items. Recognition is delegated; only the post-processing of the
// delegated responses lives here.
type ExtractorService struct {
	gem *GeminiService
	rek *RekognitionService // optional fallback labeler, may be nil
}

func NewExtractorService(gem *GeminiService, rek *RekognitionService) *ExtractorService {
	return &ExtractorService{gem: gem, rek: rek}
}

// FromImage identifies food items in an image and returns them in order.
func (s *ExtractorService) FromImage(ctx context.Context, image []byte, mimeType string) ([]CandidateItem, error) {
	text, err := s.gem.GenerateWithMedia(ctx, identifyImagePrompt, image, mimeType)
	if err != nil {
		if s.rek == nil {
			return nil, err
		}
		utils.Logger().Warnw("vision call failed, falling back to label detection", "error", err)
		labels, lerr := s.rek.DetectLabels(ctx, image)
		if lerr != nil {
			return nil, err
		}
		text = strings.Join(labels, ", ")
	}

	items := SplitItemList(text)
	if len(items) == 0 {
		return nil, ErrNothingIdentified
	}
	return items, nil
}

// ClassifyAudio decides whether an audio clip describes food or a workout.
// Anything the classifier does not clearly call a workout is treated as food.
func (s *ExtractorService) ClassifyAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	out, err := s.gem.GenerateWithMedia(ctx, classifyAudioPrompt, audio, mimeType)
	if err != nil {
		return "", err
	}
	if strings.ToLower(strings.TrimSpace(out)) == ItemTypeWorkout {
		return ItemTypeWorkout, nil
	}
	return ItemTypeFood, nil
}

// TranscribeAudio returns a plain transcript of the clip.
func (s *ExtractorService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return s.gem.GenerateWithMedia(ctx, "Transcribe this audio.", audio, mimeType)
}

// FromText extracts food items from a transcript or free-text description.
func (s *ExtractorService) FromText(ctx context.Context, text string) ([]CandidateItem, error) {
	out, err := s.gem.GenerateText(ctx, foodsFromTextPrompt+`"`+text+`"`)
	if err != nil {
		return nil, err
	}

	items := SplitItemList(out)
	if len(items) == 0 {
		return nil, ErrNothingIdentified
	}
	return items, nil
}

// SplitItemList parses a delegated comma-separated response: split on ",",
// trim every token, drop empties, keep order. Repeated items are kept —
// two servings are two entries.
func SplitItemList(s string) []CandidateItem {
	var items []CandidateItem
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		items = append(items, CandidateItem{Name: tok})
	}
	return items
}
