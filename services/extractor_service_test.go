package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fake Gemini endpoint that always answers with the given text
func fakeGemini(t *testing.T, reply string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestExtractor(t *testing.T, reply string) *ExtractorService {
	srv := fakeGemini(t, reply)
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")
	return NewExtractorService(NewGeminiService(), nil)
}

func TestSplitItemList(t *testing.T) {
	items := SplitItemList("Fried Chicken, Waffle, Syrup, Butter")
	assert.Len(t, items, 4)
	assert.Equal(t, "Fried Chicken", items[0].Name)
	assert.Equal(t, "Waffle", items[1].Name)
	assert.Equal(t, "Syrup", items[2].Name)
	assert.Equal(t, "Butter", items[3].Name)
}

func TestSplitItemListDropsEmptyTokens(t *testing.T) {
	items := SplitItemList(" Banana ,, , Apple ,")
	assert.Len(t, items, 2)
	assert.Equal(t, "Banana", items[0].Name)
	assert.Equal(t, "Apple", items[1].Name)
}

func TestSplitItemListKeepsDuplicates(t *testing.T) {
	// two servings are two entries
	items := SplitItemList("Roti, Roti")
	assert.Len(t, items, 2)
	assert.Equal(t, "Roti", items[0].Name)
	assert.Equal(t, "Roti", items[1].Name)
}

func TestSplitItemListEmptyInput(t *testing.T) {
	assert.Empty(t, SplitItemList(""))
	assert.Empty(t, SplitItemList("  ,  ,  "))
}

func TestFromImageParsesDelegatedList(t *testing.T) {
	ex := newTestExtractor(t, "Dal Tadka, Roti, Lassi")
	items, err := ex.FromImage(context.Background(), []byte("img"), "image/jpeg")
	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "Dal Tadka", items[0].Name)
}

func TestFromImageNothingIdentified(t *testing.T) {
	ex := newTestExtractor(t, "   ")
	_, err := ex.FromImage(context.Background(), []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, ErrNothingIdentified)
}

func TestClassifyAudioNormalizesResponse(t *testing.T) {
	ex := newTestExtractor(t, "  Workout \n")
	itemType, err := ex.ClassifyAudio(context.Background(), []byte("audio"), "audio/ogg")
	assert.NoError(t, err)
	assert.Equal(t, ItemTypeWorkout, itemType)
}

func TestClassifyAudioDefaultsToFood(t *testing.T) {
	ex := newTestExtractor(t, "this describes a meal")
	itemType, err := ex.ClassifyAudio(context.Background(), []byte("audio"), "audio/ogg")
	assert.NoError(t, err)
	assert.Equal(t, ItemTypeFood, itemType)
}

func TestFromTextExtractsItems(t *testing.T) {
	ex := newTestExtractor(t, "2 rotis, dal")
	items, err := ex.FromText(context.Background(), "I had 2 rotis and dal for lunch")
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "2 rotis", items[0].Name)
	assert.Equal(t, "dal", items[1].Name)
}
