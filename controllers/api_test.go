package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/udaypartap979/calorie-counter/controllers"
	"github.com/udaypartap979/calorie-counter/routes"
	"github.com/udaypartap979/calorie-counter/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeGeminiServer(t *testing.T, reply string) *httptest.Server {
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

func setupRouter(t *testing.T, geminiReply string, spoonHandler http.HandlerFunc) *gin.Engine {
	gemSrv := fakeGeminiServer(t, geminiReply)
	t.Setenv("GEMINI_BASE_URL", gemSrv.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")

	if spoonHandler == nil {
		spoonHandler = func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[]}`)
		}
	}
	spoonSrv := httptest.NewServer(spoonHandler)
	t.Cleanup(spoonSrv.Close)
	t.Setenv("SPOONACULAR_BASE_URL", spoonSrv.URL)
	t.Setenv("SPOONACULAR_API_KEY", "test-key")

	gemini := services.NewGeminiService()
	spoon := services.NewSpoonacularService()
	extractor := services.NewExtractorService(gemini, nil)
	resolver := services.NewResolverService(spoon, gemini)

	return routes.SetupRouter(&routes.Handlers{
		Identify: controllers.NewIdentifyController(extractor, resolver),
		Analyze:  controllers.NewAnalyzeController(services.NewOpenAIService()),
		Log:      controllers.NewLogController(nil, extractor, resolver),
		Webhook:  controllers.NewWebhookController(nil),
		Realtime: controllers.NewRealtimeController(services.NewRealtimeHub()),
	})
}

func multipartBody(t *testing.T, field, filename string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		assert.NoError(t, err)
		_, err = fw.Write(data)
		assert.NoError(t, err)
	}
	for k, v := range extra {
		assert.NoError(t, w.WriteField(k, v))
	}
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t, "", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestIdentifyFoodMissingFileIs400(t *testing.T) {
	r := setupRouter(t, "should never be asked", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/identify-food", strings.NewReader(""))
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestIdentifyFoodNothingIdentifiedIs404(t *testing.T) {
	r := setupRouter(t, "   ", nil)
	body, contentType := multipartBody(t, "foodImage", "meal.jpg", []byte("jpegbytes"), nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/identify-food", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}

func TestIdentifyFoodResolvesAndAggregates(t *testing.T) {
	spoon := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/food/ingredients/search", "/recipes/complexSearch":
			fmt.Fprint(w, `{"results":[]}`)
		case "/recipes/guessNutrition":
			fmt.Fprint(w, `{"calories":{"value":150},"protein":{"value":5},"fat":{"value":5},"carbs":{"value":20}}`)
		}
	}
	r := setupRouter(t, "Fried Chicken, Waffle", spoon)

	body, contentType := multipartBody(t, "foodImage", "meal.jpg", []byte("jpegbytes"), nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/identify-food", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)

	var resp struct {
		IdentifiedFoods        []services.NutritionRecord `json:"identifiedFoods"`
		TotalEstimatedCalories int                        `json:"totalEstimatedCalories"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.IdentifiedFoods, 2)
	assert.Equal(t, "Fried Chicken", resp.IdentifiedFoods[0].Name)
	assert.Equal(t, 300, resp.TotalEstimatedCalories)
}

func TestAnalyzeTextMissingBodyIs400(t *testing.T) {
	r := setupRouter(t, "", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/analyze-text", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestLogAnalysisMissingFieldsIs400(t *testing.T) {
	r := setupRouter(t, "", nil)
	body, contentType := multipartBody(t, "", "", nil, map[string]string{"userId": "u1"})
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/log-analysis", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestLogAudioMissingFileIs400(t *testing.T) {
	r := setupRouter(t, "", nil)
	body, contentType := multipartBody(t, "", "", nil, map[string]string{"userId": "u1"})
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/log-audio", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestListMealsMissingUserIs400(t *testing.T) {
	r := setupRouter(t, "", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/meals", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestListMealsInvalidTokenIs401(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := setupRouter(t, "", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/meals?token=not-a-token", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestWebhookMissingSenderIs400(t *testing.T) {
	r := setupRouter(t, "", nil)
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/whatsapp-webhook", strings.NewReader("Body=hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

// the webhook must answer before processing finishes and still deliver a
// follow-up message afterwards
func TestWebhookAcksThenFollowsUp(t *testing.T) {
	sent := make(chan string, 4)
	twilioSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		sent <- r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(twilioSrv.Close)
	t.Setenv("TWILIO_BASE_URL", twilioSrv.URL)
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")

	openaiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	t.Cleanup(openaiSrv.Close)
	t.Setenv("OPENAI_BASE_URL", openaiSrv.URL)
	t.Setenv("OPENAI_API_KEY", "test-key")

	relay := services.NewRelayService(services.NewTwilioService(), services.NewOpenAIService(), nil)
	r := gin.New()
	wh := controllers.NewWebhookController(relay)
	r.POST("/whatsapp-webhook", wh.WhatsappWebhook)

	form := "From=whatsapp%3A%2B14155550100&To=whatsapp%3A%2B14155238886&Body=2+rotis"
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/whatsapp-webhook", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)

	// ack was sent synchronously
	select {
	case body := <-sent:
		assert.Equal(t, "Processing your request...", body)
	case <-time.After(2 * time.Second):
		t.Fatal("no acknowledgment message sent")
	}

	// analysis fails upstream, so the async follow-up is the failure notice
	select {
	case body := <-sent:
		assert.Equal(t, "Sorry, I couldn't process that. Please try again.", body)
	case <-time.After(2 * time.Second):
		t.Fatal("no follow-up message sent")
	}
}
