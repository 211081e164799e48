package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// OpenAIService covers the two delegated "understanding" calls: Whisper audio
// transcription and chat-based structured analysis of food/workout content.
type OpenAIService struct {
	apiKey    string
	baseURL   string
	chatModel string
	client    *http.Client
}

func NewOpenAIService() *OpenAIService {
	base := os.Getenv("OPENAI_BASE_URL")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = "gpt-4-turbo"
	}
	return &OpenAIService{
		apiKey:    os.Getenv("OPENAI_API_KEY"),
		baseURL:   base,
		chatModel: model,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

const transcriptAnalysisPrompt = `Analyze the following transcript and first classify it as either "food" or "workout".

- If it is "food":
  - Identify each food item.
  - Estimate calories and macros (protein, fat, carbs in grams).
  - Provide a credible source (e.g., "USDA FoodData Central", "General nutritional database").

- If it is "workout":
  - Identify each exercise.
  - Estimate calories burned using MET-based formulas.
  - Formula: Calories/min = (MET x 3.5 x body weight in kg / 200).
  - Add an adjustment factor of +25%% to approximate wearable calorie reporting.
  - Assume body weight = 70 kg if not provided.

Respond ONLY with a JSON object. Do not include any other text or explanations.

Example for food:
{"type":"food","details":[{"item":"Gobhi Parantha","calories":220,"macros":{"protein":6,"fat":10,"carbs":28},"source":"General nutritional database"}]}

Example for workout:
{"type":"workout","details":[{"exercise":"30-minute run","calories_burned":420}]}

Transcript: %q`

const contentAnalysisPrompt = `Analyze the following food description and provide a nutritional breakdown.
- Identify each food item.
- For each item, estimate its calories and macros (protein, fat, carbs in grams).
- Provide a credible source for the nutritional data for each item.
- Respond ONLY with a JSON object in the specified format. Do not add any extra text.

Example format:
{"details":[{"item":"Roti","quantity":2,"calories":160,"macros":{"protein":6,"fat":4,"carbs":30},"source":"USDA FoodData Central"}]}

Content: %q`

const imageAnalysisPrompt = `Analyze the food in this image and provide a full nutritional breakdown.
- First, identify each distinct food item.
- For each item, estimate its calories and macros (protein, fat, carbs in grams).
- Provide a credible source for the nutritional data for each item.
- Respond ONLY with a JSON object in the specified format. Do not add any extra text or explanations.

Example format:
{"details":[{"item":"Dal Tadka","quantity":1,"calories":180,"macros":{"protein":8,"fat":6,"carbs":25},"source":"General nutritional database"}]}`

// Transcribe sends audio bytes to the Whisper transcription endpoint.
func (s *OpenAIService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	fw, err := w.CreateFormFile("file", "audio"+extensionFor(mimeType))
	if err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	body, err := s.do(req)
	if err != nil {
		return "", err
	}

	var tr struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse transcription JSON: %w", err)
	}
	return tr.Text, nil
}

// AnalyzeTranscript classifies a transcript as food or workout and extracts
// per-item estimates.
func (s *OpenAIService) AnalyzeTranscript(ctx context.Context, transcript string) (*Analysis, error) {
	prompt := fmt.Sprintf(transcriptAnalysisPrompt, transcript)
	return s.chatAnalysis(ctx, s.chatModel, []chatMessage{{Role: "user", Content: prompt}})
}

// AnalyzeText extracts per-item nutrition estimates from a free-text meal
// description.
func (s *OpenAIService) AnalyzeText(ctx context.Context, text string) (*Analysis, error) {
	prompt := fmt.Sprintf(contentAnalysisPrompt, text)
	return s.chatAnalysis(ctx, s.chatModel, []chatMessage{{Role: "user", Content: prompt}})
}

// AnalyzeImage runs the vision model over image bytes for a full breakdown.
func (s *OpenAIService) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	content := []map[string]any{
		{"type": "text", "text": imageAnalysisPrompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURI}},
	}
	return s.chatAnalysis(ctx, "gpt-4o", []chatMessage{{Role: "user", Content: content}})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *OpenAIService) chatAnalysis(ctx context.Context, model string, messages []chatMessage) (*Analysis, error) {
	payload := chatRequest{Model: model, Messages: messages}
	payload.ResponseFormat.Type = "json_object"

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	body, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse chat JSON: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	return &analysis, nil
}

func (s *OpenAIService) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
