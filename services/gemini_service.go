package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// GeminiService is the multimodal classifier/transcriber boundary: it takes
// an instruction plus optional media bytes and returns free text.
type GeminiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGeminiService() *GeminiService {
	base := os.Getenv("GEMINI_BASE_URL")
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-pro"
	}
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText runs a text-only prompt.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, []geminiPart{{Text: prompt}})
}

// GenerateWithMedia runs a prompt against inline media (image or audio bytes).
func (s *GeminiService) GenerateWithMedia(ctx context.Context, prompt string, media []byte, mimeType string) (string, error) {
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(media),
		}},
	}
	return s.generate(ctx, parts)
}

func (s *GeminiService) generate(ctx context.Context, parts []geminiPart) (string, error) {
	var payload geminiRequest
	payload.Contents = append(payload.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Gemini payload: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to parse Gemini JSON: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
