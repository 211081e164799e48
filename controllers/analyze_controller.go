package controllers

import (
	"net/http"

	"github.com/udaypartap979/calorie-counter/services"
	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

type AnalyzeController struct {
	OpenAI *services.OpenAIService
}

func NewAnalyzeController(oa *services.OpenAIService) *AnalyzeController {
	return &AnalyzeController{OpenAI: oa}
}

// POST /analyze-image  (multipart: image)
func (h *AnalyzeController) AnalyzeImage(c *gin.Context) {
	image, contentType, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided."})
		return
	}

	analysis, err := h.OpenAI.AnalyzeImage(c.Request.Context(), image, contentType)
	if err != nil {
		utils.Logger().Errorw("image analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze image."})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// POST /analyze-audio  (multipart: audio)
func (h *AnalyzeController) AnalyzeAudio(c *gin.Context) {
	audio, contentType, err := readFormFile(c, "audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided."})
		return
	}

	transcript, err := h.OpenAI.Transcribe(c.Request.Context(), audio, contentType)
	if err != nil {
		utils.Logger().Errorw("audio transcription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transcribe audio."})
		return
	}

	analysis, err := h.OpenAI.AnalyzeTranscript(c.Request.Context(), transcript)
	if err != nil {
		utils.Logger().Errorw("transcript analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze transcript."})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// POST /analyze-text  { "text": "2 rotis and dal" }
func (h *AnalyzeController) AnalyzeText(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided."})
		return
	}

	analysis, err := h.OpenAI.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		utils.Logger().Errorw("text analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze content."})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
