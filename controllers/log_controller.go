package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/udaypartap979/calorie-counter/services"
	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	Logs      *services.LogService
	Extractor *services.ExtractorService
	Resolver  *services.ResolverService
}

func NewLogController(logs *services.LogService, ex *services.ExtractorService, res *services.ResolverService) *LogController {
	return &LogController{Logs: logs, Extractor: ex, Resolver: res}
}

// POST /log-meal  (multipart: foodImage, userId, userEmail, analysisResult)
// analysisResult is the JSON envelope previously returned by /identify-food.
func (h *LogController) LogMeal(c *gin.Context) {
	userID := c.PostForm("userId")
	analysisResult := c.PostForm("analysisResult")

	image, contentType, err := readFormFile(c, "foodImage")
	if err != nil || userID == "" || analysisResult == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image, User ID, and analysis result are required."})
		return
	}

	var parsed struct {
		IdentifiedFoods        []services.NutritionRecord `json:"identifiedFoods"`
		TotalEstimatedCalories int                        `json:"totalEstimatedCalories"`
	}
	if err := json.Unmarshal([]byte(analysisResult), &parsed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis result."})
		return
	}

	var imageURL *string
	if u, err := utils.UploadMedia(image, contentType, "meal-images/upload"); err != nil {
		utils.Logger().Errorw("meal image upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log meal."})
		return
	} else {
		imageURL = &u
	}

	env := services.LogEnvelope{
		ItemType:      services.ItemTypeFood,
		TotalCalories: parsed.TotalEstimatedCalories,
		Details:       parsed.IdentifiedFoods,
	}
	entry, err := h.Logs.Insert(userID, c.PostForm("userEmail"), env, imageURL)
	if err != nil {
		utils.Logger().Errorw("meal log insert failed", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log meal."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Meal logged successfully!", "data": entry})
}

// POST /log-audio  (multipart: foodAudio, userId, userEmail)
// Classifies the clip as food or workout, then runs the matching resolution
// path and persists the result in one step.
func (h *LogController) LogAudio(c *gin.Context) {
	userID := c.PostForm("userId")

	audio, contentType, err := readFormFile(c, "foodAudio")
	if err != nil || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file and User ID are required."})
		return
	}

	ctx := c.Request.Context()
	itemType, err := h.Extractor.ClassifyAudio(ctx, audio, contentType)
	if err != nil {
		utils.Logger().Errorw("audio classification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log audio."})
		return
	}

	transcript, err := h.Extractor.TranscribeAudio(ctx, audio, contentType)
	if err != nil {
		utils.Logger().Errorw("audio transcription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log audio."})
		return
	}

	var env services.LogEnvelope
	if itemType == services.ItemTypeWorkout {
		env = services.AggregateWorkout(h.Resolver.ResolveWorkout(ctx, transcript))
	} else {
		items, err := h.Extractor.FromText(ctx, transcript)
		if err != nil {
			if errors.Is(err, services.ErrNothingIdentified) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No food items could be identified."})
				return
			}
			utils.Logger().Errorw("food extraction failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log audio."})
			return
		}
		env = services.AggregateRecords(h.Resolver.ResolveAll(ctx, items))
	}

	if _, err := h.Logs.Insert(userID, c.PostForm("userEmail"), env, nil); err != nil {
		utils.Logger().Errorw("audio log insert failed", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log audio."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("%s logged successfully!", env.ItemType)})
}

// POST /log-analysis  (multipart: analysisResult, userId, userEmail, optional image)
func (h *LogController) LogAnalysis(c *gin.Context) {
	userID := c.PostForm("userId")
	userEmail := c.PostForm("userEmail")
	analysisResult := c.PostForm("analysisResult")

	if analysisResult == "" || userID == "" || userEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysisResult, userId, and userEmail are required."})
		return
	}

	var analysis services.Analysis
	if err := json.Unmarshal([]byte(analysisResult), &analysis); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis result."})
		return
	}

	var imageURL *string
	if image, contentType, err := readFormFile(c, "image"); err == nil {
		if u, uerr := utils.UploadMedia(image, contentType, "meal-images/analysis"); uerr != nil {
			utils.Logger().Warnw("analysis image upload failed", "error", uerr)
		} else {
			imageURL = &u
		}
	}

	env := services.AggregateAnalysis(analysis.Type, analysis.Details)
	entry, err := h.Logs.Insert(userID, userEmail, env, imageURL)
	if err != nil {
		utils.Logger().Errorw("analysis log insert failed", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log analysis."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Analysis logged successfully!", "data": entry})
}

// GET /meals?userId=  (or a signed dashboard token from the invite link)
func (h *LogController) ListMeals(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID, _ = userIDFromCtx(c)
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	entries, err := h.Logs.ListByUser(userID)
	if err != nil {
		utils.Logger().Errorw("meal list failed", "userId", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meals."})
		return
	}
	c.JSON(http.StatusOK, entries)
}
