package controllers

import (
	"errors"
	"net/http"

	"github.com/udaypartap979/calorie-counter/services"
	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

type IdentifyController struct {
	Extractor *services.ExtractorService
	Resolver  *services.ResolverService
}

func NewIdentifyController(ex *services.ExtractorService, res *services.ResolverService) *IdentifyController {
	return &IdentifyController{Extractor: ex, Resolver: res}
}

// POST /identify-food  (multipart: foodImage)
func (h *IdentifyController) IdentifyFood(c *gin.Context) {
	image, contentType, err := readFormFile(c, "foodImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided."})
		return
	}

	items, err := h.Extractor.FromImage(c.Request.Context(), image, contentType)
	if err != nil {
		if errors.Is(err, services.ErrNothingIdentified) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No food items could be identified."})
			return
		}
		utils.Logger().Errorw("image analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze image."})
		return
	}

	records := h.Resolver.ResolveAll(c.Request.Context(), items)
	env := services.AggregateRecords(records)

	c.JSON(http.StatusOK, gin.H{
		"identifiedFoods":        records,
		"totalEstimatedCalories": env.TotalCalories,
		"note":                   "Food identification and nutrition values are estimates provided by external services.",
	})
}
