package controllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

// POST /invite-dashboard-access  { "recipientEmail": ..., "userId": ... }
// Emails a dashboard link carrying a signed read-only grant for the user.
func InviteDashboardAccess(c *gin.Context) {
	var req struct {
		RecipientEmail string `json:"recipientEmail"`
		UserID         string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient email is required."})
		return
	}
	if req.RecipientEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient email is required."})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	base := os.Getenv("DASHBOARD_URL")
	if base == "" {
		base = "https://calorie-frontend.vercel.app"
	}

	dashboardURL := fmt.Sprintf("%s/dashboard?userId=%s", base, req.UserID)
	if token, err := utils.GenerateDashboardToken(req.UserID); err != nil {
		utils.Logger().Warnw("dashboard token generation failed", "error", err)
	} else {
		dashboardURL = fmt.Sprintf("%s&token=%s", dashboardURL, token)
	}

	if err := utils.SendDashboardInvite(req.RecipientEmail, dashboardURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitation email."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Invitation email sent successfully.",
		"dashboardUrl": dashboardURL,
	})
}
