package routes

import (
	"github.com/udaypartap979/calorie-counter/controllers"
	"github.com/udaypartap979/calorie-counter/middlewares"

	"github.com/gin-gonic/gin"
)

// Handlers holds every constructed controller the router wires up.
type Handlers struct {
	Identify *controllers.IdentifyController
	Analyze  *controllers.AnalyzeController
	Log      *controllers.LogController
	Webhook  *controllers.WebhookController
	Realtime *controllers.RealtimeController
}

func SetupRouter(h *Handlers) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 5 << 20

	r.GET("/", controllers.HealthCheck)

	// Image identification + nutrition resolution pipeline
	r.POST("/identify-food", h.Identify.IdentifyFood)

	// Direct structured analysis
	r.POST("/analyze-image", h.Analyze.AnalyzeImage)
	r.POST("/analyze-audio", h.Analyze.AnalyzeAudio)
	r.POST("/analyze-text", h.Analyze.AnalyzeText)

	// Log persistence
	r.POST("/log-meal", h.Log.LogMeal)
	r.POST("/log-audio", h.Log.LogAudio)
	r.POST("/log-analysis", h.Log.LogAnalysis)
	r.GET("/meals", middlewares.DashboardAuth(), h.Log.ListMeals)

	// Dashboard sharing + live feed
	r.POST("/invite-dashboard-access", controllers.InviteDashboardAccess)
	r.GET("/ws/dashboard", middlewares.DashboardAuth(), h.Realtime.DashboardWS)

	// Chat relay
	r.POST("/whatsapp-webhook", h.Webhook.WhatsappWebhook)

	return r
}
