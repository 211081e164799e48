package main

import (
	"os"

	"github.com/udaypartap979/calorie-counter/config"
	"github.com/udaypartap979/calorie-counter/controllers"
	"github.com/udaypartap979/calorie-counter/routes"
	"github.com/udaypartap979/calorie-counter/services"
	"github.com/udaypartap979/calorie-counter/utils"
)

func main() {
	utils.InitLogger()
	config.InitDB()
	utils.InitS3()

	gemini := services.NewGeminiService()
	openai := services.NewOpenAIService()
	spoon := services.NewSpoonacularService()
	twilio := services.NewTwilioService()

	rek, err := services.NewRekognitionService()
	if err != nil {
		utils.Logger().Warnw("Rekognition unavailable, no vision fallback", "error", err)
		rek = nil
	}

	notify, err := services.NewNotifyService()
	if err != nil {
		utils.Logger().Warnw("SNS unavailable, log notifications disabled", "error", err)
		notify = nil
	}

	hub := services.NewRealtimeHub()
	extractor := services.NewExtractorService(gemini, rek)
	resolver := services.NewResolverService(spoon, gemini)
	logs := services.NewLogService(config.DB, notify, hub)
	relay := services.NewRelayService(twilio, openai, logs)

	r := routes.SetupRouter(&routes.Handlers{
		Identify: controllers.NewIdentifyController(extractor, resolver),
		Analyze:  controllers.NewAnalyzeController(openai),
		Log:      controllers.NewLogController(logs, extractor, resolver),
		Webhook:  controllers.NewWebhookController(relay),
		Realtime: controllers.NewRealtimeController(hub),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
