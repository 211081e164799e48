package controllers

import (
	"context"
	"net/http"

	"github.com/udaypartap979/calorie-counter/services"
	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	Relay *services.RelayService
}

func NewWebhookController(relay *services.RelayService) *WebhookController {
	return &WebhookController{Relay: relay}
}

// POST /whatsapp-webhook
// Acknowledges receipt before processing so the relay transport never times
// out; the pipeline runs on its own goroutine and delivers the outcome as a
// follow-up message.
func (h *WebhookController) WhatsappWebhook(c *gin.Context) {
	msg := services.InboundMessage{
		From:             c.PostForm("From"),
		To:               c.PostForm("To"),
		Body:             c.PostForm("Body"),
		MediaURL:         c.PostForm("MediaUrl0"),
		MediaContentType: c.PostForm("MediaContentType0"),
	}
	if msg.From == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sender is required."})
		return
	}

	if err := h.Relay.Acknowledge(context.Background(), msg); err != nil {
		utils.Logger().Warnw("webhook ack message failed", "to", msg.From, "error", err)
	}

	c.Status(http.StatusOK)

	go h.Relay.Process(msg)
}
