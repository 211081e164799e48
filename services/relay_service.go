package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/udaypartap979/calorie-counter/utils"
)

// InboundMessage is one message received on the chat relay webhook.
type InboundMessage struct {
	From             string // sender, e.g. "whatsapp:+14155238886"
	To               string // our bot number
	Body             string
	MediaURL         string
	MediaContentType string
}

// RelayService processes chat messages end to end: receipt is acknowledged
// synchronously by the webhook handler, then Process runs the analysis
// pipeline in-process and delivers the outcome as a follow-up message. The
// failure path still messages the sender.
type RelayService struct {
	twilio       *TwilioService
	openai       *OpenAIService
	logs         *LogService
	defaultEmail string
}

func NewRelayService(twilio *TwilioService, openai *OpenAIService, logs *LogService) *RelayService {
	email := os.Getenv("CHAT_DEFAULT_EMAIL")
	if email == "" {
		email = "xyz@gmail.com"
	}
	return &RelayService{twilio: twilio, openai: openai, logs: logs, defaultEmail: email}
}

// Acknowledge sends the immediate "working on it" reply, before processing.
func (s *RelayService) Acknowledge(ctx context.Context, msg InboundMessage) error {
	return s.twilio.SendMessage(ctx, msg.To, msg.From, "Processing your request...")
}

// Process analyzes the message, persists the result, and sends the final
// status message. Meant to run on its own goroutine after the webhook has
// already returned 200.
func (s *RelayService) Process(msg InboundMessage) {
	ctx := context.Background()

	reply := "Sorry, I couldn't process that. Please try again."
	env, imageURL, err := s.analyze(ctx, msg)
	if err != nil {
		utils.Logger().Errorw("chat relay analysis failed", "from", msg.From, "error", err)
	} else if _, err := s.logs.Insert(msg.From, s.defaultEmail, env, imageURL); err != nil {
		utils.Logger().Errorw("chat relay log insert failed", "from", msg.From, "error", err)
	} else {
		reply = fmt.Sprintf("Successfully logged! Total estimated calories: %d.", env.TotalCalories)
	}

	if err := s.twilio.SendMessage(ctx, msg.To, msg.From, reply); err != nil {
		utils.Logger().Errorw("chat relay status message failed", "to", msg.From, "error", err)
	}
}

func (s *RelayService) analyze(ctx context.Context, msg InboundMessage) (LogEnvelope, *string, error) {
	var analysis *Analysis
	var imageURL *string

	switch {
	case msg.MediaURL != "" && strings.Contains(msg.MediaContentType, "image"):
		media, err := s.twilio.DownloadMedia(ctx, msg.MediaURL)
		if err != nil {
			return LogEnvelope{}, nil, err
		}
		analysis, err = s.openai.AnalyzeImage(ctx, media, msg.MediaContentType)
		if err != nil {
			return LogEnvelope{}, nil, err
		}
		// image persistence is best-effort; the log survives without it
		if u, uerr := utils.UploadMedia(media, msg.MediaContentType, "meal-images/whatsapp"); uerr != nil {
			utils.Logger().Warnw("chat relay image upload failed", "error", uerr)
		} else {
			imageURL = &u
		}

	case msg.MediaURL != "" && strings.Contains(msg.MediaContentType, "audio"):
		media, err := s.twilio.DownloadMedia(ctx, msg.MediaURL)
		if err != nil {
			return LogEnvelope{}, nil, err
		}
		transcript, err := s.openai.Transcribe(ctx, media, msg.MediaContentType)
		if err != nil {
			return LogEnvelope{}, nil, err
		}
		analysis, err = s.openai.AnalyzeTranscript(ctx, transcript)
		if err != nil {
			return LogEnvelope{}, nil, err
		}

	case msg.Body != "":
		var err error
		analysis, err = s.openai.AnalyzeText(ctx, msg.Body)
		if err != nil {
			return LogEnvelope{}, nil, err
		}

	default:
		return LogEnvelope{}, nil, fmt.Errorf("message has neither media nor text")
	}

	return AggregateAnalysis(analysis.Type, analysis.Details), imageURL, nil
}
