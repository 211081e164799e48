package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TwilioService sends outbound WhatsApp messages and fetches inbound media.
type TwilioService struct {
	accountSID string
	authToken  string
	baseURL    string
	client     *http.Client
}

func NewTwilioService() *TwilioService {
	base := os.Getenv("TWILIO_BASE_URL")
	if base == "" {
		base = "https://api.twilio.com"
	}
	return &TwilioService{
		accountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		authToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		baseURL:    base,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SendMessage posts one outbound message from the bot number to the sender.
func (s *TwilioService) SendMessage(ctx context.Context, from, to, body string) error {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	u := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create Twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Twilio API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio API error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// DownloadMedia fetches a media attachment from an inbound message. Media
// URLs are Twilio-hosted and require basic auth.
func (s *TwilioService) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create media request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("media download error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
