package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

// generic SES sender
func sendEmail(to string, subject string, htmlBody string) error {
	if sesClient == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			return fmt.Errorf("AWS config load failed: %v", err)
		}
		sesClient = ses.NewFromConfig(cfg)
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		Logger().Errorw("SES send failed", "to", to, "error", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendDashboardInvite mails a link granting read access to a user's dashboard.
func SendDashboardInvite(to string, dashboardURL string) error {
	subject := "You've been invited to view a dashboard!"
	body := fmt.Sprintf(`<p>Hello,</p>
<p>A friend has invited you to view their personal dashboard.</p>
<p>You can see all their latest activity by visiting this link: <a href="%s">View Dashboard</a></p>
<p>Best regards,</p>
<p>The Dashboard Team</p>`, dashboardURL)
	return sendEmail(to, subject, body)
}
