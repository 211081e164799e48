package services

import (
	"context"
	"encoding/json"
	"os"

	"github.com/udaypartap979/calorie-counter/models"
	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// NotifyService publishes "log created" events to an SNS topic for downstream
// consumers. Publishing is best-effort; failures are logged and dropped.
type NotifyService struct {
	sns      *awssns.Client
	topicArn string
}

func NewNotifyService() (*NotifyService, error) {
	region := os.Getenv("AWS_REGION")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &NotifyService{
		sns:      awssns.NewFromConfig(cfg),
		topicArn: os.Getenv("SNS_LOG_TOPIC_ARN"),
	}, nil
}

func (n *NotifyService) LogCreated(entry *models.MealLog) {
	if n.topicArn == "" {
		return
	}

	raw, _ := json.Marshal(map[string]any{
		"logId":         entry.ID,
		"userId":        entry.UserID,
		"itemType":      entry.ItemType,
		"totalCalories": entry.TotalCalories,
	})
	_, err := n.sns.Publish(context.TODO(), &awssns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Message:  aws.String(string(raw)),
	})
	if err != nil {
		utils.Logger().Warnw("SNS publish failed", "logId", entry.ID, "error", err)
	}
}
