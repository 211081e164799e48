package services

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionService is a secondary image labeler, used when the primary
// vision call fails.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// DetectLabels returns the top label names for raw image bytes.
func (r *RekognitionService) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		labels = append(labels, *l.Name)
	}
	return labels, nil
}
