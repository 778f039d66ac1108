package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

// sqsAPI is the minimal subset of the SQS client used by sqsSink.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsSink delivers each record as one SQS message, so a downstream consumer
// can ingest approved articles without polling the export file.
type sqsSink struct {
	queueURL string
	client   sqsAPI
}

// NewSQSSink builds the queue export sink for the given queue URL and region.
func NewSQSSink(ctx context.Context, queueURL, region string) (Sink, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("sqs sink requires a queue url")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &sqsSink{
		queueURL: queueURL,
		client:   sqs.NewFromConfig(cfg),
	}, nil
}

func (s *sqsSink) ID() string { return "sqs:" + s.queueURL }

func (s *sqsSink) Deliver(ctx context.Context, records []domain.CRMRecord) error {
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", rec.ID, err)
		}

		input := &sqs.SendMessageInput{
			QueueUrl:    aws.String(s.queueURL),
			MessageBody: aws.String(string(payload)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"category": {
					DataType:    aws.String("String"),
					StringValue: aws.String(defaultIfEmpty(rec.Category, "general")),
				},
			},
		}
		if _, err := s.client.SendMessage(ctx, input); err != nil {
			return fmt.Errorf("send record %d to sqs: %w", rec.ID, err)
		}
	}
	return nil
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
