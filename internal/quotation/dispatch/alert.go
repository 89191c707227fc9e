package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"quotation-workers/internal/common/aws"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
)

// Alerter raises an operational alert when only some of a submission's
// messages were delivered.
type Alerter interface {
	PartialFailure(ctx context.Context, referenceNumber string, outcomes []models.DispatchOutcome) error
}

// SNSAPI is satisfied by *aws.SNSClient.
type SNSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

var _ SNSAPI = (*aws.SNSClient)(nil)

type alertPayload struct {
	Event           string                   `json:"event"`
	ReferenceNumber string                   `json:"referenceNumber"`
	Outcomes        []models.DispatchOutcome `json:"outcomes"`
	RaisedAt        time.Time                `json:"raisedAt"`
}

// SNSAlerter publishes alerts to an SNS topic.
type SNSAlerter struct {
	client   SNSAPI
	topicARN string
	logger   logger.Logger
}

func NewSNSAlerter(client SNSAPI, topicARN string, log logger.Logger) *SNSAlerter {
	return &SNSAlerter{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "sns-alerter"}),
	}
}

func (a *SNSAlerter) PartialFailure(ctx context.Context, referenceNumber string, outcomes []models.DispatchOutcome) error {
	body, err := json.Marshal(alertPayload{
		Event:           "quotation.partial_dispatch",
		ReferenceNumber: referenceNumber,
		Outcomes:        outcomes,
		RaisedAt:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	_, err = a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(a.topicARN),
		Subject:  awssdk.String(fmt.Sprintf("Quotation %s partially dispatched", referenceNumber)),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: awssdk.String("String"), StringValue: awssdk.String("quotation.partial_dispatch")},
		},
	})
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}

	a.logger.Warn("Partial dispatch alert published", map[string]interface{}{
		"referenceNumber": referenceNumber,
	})
	return nil
}

// LogAlerter only logs; used when no alert topic is configured.
type LogAlerter struct {
	logger logger.Logger
}

func NewLogAlerter(log logger.Logger) *LogAlerter {
	return &LogAlerter{logger: log}
}

func (a *LogAlerter) PartialFailure(_ context.Context, referenceNumber string, outcomes []models.DispatchOutcome) error {
	a.logger.Error("Quotation partially dispatched", map[string]interface{}{
		"referenceNumber": referenceNumber,
		"outcomes":        outcomes,
	})
	return nil
}
