package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// MessageSender is the part of *sqs.Client the queue sink needs.
type MessageSender interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink sends each event as one SQS message.
type SQSSink struct {
	client   MessageSender
	queueURL string
}

func NewSQSSink(client MessageSender, queueURL string) *SQSSink {
	return &SQSSink{client: client, queueURL: queueURL}
}

// NewSQSClient builds a client from the default AWS credential chain.
func NewSQSClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

func (s *SQSSink) Publish(ctx context.Context, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"kind": {DataType: aws.String("String"), StringValue: aws.String(m.Kind)},
		},
	}
	// FIFO queues keep one booking's events in order and drop redeliveries.
	if strings.HasSuffix(s.queueURL, ".fifo") {
		in.MessageGroupId = aws.String(m.BookingCode)
		in.MessageDeduplicationId = aws.String(m.ID)
	}
	if _, err := s.client.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("sqs send %s: %w", m.ID, err)
	}
	return nil
}
