package messaging

import (
	"context"
	"encoding/json"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/logger"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const EventBookingConfirmed = "booking.confirmed"

// BookingEvent is the message body consumers read from the queue.
type BookingEvent struct {
	EventType    string    `json:"event_type"`
	BookingID    string    `json:"booking_id"`
	SessionID    string    `json:"session_id"`
	QuoteID      string    `json:"quote_id,omitempty"`
	Package      string    `json:"package"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	Company      string    `json:"company,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// RetryConfig bounds the exponential backoff around SendMessage.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries:      3,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	MaxElapsedTime:  10 * time.Second,
}

type SQSPublisher struct {
	client   sqsAPI
	queueURL string
	retry    RetryConfig
}

var _ interfaces.IBookingEventPublisher = (*SQSPublisher)(nil)

func NewSQSPublisher(client sqsAPI, queueURL string, retry RetryConfig) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL, retry: retry}
}

// NewSQSClient builds the client. A non-empty endpoint targets LocalStack.
func NewSQSClient(cfg aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func (p *SQSPublisher) PublishBookingConfirmed(ctx context.Context, b entities.Booking) error {
	body, err := json.Marshal(BookingEvent{
		EventType:    EventBookingConfirmed,
		BookingID:    b.ID,
		SessionID:    b.SessionID,
		QuoteID:      b.QuoteID,
		Package:      string(b.Package),
		Date:         b.Date,
		Time:         b.Time,
		ContactName:  b.Contact.Name,
		ContactEmail: b.Contact.Email,
		Company:      b.Contact.Company,
		OccurredAt:   b.CreatedAt.UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal booking event")
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventBookingConfirmed),
			},
			"BookingID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(b.ID),
			},
		},
	}

	attempt := 0
	var messageID string
	operation := func() error {
		attempt++
		out, err := p.client.SendMessage(ctx, input)
		if err != nil {
			logger.Warn("[booking][sqs] send failed",
				zap.String("booking_id", b.ID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		messageID = aws.ToString(out.MessageId)
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.retry.InitialInterval
	expBackoff.MaxInterval = p.retry.MaxInterval
	expBackoff.MaxElapsedTime = p.retry.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, p.retry.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return errors.Wrapf(err, "publish %s for booking %s", EventBookingConfirmed, b.ID)
	}

	logger.Info("[booking][sqs] event published",
		zap.String("booking_id", b.ID),
		zap.String("message_id", messageID),
	)
	return nil
}
