package notify

import (
	"context"
	"fmt"
	"time"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes notifications to a topic that fans out to the
// user's devices.
type SNSNotifier struct {
	client   SNSService
	topicARN string
	logger   logger.Logger
}

func NewSNSNotifier(client SNSService, topicARN string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN, logger: logger.Named(log, "notify.sns")}
}

func (n *SNSNotifier) Notify(ctx context.Context, severity Severity, message string) error {
	notificationID := uuid.New().String()
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(ensureMessage(message)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"severity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(severity)),
			},
			"notificationId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(notificationID),
			},
		},
	})
	if err != nil {
		n.logger.Error("sns publish failed", map[string]interface{}{
			"error":          err,
			"notificationId": notificationID,
		})
		return errors.NewNotificationSendFailedError("sns", err)
	}
	return nil
}

// SESMailer sends the application confirmation email.
type SESMailer struct {
	client    SESService
	fromEmail string
	logger    logger.Logger
}

func NewSESMailer(client SESService, fromEmail string, log logger.Logger) *SESMailer {
	return &SESMailer{client: client, fromEmail: fromEmail, logger: logger.Named(log, "notify.ses")}
}

func (m *SESMailer) SendApplicationConfirmation(ctx context.Context, to, jobID string) error {
	if to == "" {
		return nil
	}
	subject := "Application Submitted Successfully"
	body := fmt.Sprintf("Thank you! Your application for job %s was submitted on %s.",
		jobID, time.Now().UTC().Format("02 Jan 2006"))

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.fromEmail),
	})
	if err != nil {
		m.logger.Error("confirmation email failed", map[string]interface{}{
			"error": err,
			"jobId": jobID,
		})
		return errors.NewNotificationSendFailedError("ses", err)
	}
	return nil
}
