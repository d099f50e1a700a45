package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

const utf8Charset = "UTF-8"

// SESConfig holds the static credentials and the verified sending identity.
// SenderName, when set, is shown as the From display name.
type SESConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Sender          string
	SenderName      string
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient delivers Messages through AWS SESv2.
type SESClient struct {
	api  sesAPI
	from string
}

func NewSESClient(cfg SESConfig) (*SESClient, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Region == "" {
		return nil, fmt.Errorf("ses credentials and region are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESClient(sesv2.NewFromConfig(awsCfg), cfg.Sender, cfg.SenderName)
}

func newSESClient(api sesAPI, sender, senderName string) (*SESClient, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(sender))
	if err != nil {
		return nil, fmt.Errorf("ses sender is invalid: %w", err)
	}
	if name := strings.TrimSpace(senderName); name != "" {
		addr.Name = name
	}
	return &SESClient{api: api, from: addr.String()}, nil
}

// Send delivers msg from the configured sender. ReplyTo is optional.
func (c *SESClient) Send(ctx context.Context, msg Message) error {
	if c == nil || c.api == nil {
		return fmt.Errorf("ses client is not initialized")
	}
	recipient := strings.TrimSpace(msg.To)
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(utf8Charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(utf8Charset)},
				},
			},
		},
		FromEmailAddress: aws.String(c.from),
	}
	if replyTo := strings.TrimSpace(msg.ReplyTo); replyTo != "" {
		input.ReplyToAddresses = []string{replyTo}
	}

	out, err := c.api.SendEmail(ctx, input)
	if err != nil {
		log.Error().
			Err(err).
			Str("recipient", recipient).
			Str("subject", msg.Subject).
			Time("timestamp", time.Now().UTC()).
			Msg("Failed to send SES email")
		return fmt.Errorf("send ses email: %w", err)
	}
	if out != nil && out.MessageId != nil {
		log.Debug().Str("message_id", *out.MessageId).Msg("SES accepted email")
	}
	return nil
}
