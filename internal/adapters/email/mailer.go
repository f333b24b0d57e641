package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventplanner/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "ses" sends through AWS SES;
// "noop" or anything unrecognized logs instead of sending, which keeps local
// development working without credentials.
func NewMailer(config MailerConfig) (domain.Mailer, error) {
	switch config.Provider {
	case "ses":
		return newSESMailer(config)
	case "noop":
		return &noopMailer{}, nil
	default:
		log.Printf("[MAILER] Unknown email provider %q, using noop", config.Provider)
		return &noopMailer{}, nil
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func newSESMailer(config MailerConfig) (*sesMailer, error) {
	if config.FromAddress == "" {
		return nil, fmt.Errorf("ses mailer requires a from address")
	}
	if config.SES.InsecureSkipVerify {
		log.Printf("[MAILER] WARNING: TLS certificate verification is disabled for SES. Use only in development.")
	}
	awsCfg := aws.Config{
		Region: config.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.SES.AccessKeyID,
				config.SES.SecretAccessKey,
				"",
			),
		),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	}
	return &sesMailer{
		client:      ses.NewFromConfig(awsCfg),
		fromAddress: config.FromAddress,
		fromName:    config.FromName,
	}, nil
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = utf8Content(html)
	}
	if text != "" {
		input.Message.Body.Text = utf8Content(text)
	}

	result, err := s.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	log.Printf("[MAILER] Email sent via SES. MessageID: %s", aws.ToString(result.MessageId))
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String("UTF-8"),
	}
}

// noopMailer logs instead of sending.
type noopMailer struct{}

func (n *noopMailer) Send(to, subject, html, text string) error {
	log.Printf("[MAILER] Email would be sent (noop). to=%s subject=%q", to, subject)
	return nil
}
