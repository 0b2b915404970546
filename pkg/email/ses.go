package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesMailer struct {
	from   string
	client sesAPI
}

func newSES(ctx context.Context, cfg Config) (Mailer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(cfg.SES.Region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("email: load aws config: %w", err)
	}

	return &sesMailer{
		from:   cfg.From,
		client: sesv2.NewFromConfig(awsCfg),
	}, nil
}

func (m *sesMailer) Provider() string { return ProviderSES }

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrMissingRecipient
	}

	var body types.Body
	if msg.HTML != "" {
		body.Html = &types.Content{Data: &msg.HTML}
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: &msg.Text}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &m.from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body:    &body,
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return classifySES(fmt.Errorf("ses send: %w", err))
	}
	return nil
}

func classifySES(err error) error {
	var tooMany *types.TooManyRequestsException
	var limit *types.LimitExceededException
	if errors.As(err, &tooMany) || errors.As(err, &limit) {
		return temporary(err)
	}
	return classifyText(err)
}
