package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService defines the interface for sending verification emails
type EmailService interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, baseURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

// SendVerificationEmail sends a verification link to a freshly
// registered address. The link path matches the dashboard's
// /verify-email route.
func (s *AWSSESEmailService) SendVerificationEmail(ctx context.Context, email, token string) error {
	verificationLink := fmt.Sprintf("%s/verify-email/%s", s.baseURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <p>Welcome!</p>
    <p>Thank you for creating an account. To complete your registration, please verify your email address by clicking the link below:</p>
    <p><a href="%s">Verify Email Address</a></p>
    <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
    <p>If you didn't sign up for this account, you can ignore this email. Your email address will not be verified.</p>
</body>
</html>
`, verificationLink, verificationLink)

	textBody := fmt.Sprintf(`Welcome!

Thank you for creating an account. To complete your registration, please verify your email address by opening the link below:

%s

If you didn't sign up for this account, you can ignore this email. Your email address will not be verified.
`, verificationLink)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Please verify your email address"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send verification email via SES",
			slog.String("email", email),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("verification email sent",
		slog.String("email", email),
		slog.String("message_id", *result.MessageId))

	return nil
}
