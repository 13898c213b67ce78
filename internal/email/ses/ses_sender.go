package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"billgen/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendBillReadyEmail(ctx context.Context, toEmail, toName, fileName, downloadURL string) error {
	subject := fmt.Sprintf("Bill documents ready: %s", fileName)
	htmlBody := buildBillReadyHTML(toName, fileName, downloadURL)
	textBody := fmt.Sprintf("Hi %s,\n\nThe bill documents for %s have been generated. Download them here:\n%s\n\nThe link expires after a limited time.", toName, fileName, downloadURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildBillReadyHTML(name, fileName, downloadURL string) string {
	name, fileName, link := html.EscapeString(name), html.EscapeString(fileName), html.EscapeString(downloadURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Bill documents ready</h2>
  <p>Hi %s,</p>
  <p>The first page, deviation statement, extra items, note sheet and certificate for <strong>%s</strong> have been generated.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #212529; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download bundle</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">The link expires after a limited time.</p>
</body>
</html>`, name, fileName, link, link)
}
