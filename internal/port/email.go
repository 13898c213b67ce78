package port

import "context"

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendBillReadyEmail(ctx context.Context, toEmail, toName, fileName, downloadURL string) error
}
