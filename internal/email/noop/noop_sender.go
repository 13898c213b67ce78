package noop

import (
	"context"
	"log"

	"billgen/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs download links to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendBillReadyEmail(_ context.Context, toEmail, toName, fileName, downloadURL string) error {
	log.Printf("[NOOP EMAIL] Bill documents for %s ready for %s (%s): %s", fileName, toName, toEmail, downloadURL)
	return nil
}
