package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailNotifier sends approval notices through the Gmail API. Sends are
// fire-and-forget from the transition manager's point of view.
type GmailNotifier struct {
	gmailService *gmail.Service
	from         string
	logger       logger.Logger
}

// NewGmailNotifier creates a new Gmail notifier
func NewGmailNotifier(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (*GmailNotifier, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailNotifier{
		gmailService: service,
		from:         from,
		logger:       logger,
	}, nil
}

// SendApprovalNotice emails the applicant that their certificate is ready
func (n *GmailNotifier) SendApprovalNotice(ctx context.Context, app *entity.Application, cert *entity.Certificate) error {
	if app.ContactEmail == "" {
		n.logger.Warn("Application has no contact email, skipping notice", "applicationId", app.ID)
		return nil
	}

	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour tourism frontliner registration has been approved.\r\n"+
			"Certificate %s (%s) is valid until %s.\r\n\r\n"+
			"You may now download your certificate from the portal.\r\n",
		app.FullName, cert.ID, cert.Type, cert.ExpiresAt.Format("January 2, 2006"),
	)

	raw := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Tourism Certificate %s Issued\r\n"+
			"Content-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.from, app.ContactEmail, cert.ID, body,
	)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := n.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send approval notice for %s: %w", app.ID, err)
	}

	n.logger.Info("Approval notice sent", "applicationId", app.ID, "certificateId", cert.ID)
	return nil
}
