package service

import (
	"context"
	"log/slog"

	"github.com/taskhubhq/taskhub/pkg/slogx"
)

// Mailer delivers workspace invitation links. Delivery is a black box to the
// rest of the service; failures are reported but an invite is still created.
type Mailer interface {
	SendInvite(ctx context.Context, email, workspaceName, link string) error
}

// LogMailer is the default Mailer. It writes the invitation to the log
// instead of sending anything, which is all local development needs.
type LogMailer struct{}

func (LogMailer) SendInvite(ctx context.Context, email, workspaceName, link string) error {
	slogx.FromContext(ctx).Info("workspace invitation",
		slog.String("email", email),
		slog.String("workspace", workspaceName),
		slog.String("link", link),
	)
	return nil
}
