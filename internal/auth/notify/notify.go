package notify

import (
	"context"
	"log/slog"

	"github.com/driftlock/authgate/pkg/slogx"
)

// Notifier delivers one-time reset codes to users out of band.
type Notifier interface {
	// SendPasswordReset delivers the reset code to the given address.
	SendPasswordReset(ctx context.Context, to, name, code string) error
}

// LogNotifier writes the reset code to the structured log instead of
// delivering it. It is the default when no SMTP host is configured,
// which keeps local development working without a mail server.
type LogNotifier struct{}

func (LogNotifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	slogx.FromContext(ctx).Info("password reset code issued",
		slog.String("to", to),
		slog.String("code", code),
	)
	return nil
}
