package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTPNotifier delivers reset codes by plain SMTP. Auth is optional;
// when Username is empty the send is unauthenticated, which suits the
// usual docker-compose mailhog setup.
type SMTPNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)

	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}

	msg := n.buildMessage(to, name, code)

	// net/smtp has no context support; honour cancellation by checking
	// before the dial rather than mid-send.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := smtp.SendMail(addr, auth, n.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(to, name, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Your password reset code\r\n")
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), n.Host)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n")
	fmt.Fprintf(&b, "\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Your password reset code is: %s\r\n\r\n", code)
	fmt.Fprintf(&b, "The code expires in 10 minutes. If you did not request a reset you can ignore this email.\r\n")
	return []byte(b.String())
}
