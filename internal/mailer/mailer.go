package mailer

import (
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, htmlBody string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// Nop logs instead of sending; used in dev and tests.
type Nop struct{}

func (Nop) Send(to, subject, _ string) error {
	slog.Debug("mail suppressed", "to", to, "subject", subject)
	return nil
}

func Verification(username, link string) string {
	return fmt.Sprintf(`<h1>Welcome to Community Learning Hub, %s!</h1>
<p>Please verify your email address by clicking the link below:</p>
<p><a href=%q>Verify email</a></p>
<p>The link expires in 24 hours.</p>`, username, link)
}

func UnlockReceipt(username, title string, price int64) string {
	return fmt.Sprintf(`<h1>Content unlocked</h1>
<p>Hi %s, you spent %d credit points to unlock <strong>%s</strong>.</p>`, username, price, title)
}
