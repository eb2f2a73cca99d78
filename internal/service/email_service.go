package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

// LogSender writes outgoing mail to the log instead of a wire, the
// development equivalent of a console mail backend.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender { return &LogSender{logger: logger} }

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("outgoing email", "to", to, "subject", subject, "body", body)
	return nil
}

// EmailService composes and dispatches the transactional mails. Sends run
// in the request foreground; a failed send is logged and swallowed so the
// triggering request still succeeds.
type EmailService struct {
	sender      MailSender
	frontendURL string
	logger      *slog.Logger
}

func NewEmailService(sender MailSender, frontendURL string, logger *slog.Logger) *EmailService {
	return &EmailService{sender: sender, frontendURL: frontendURL, logger: logger}
}

func (s *EmailService) SendResetPasswordEmail(ctx context.Context, to, token string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	body := "Dear user,\n" +
		"To reset your password, click on this link: " + resetURL + "\n" +
		"If you did not request any password resets, then ignore this email."
	s.send(ctx, to, "Reset password", body)
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, to, token string) {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	body := "Dear user,\n" +
		"To verify your email, click on this link: " + verifyURL + "\n" +
		"If you did not create an account, then ignore this email."
	s.send(ctx, to, "Email Verification", body)
}

func (s *EmailService) send(ctx context.Context, to, subject, body string) {
	if err := s.sender.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("failed to send email", "to", to, "subject", subject, "error", err)
		return
	}
	s.logger.Info("email sent", "to", to, "subject", subject)
}
