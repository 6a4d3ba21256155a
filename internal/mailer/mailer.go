package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/AlePlets/otasoft-auth/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending account lifecycle emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendConfirmationCode sends the account-confirmation code to a new user
func (s *Sender) SendConfirmationCode(to, username, code string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Confirm your account"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Welcome! Please confirm your account with the following code:\n\n"+
			"%s\n\n"+
			"The code expires in %s.\n"+
			"\nBest regards,\nOtasoft",
		username, code, s.cfg.ConfirmTTL,
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendPasswordReset sends a forgot-password token to the account's email
func (s *Sender) SendPasswordReset(to, username, token string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Password reset requested"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"A password reset was requested for your account. Use the token below "+
			"to set a new password:\n\n"+
			"%s\n\n"+
			"The token expires in %s. If you did not request a reset, ignore this email.\n"+
			"\nBest regards,\nOtasoft",
		username, token, s.cfg.ResetTokenTTL,
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
