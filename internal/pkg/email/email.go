package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stjtech/admissions/internal/app/models"
)

// Service sends applicant-facing email.
type Service interface {
	SendConfirmationEmail(app *models.Application) error
}

// SMTPConfig holds configuration for the SMTP server.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

type serviceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewService creates a new email Service.
func NewService(config SMTPConfig, logger zerolog.Logger) Service {
	return &serviceImpl{config: config, logger: logger}
}

// SendConfirmationEmail sends the application acknowledgment with the
// reference number. Without SMTP credentials it logs the email instead
// of sending, so development setups work out of the box.
func (s *serviceImpl) SendConfirmationEmail(app *models.Application) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", app.PersonalInfo.Email).
			Str("reference", app.ReferenceNumber).
			Msg("SMTP credentials not configured - confirmation email not sent")
		return nil
	}

	subject := "Application Confirmation - St Joseph's Technical Institute"
	body := confirmationBody(app)

	return s.sendPlainTextEmail(app.PersonalInfo.Email, subject, body)
}

func confirmationBody(app *models.Application) string {
	programme := app.ProgrammeInfo.Programme
	if title, ok := models.Programmes[programme]; ok {
		programme = title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", app.PersonalInfo.FirstName)
	b.WriteString("Thank you for submitting your application to St Joseph's Technical Institute for the Deaf.\n\n")
	fmt.Fprintf(&b, "Your Reference Number: %s\n", app.ReferenceNumber)
	fmt.Fprintf(&b, "Submitted on: %s\n", app.SubmittedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Applied Programme: %s\n\n", programme)
	b.WriteString("We have received your application and will review it carefully. ")
	b.WriteString("You will be contacted within 7 business days regarding the status of your application.\n\n")
	b.WriteString("If you have any questions, please contact us at:\n")
	b.WriteString("Email: info@stjosephstechnical.ac.ke\n")
	b.WriteString("Phone: +254 (0) 123 456 789\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString("St Joseph's Technical Institute for the Deaf\n")
	b.WriteString("Nyang'oma\n")
	return b.String()
}

func (s *serviceImpl) sendPlainTextEmail(toEmail, subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(msg.String())); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{ServerName: s.config.Host}
	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
