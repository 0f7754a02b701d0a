package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"smokey-backend/internal/models"
	"smokey-backend/internal/utils"
)

// EmailService handles email sending functionality
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
}

// NewEmailService creates a new email service. When SMTP is not configured
// the service logs what it would have sent instead of failing, so local
// development does not need a mail account.
func NewEmailService(host, port, username, password string) *EmailService {
	// Trim quotes from password if present
	if len(password) >= 2 && password[0] == '"' && password[len(password)-1] == '"' {
		password = password[1 : len(password)-1]
	}

	return &EmailService{
		smtpHost:     host,
		smtpPort:     port,
		smtpUsername: username,
		smtpPassword: password,
		fromEmail:    username,
	}
}

func (s *EmailService) configured() bool {
	return s.smtpHost != "" && s.smtpPort != "" && s.smtpUsername != "" && s.smtpPassword != ""
}

// SendReviewNotification tells the owner a new review is waiting for
// moderation
func (s *EmailService) SendReviewNotification(toEmail string, testimonial *models.Testimonial) error {
	if toEmail == "" {
		return fmt.Errorf("recipient email is required")
	}

	subject := fmt.Sprintf("Smokey's - New review from %s (%d/5)", testimonial.Name, testimonial.Rating)
	body := fmt.Sprintf(
		"A new review just came in and is waiting for approval.\r\n\r\n"+
			"Name: %s\r\nEvent: %s\r\nRating: %s\r\n\r\n%s\r\n\r\n"+
			"Approve it from the admin dashboard to publish it on the site.\r\n",
		testimonial.Name, testimonial.Event, strings.Repeat("★", testimonial.Rating), testimonial.Quote,
	)

	return s.send(toEmail, subject, body)
}

// SendOrderConfirmation sends the customer a summary of their order
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}

	var lines strings.Builder
	for _, item := range order.Items {
		lines.WriteString(fmt.Sprintf("  %d x %s - %s\r\n", item.Quantity, item.Name, utils.FormatCurrency(item.Price)))
		for _, addon := range item.Addons {
			lines.WriteString(fmt.Sprintf("      + %s - %s\r\n", addon.Name, utils.FormatCurrency(addon.Price)))
		}
	}

	subject := "Smokey's - We received your order"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nThanks for your order! Here is what we have down for %s:\r\n\r\n%s\r\n"+
			"Total: %s\r\nPlaced: %s SGT\r\n\r\nWe will be in touch to confirm the details.\r\n\r\nSmokey's Catering\r\n",
		order.CustomerName, order.EventDate, lines.String(), utils.FormatCurrency(order.TotalAmount),
		utils.FormatTimeSGT(order.CreatedAt, "2 Jan 2006 3:04 PM"),
	)

	return s.send(order.CustomerEmail, subject, body)
}

func (s *EmailService) send(toEmail, subject, body string) error {
	if !s.configured() {
		fmt.Printf("SMTP not configured, skipping email to %s: %s\n", toEmail, subject)
		return nil
	}

	message := fmt.Sprintf("From: %s\r\n", s.fromEmail)
	message += fmt.Sprintf("To: %s\r\n", toEmail)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
