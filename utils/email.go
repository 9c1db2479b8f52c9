// utils/email.go
package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"go-storefront/models"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PostmarkMailer sends mail through Postmark.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// NewPostmarkMailer builds a Postmark mailer. A non-empty baseURL overrides the API host.
func NewPostmarkMailer(token, from, baseURL string) *PostmarkMailer {
	client := postmark.NewClient(token, "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &PostmarkMailer{client: client, from: from}
}

func (m *PostmarkMailer) Send(_ context.Context, to, subject, html string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
		TextBody: stripTags(html),
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	return nil
}

// SendGridMailer sends mail through SendGrid.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridMailer builds a SendGrid mailer. A non-empty host overrides the API host.
func NewSendGridMailer(apiKey, from, host string) *SendGridMailer {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &SendGridMailer{
		client: &sendgrid.Client{Request: req},
		from:   mail.NewEmail("Storefront", from),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), stripTags(html), html)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, html string) error {
	m.logger.Info("email", zap.String("to", to), zap.String("subject", subject), zap.String("body", html))
	return nil
}

// EmailService composes the storefront's transactional emails.
type EmailService struct {
	mailer Mailer
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(mailer Mailer) *EmailService {
	return &EmailService{mailer: mailer}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return es.mailer.Send(ctx, toEmail, subject, htmlContent)
}

// SendPasswordResetCode mails the one-time reset code.
func (es *EmailService) SendPasswordResetCode(ctx context.Context, toEmail, code string) error {
	htmlContent := fmt.Sprintf(
		"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>",
		code,
	)
	return es.SendEmail(ctx, toEmail, "Password Reset Code", htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(ctx context.Context, toEmail string, order models.Order) error {
	var items strings.Builder
	for _, it := range order.OrderItems {
		fmt.Fprintf(&items, "<li>%s x%d @ %.2f</li>", it.Name, it.Qty, it.Price)
	}
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed.<ul>%s</ul>Delivery: <strong>%s</strong> (%.2f)<br>Total Amount: <strong>%.2f</strong><br>Payment Method: <strong>%s</strong> (%s)",
		order.ID.Hex(),
		items.String(),
		order.DeliveryOption,
		order.ShippingPrice,
		order.TotalPrice,
		order.PaymentMethod,
		order.PaymentStatus,
	)
	return es.SendEmail(ctx, toEmail, "Order Confirmation", htmlContent)
}

// SendOrderStatusEmail tells the user their order was paid or delivered.
func (es *EmailService) SendOrderStatusEmail(ctx context.Context, toEmail string, order models.Order, status string) error {
	htmlContent := fmt.Sprintf("Your order (ID: %s) is now <strong>%s</strong>.", order.ID.Hex(), status)
	return es.SendEmail(ctx, toEmail, "Order "+status, htmlContent)
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
