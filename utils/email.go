// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/keighl/postmark"

	"pos-console/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendProformaEmail sends a proforma invoice summary to the customer.
func (es *EmailService) SendProformaEmail(toEmail string, rec models.SaleRecord) error {
	subject := "Your Proforma Invoice"

	var lines strings.Builder
	for _, item := range rec.Items {
		fmt.Fprintf(&lines, "<li>%s &times; %d = %s</li>", item.ProductID, item.Quantity, item.Total)
	}

	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Please find your proforma invoice below. It is valid until <strong>%s</strong> and can be converted into a sale at any time before then.<br><br><ul>%s</ul><br>Subtotal: %s<br>Discount: %s<br>Tax: %s<br><strong>Total: %s</strong><br><br>Thank you for your business!",
		rec.ExpiryDate,
		lines.String(),
		rec.Subtotal,
		rec.DiscountAmount,
		rec.Tax,
		rec.Total,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
