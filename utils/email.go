// utils/email.go
package utils

import (
	"fmt"
	"os"

	"go-marketplace/models"

	"github.com/keighl/postmark"
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

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("http://localhost:%s/verify?token=%s", os.Getenv("PORT"), token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderPlacedEmail notifies the customer that their order was placed.
func (es *EmailService) SendOrderPlacedEmail(toEmail string, order *models.Order) error {
	subject := "Order Confirmation - Marketplace"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully and is awaiting the seller's confirmation.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		order.CheckoutInfo.FirstName,
		order.ID.Hex(),
		order.TotalAmount,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderStatusEmail notifies the customer about an order status change.
func (es *EmailService) SendOrderStatusEmail(toEmail string, order *models.Order) error {
	subject := "Order Status Updated - Marketplace"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order (ID: %s) is now <strong>%s</strong>.<br><br>Thank you for shopping with us!",
		order.CheckoutInfo.FirstName,
		order.ID.Hex(),
		order.Status,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
