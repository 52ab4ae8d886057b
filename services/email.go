package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/expensetrackr/expense-api/utils"
)

const resendURL = "https://api.resend.com/emails"

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// EmailService sends transactional mail through the Resend API. The API key
// and from-address are injected once at construction rather than read from
// the environment per send.
type EmailService struct {
	apiKey    string
	fromEmail string
	client    *http.Client
}

func NewEmailService(apiKey, fromEmail string) *EmailService {
	if fromEmail == "" {
		fromEmail = "Expense Tracker <noreply@expensetracker.com>"
	}
	return &EmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendResetKey mails a password reset key. Without an API key the key is
// surfaced in the logs instead so the flow stays usable in development.
// Delivery failures are diagnostics only; the key is already durable.
func (s *EmailService) SendResetKey(toEmail, key string) error {
	if s.apiKey == "" {
		log.Printf("⚠️ RESEND_API_KEY not set, reset key for %s: %s", utils.MaskEmail(toEmail), key)
		return nil
	}

	htmlBody := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #667eea;">Password Reset Request</h2>
    <p>You have requested to reset your password for your Expense Tracker account.</p>
    <p>Please use the following reset key to complete the password reset process:</p>
    <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin: 0; color: #2d3748; font-size: 24px; letter-spacing: 2px; text-align: center;">
            %s
        </h3>
    </div>
    <p>This reset key will expire in 1 hour.</p>
    <p>If you did not request this password reset, please ignore this email.</p>
</div>
	`, key)

	err := s.send(toEmail, "Password Reset Request - Expense Tracker", htmlBody)
	if err != nil {
		log.Printf("❌ Failed to send reset email to %s: %v", utils.MaskEmail(toEmail), err)
		// Surface the key in the logs so the user can still be helped.
		log.Printf("⚠️ Reset key for %s: %s", utils.MaskEmail(toEmail), key)
	}
	return err
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	payload := emailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", resendURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email API returned status: %d", resp.StatusCode)
	}

	log.Printf("✅ Email sent successfully to %s", utils.MaskEmail(to))
	return nil
}
