package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/models"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to send email via Brevo: %s", string(bodyBytes))
	}

	return nil
}

// SendEmail is fire-and-forget: notification failures are logged and never
// block or reverse a booking state change.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}

	log.Printf("✅ Email sent successfully to %s", toEmail)
}

func bookingDetailsHTML(b *models.Booking) string {
	return fmt.Sprintf(
		"<p><b>Reference:</b> %s<br><b>Court:</b> %s<br><b>Date:</b> %s<br><b>Time:</b> %s – %s<br><b>Players:</b> %d</p>",
		b.Reference,
		b.Court.Name,
		b.Date.Format("Monday, 2 January 2006"),
		b.StartTime.Format("15:04"),
		b.EndTime.Format("15:04"),
		b.Players,
	)
}

func NotifyBookingCreated(b *models.Booking, paymentURL string) {
	body := "<h1>Reservation Received</h1>" + bookingDetailsHTML(b) +
		fmt.Sprintf("<p>Please complete your payment within 24 hours to confirm the booking: <a href='%s'>Pay now</a></p>", paymentURL)
	go SendEmail(b.CustomerName, b.CustomerEmail, "Your Court Reservation - "+b.Reference, body)
}

func NotifyBookingPaid(b *models.Booking) {
	body := "<h1>Booking Confirmed</h1>" + bookingDetailsHTML(b)
	if b.RequireDeposit {
		body += fmt.Sprintf("<p>Deposit received. Remaining balance of %.0f is due at the venue before your session ends.</p>", b.RemainingBalance())
	} else {
		body += "<p>Your booking is fully paid. See you on court!</p>"
	}
	go SendEmail(b.CustomerName, b.CustomerEmail, "Booking Confirmed - "+b.Reference, body)
}

func NotifyBookingCancelled(b *models.Booking) {
	body := "<h1>Booking Cancelled</h1>" + bookingDetailsHTML(b)
	if b.RefundAmount > 0 {
		method := "your original payment method"
		if b.RefundMethod != nil {
			method = *b.RefundMethod
		}
		body += fmt.Sprintf("<p>A refund of %.0f will be issued via %s within 5 business days.</p>", b.RefundAmount, method)
	} else {
		body += "<p>Per our cancellation policy, this booking was not eligible for a refund.</p>"
	}
	go SendEmail(b.CustomerName, b.CustomerEmail, "Booking Cancelled - "+b.Reference, body)
}
