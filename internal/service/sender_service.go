package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkshare/internal/entities"
)

// SenderService is the outbound messaging sink. Every send is best-effort:
// failures are logged and surfaced to the caller, which decides whether to
// retry later. The engine never blocks on delivery.
type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingSMS texts the customer about a booking status change.
func (s *SenderService) SendBookingSMS(n entities.BookingNotification) {
	message := fmt.Sprintf("ParkShare: booking %s for spot %s is %s.\nFrom: %s\nTo: %s\nTotal: %.2f",
		n.BookingCode, n.SpotNumber, n.Status,
		n.StartTime.Format("02.01.2006 15:04"),
		n.EndTime.Format("02.01.2006 15:04"),
		n.TotalPrice,
	)
	if err := sendSMS(n.RecipientPhone, message); err != nil {
		log.Printf("Booking %s: status SMS to %s failed: %v", n.BookingCode, n.RecipientPhone, err)
	}
}

// SendMatchSMS texts a user that a window matching their interest request
// appeared.
func (s *SenderService) SendMatchSMS(n entities.MatchNotification) error {
	message := fmt.Sprintf("ParkShare: spot %s is now free %s-%s on %s (%.2f/hour). Book it before someone else does.",
		n.SpotNumber,
		n.StartTime.Format("15:04"),
		n.EndTime.Format("15:04"),
		n.StartTime.Format("02.01.2006"),
		n.PricePerHour,
	)
	return sendSMS(n.RecipientPhone, message)
}

// SendBookingEmail mails a booking status change via SendGrid.
func (s *SenderService) SendBookingEmail(toEmail string, n entities.BookingNotification) error {
	subject := fmt.Sprintf("Your ParkShare booking is %s - Code: %s", n.Status, n.BookingCode)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking at ParkShare is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Spot: %s\n"+
			"Address: %s\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Total: %.2f\n\n"+
			"Thank you for choosing ParkShare.",
		n.RecipientName, n.Status, n.BookingCode, n.SpotNumber, n.Address,
		n.StartTime.Format("02 Jan 2006 15:04"),
		n.EndTime.Format("02 Jan 2006 15:04"),
		n.TotalPrice,
	)
	return sendEmailWithSendGrid(toEmail, n.RecipientName, subject, body)
}

func sendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "ParkShare"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials not fully configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("Destination number %q is not E.164, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
