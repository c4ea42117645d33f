package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"gigbook/internal/entities"
)

// ErrInvalidRecipient distinguishes a bad address from a transport
// failure.
var ErrInvalidRecipient = errors.New("invalid recipient address")

var templates = template.Must(template.New("notifications").Parse(`
{{define "booking-confirmation"}}
<h1>Your booking is in</h1>
<p>You are booked for {{.EventTitle}} on {{.Date}}.</p>
<p>Booking reference: {{.BookingID}}</p>
<p>Present this code at the door: <img src="{{.QRCodeURL}}" alt="admission code"/></p>
{{end}}

{{define "new-booking-creator"}}
<h1>New booking</h1>
<p>{{.CustomerName}} booked {{.EventTitle}} for {{.Date}}.</p>
<p>Booking reference: {{.BookingID}}</p>
{{end}}

{{define "booking-confirmed"}}
<h1>Booking confirmed</h1>
<p>Hi {{.CustomerName}}, your booking {{.BookingID}} is now {{.Status}}.</p>
{{end}}

{{define "booking-cancelled"}}
<h1>Booking cancelled</h1>
<p>Hi {{.CustomerName}}, your booking {{.BookingID}} has been {{.Status}}.</p>
{{end}}

{{define "booking-completed"}}
<h1>Thanks for celebrating with us</h1>
<p>Hi {{.CustomerName}}, your booking {{.BookingID}} is {{.Status}}.</p>
{{end}}
`))

type sendMailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendMailResponse struct {
	MessageID string `json:"message_id"`
}

// MailerClient dispatches notification emails through the mail gateway.
type MailerClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewMailerClient(baseURL string) *MailerClient {
	return &MailerClient{
		httpClient: newHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Send renders the job's template and dispatches it, returning the
// transport message id.
func (c *MailerClient) Send(ctx context.Context, job entities.NotificationJob) (string, error) {
	var html bytes.Buffer
	if err := templates.ExecuteTemplate(&html, job.TemplateID, job.TemplateData); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", job.TemplateID, err)
	}

	body, err := json.Marshal(sendMailRequest{
		To:      job.Recipient,
		Subject: job.Subject,
		HTML:    html.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("%w: %s", ErrInvalidRecipient, job.Recipient)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	var sent sendMailResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return "", fmt.Errorf("failed to decode mail response: %w", err)
	}

	return sent.MessageID, nil
}
