package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either a Template with Data, or a raw Subject with Text/HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "report_received", "listing_unlisted"
	Data     map[string]any `json:"data,omitempty"`
}
