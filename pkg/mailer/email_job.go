package mailer

// Account event templates carried in EmailJob.Template.
const (
	UserCreated     = "user_created"
	PasswordChanged = "password_changed"
	UserDeleted     = "user_deleted"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// EventType tags the AMQP message with the template name.
func (j EmailJob) EventType() string {
	if j.Template == "" {
		return "raw"
	}
	return j.Template
}
