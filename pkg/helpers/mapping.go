package helpers

import (
	"fmt"

	"github.com/oksasatya/user-management/pkg/mailer"
)

// SubjectFor returns the mail subject of an account event template.
func SubjectFor(template string) string {
	switch template {
	case mailer.UserCreated:
		return "Your account has been created"
	case mailer.PasswordChanged:
		return "Your password was changed"
	case mailer.UserDeleted:
		return "Your account has been removed"
	default:
		return "Account notification"
	}
}

// EnsureRecipient copies the job recipient into the template data.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}
