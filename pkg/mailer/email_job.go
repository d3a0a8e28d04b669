package mailer

import (
	"errors"
	"fmt"

	"github.com/oksasatya/pfa-screening-api/config"
	mailtpl "github.com/oksasatya/pfa-screening-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or a raw Subject with Text and/or HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "verify_email" or "reset_otp"
	Data     map[string]any `json:"data,omitempty"`
}

var errEmptyJob = errors.New("email job has neither template nor subject")

// Render resolves the final subject and bodies of the job.
func (j EmailJob) Render() (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", errEmptyJob
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	data := j.Data
	if data == nil {
		data = map[string]any{}
	}
	if v, ok := data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		data["Email"] = j.To
	}
	return mailtpl.Render(j.Template, data)
}

// NewVerificationJob builds the job carrying the email verification link.
func NewVerificationJob(cfg *config.Config, email, token string) EmailJob {
	return EmailJob{
		To:       email,
		Template: mailtpl.VerifyEmail,
		Data:     mailtpl.NewVerifyEmailData(cfg, email, cfg.VerifyLink(token)),
	}
}

// NewOTPJob builds the job carrying a password reset code.
func NewOTPJob(cfg *config.Config, email, otp string) EmailJob {
	return EmailJob{
		To:       email,
		Template: mailtpl.ResetOTP,
		Data:     mailtpl.NewResetOTPData(cfg, email, otp),
	}
}
