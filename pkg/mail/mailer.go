package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Embedded email templates
var emailTemplates = map[string]string{
	"verify": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify account</title>
</head>
<body>
    <h2>Verify your account</h2>
    <p>Hello,</p>
    <p>Follow the link below to verify your account:</p>
    <p><a href="{{.Link}}">{{.Link}}</a></p>
    <p>If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>`,
	"reset": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Forgot password</title>
</head>
<body>
    <h2>Reset your password</h2>
    <p>Hello,</p>
    <p>Follow the link below to choose a new password:</p>
    <p><a href="{{.Link}}">{{.Link}}</a></p>
    <p>If you didn't request a reset, you can safely ignore this email.</p>
</body>
</html>`,
}

type templateData struct {
	Link string
}

// Mailer sends templated mails over SMTP.
type Mailer struct {
	dialer      *gomail.Dialer
	fromName    string
	fromEmail   string
	frontendURL string
}

var dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
	return d.DialAndSend(m)
}

// NewMailer creates a mailer. frontendURL is the base the verification
// and reset links point at.
func NewMailer(host string, port int, username, password, fromName, fromEmail, frontendURL string) *Mailer {
	return &Mailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		fromName:    fromName,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
	}
}

// SendVerificationEmail mails the account-verification link.
func (m *Mailer) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/verify/%s", m.frontendURL, token)
	return m.send(to, "Verify account", "verify", templateData{Link: link})
}

// SendPasswordResetEmail mails the password-reset link.
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, token)
	return m.send(to, "Forgot password", "reset", templateData{Link: link})
}

func (m *Mailer) send(to, subject, templateName string, data templateData) error {
	tmpl, ok := emailTemplates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}

	t, err := template.New(templateName).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.fromEmail, m.fromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := dialAndSend(m.dialer, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
