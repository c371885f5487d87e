package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

const sendTimeout = 10 * time.Second

// MailerSendService sends mail through the MailerSend API.
type MailerSendService struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendService(apiKey, fromName, fromEmail string) *MailerSendService {
	return &MailerSendService{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
}

func (m *MailerSendService) SendAdminApprovalRequest(name, email, approveURL, rejectURL string) error {
	subject := "New admin registration awaiting approval"
	html := fmt.Sprintf(`
		<h2>Admin registration request</h2>
		<p>%s (%s) has requested an administrator account.</p>
		<p><a href="%s">Approve</a> &nbsp; <a href="%s">Reject</a></p>
		<p>The links expire in 5 minutes.</p>
	`, name, email, approveURL, rejectURL)
	text := fmt.Sprintf("%s (%s) has requested an administrator account.\n\nApprove: %s\nReject: %s",
		name, email, approveURL, rejectURL)

	return m.send(email, name, subject, text, html)
}

func (m *MailerSendService) SendOneTimePassword(name, email, password string) error {
	subject := "Your administrator account was approved"
	html := fmt.Sprintf(`
		<h2>Welcome, %s</h2>
		<p>Your administrator account has been approved. Sign in with this
		one-time password and change it immediately:</p>
		<p><strong>%s</strong></p>
	`, name, password)
	text := fmt.Sprintf("Hi %s,\n\nyour administrator account has been approved.\nOne-time password: %s\n\nPlease change it after your first login.",
		name, password)

	return m.send(email, name, subject, text, html)
}

func (m *MailerSendService) SendConfirmationLink(name, email, confirmURL string) error {
	subject := "Confirm your email address"
	html := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Please confirm your email address to activate your account:</p>
		<p><a href="%s">Confirm email</a></p>
		<p>The link expires in 5 minutes. If you did not register, ignore this email.</p>
	`, name, confirmURL)
	text := fmt.Sprintf("Hi %s,\n\nplease confirm your email address: %s\n\nThe link expires in 5 minutes.", name, confirmURL)

	return m.send(email, name, subject, text, html)
}

func (m *MailerSendService) send(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetText(text)
	msg.SetHTML(html)

	if _, err := m.client.Email.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	return nil
}
