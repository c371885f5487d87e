package mailer

import "log"

// DevService logs mails instead of sending them. Used when no MailerSend
// API key is configured.
type DevService struct{}

func NewDevService() *DevService {
	return &DevService{}
}

func (d *DevService) SendAdminApprovalRequest(name, email, approveURL, rejectURL string) error {
	log.Printf("[DEV MAIL] admin approval request for %s <%s>: approve=%s reject=%s", name, email, approveURL, rejectURL)
	return nil
}

func (d *DevService) SendOneTimePassword(name, email, password string) error {
	log.Printf("[DEV MAIL] one-time password for %s <%s>: %s", name, email, password)
	return nil
}

func (d *DevService) SendConfirmationLink(name, email, confirmURL string) error {
	log.Printf("[DEV MAIL] confirmation link for %s <%s>: %s", name, email, confirmURL)
	return nil
}
