package mailer

// Service sends the lifecycle notification emails. Implementations must be
// safe for concurrent use.
type Service interface {
	// SendAdminApprovalRequest asks the site operators to approve or
	// reject a pending admin registration.
	SendAdminApprovalRequest(name, email, approveURL, rejectURL string) error

	// SendOneTimePassword delivers a generated password to a freshly
	// approved admin. The plaintext is sent exactly once.
	SendOneTimePassword(name, email, password string) error

	// SendConfirmationLink sends a client the link that verifies their
	// address.
	SendConfirmationLink(name, email, confirmURL string) error
}
