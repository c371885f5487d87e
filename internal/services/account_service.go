package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"klimarechner/internal/mailer"
	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
)

// LifecycleStatus is the outcome of a verify or reject transition. Repeating
// a transition on an already verified account is not an error, it reports
// StatusAlreadyVerified so link handlers can render the right page.
type LifecycleStatus string

const (
	StatusVerified        LifecycleStatus = "verified"
	StatusAlreadyVerified LifecycleStatus = "already_verified"
	StatusRejected        LifecycleStatus = "rejected"
)

// RegisterInput carries a registration request. Password is empty on the
// admin track; admins receive a generated one on approval.
type RegisterInput struct {
	Role      string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// LoginResult is a successful authentication: the account plus a signed
// 24-hour session token.
type LoginResult struct {
	Account *models.Account
	Token   string
}

// Links holds the endpoints embedded in lifecycle emails. Tokens are
// appended as a query parameter.
type Links struct {
	ApproveURL string
	RejectURL  string
}

// AccountService drives the registration, verification and login lifecycle
// for both admin and client accounts.
type AccountService interface {
	Register(ctx context.Context, input *RegisterInput) (*models.Account, error)
	Verify(ctx context.Context, email string) (*models.Account, LifecycleStatus, error)
	Reject(ctx context.Context, email string) (LifecycleStatus, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
	ConfirmPassword(ctx context.Context, email, password string) (*models.Account, error)
	Login(ctx context.Context, email, password string, rc *RequestContext) (*LoginResult, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context, role string, limit, offset int) ([]*models.Account, error)
}

type accountService struct {
	accounts  repositories.AccountRepository
	profiles  repositories.UserProfileRepository
	passwords PasswordService
	tokens    TokenService
	audit     AuditService
	mail      mailer.Service
	links     Links
}

func NewAccountService(
	accounts repositories.AccountRepository,
	profiles repositories.UserProfileRepository,
	passwords PasswordService,
	tokens TokenService,
	audit AuditService,
	mail mailer.Service,
	links Links,
) AccountService {
	return &accountService{
		accounts:  accounts,
		profiles:  profiles,
		passwords: passwords,
		tokens:    tokens,
		audit:     audit,
		mail:      mail,
		links:     links,
	}
}

// Register creates an unverified account. Clients choose their password and
// get a confirmation link; admins get none until an operator approves them.
func (s *accountService) Register(ctx context.Context, input *RegisterInput) (*models.Account, error) {
	account := &models.Account{
		Role:      input.Role,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	switch input.Role {
	case models.RoleAdmin:
		account.ForcePasswordChange = true
	default:
		if err := s.passwords.ValidateStrength(input.Password); err != nil {
			return nil, err
		}
		hash, err := s.passwords.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = &hash
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if !account.IsAdmin() {
		profile := &models.UserProfile{UserID: account.ID}
		if err := s.profiles.Create(ctx, profile); err != nil {
			log.Printf("Failed to create profile for account %d: %v", account.ID, err)
		}
	}

	s.sendRegistrationMail(account)

	s.audit.Record(ctx, &AuditEntry{
		UserID:       actorID(account),
		AdminID:      adminActorID(account),
		Action:       "register",
		ResourceType: "account",
		ResourceID:   resourceID(account.ID),
		Details:      models.JSONB{"email": account.Email, "role": account.Role},
	})
	return account, nil
}

// sendRegistrationMail dispatches the approval request or confirmation
// link. Mail failures are logged; the registration already succeeded.
func (s *accountService) sendRegistrationMail(account *models.Account) {
	approveToken, err := s.tokens.IssueActionToken(account, ActionVerify)
	if err != nil {
		log.Printf("Failed to issue verification token for %s: %v", account.Email, err)
		return
	}
	approveURL := fmt.Sprintf("%s?token=%s", s.links.ApproveURL, approveToken)

	if account.IsAdmin() {
		rejectToken, err := s.tokens.IssueActionToken(account, ActionReject)
		if err != nil {
			log.Printf("Failed to issue rejection token for %s: %v", account.Email, err)
			return
		}
		rejectURL := fmt.Sprintf("%s?token=%s", s.links.RejectURL, rejectToken)
		if err := s.mail.SendAdminApprovalRequest(account.FullName(), account.Email, approveURL, rejectURL); err != nil {
			log.Printf("Failed to send approval request for %s: %v", account.Email, err)
		}
		return
	}

	if err := s.mail.SendConfirmationLink(account.FullName(), account.Email, approveURL); err != nil {
		log.Printf("Failed to send confirmation link to %s: %v", account.Email, err)
	}
}

// Verify flips an account to verified. Admins additionally receive a
// generated one-time password that must be changed on first login.
func (s *accountService) Verify(ctx context.Context, email string) (*models.Account, LifecycleStatus, error) {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if account.IsVerified {
		return account, StatusAlreadyVerified, nil
	}

	now := time.Now()
	account.IsVerified = true
	account.VerifiedAt = &now

	action := "verify_user"
	if account.IsAdmin() {
		action = "approve_admin"
		password, err := s.passwords.Generate(DefaultGeneratedLength)
		if err != nil {
			return nil, "", err
		}
		hash, err := s.passwords.Hash(password)
		if err != nil {
			return nil, "", err
		}
		account.PasswordHash = &hash
		account.ForcePasswordChange = true

		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, "", err
		}
		if err := s.mail.SendOneTimePassword(account.FullName(), account.Email, password); err != nil {
			log.Printf("Failed to send one-time password to %s: %v", account.Email, err)
		}
	} else {
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, "", err
		}
	}

	s.audit.Record(ctx, &AuditEntry{
		UserID:       actorID(account),
		AdminID:      adminActorID(account),
		Action:       action,
		ResourceType: "account",
		ResourceID:   resourceID(account.ID),
		Details:      models.JSONB{"email": account.Email},
	})
	return account, StatusVerified, nil
}

// Reject deletes a pending account. Verified accounts are kept untouched;
// rejection links must not work as a delete button after approval.
func (s *accountService) Reject(ctx context.Context, email string) (LifecycleStatus, error) {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account.IsVerified {
		return StatusAlreadyVerified, nil
	}

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return "", err
	}

	s.audit.Record(ctx, &AuditEntry{
		Action:       "reject",
		ResourceType: "account",
		ResourceID:   resourceID(account.ID),
		Details:      models.JSONB{"email": account.Email, "role": account.Role},
	})
	return StatusRejected, nil
}

func (s *accountService) ChangePassword(ctx context.Context, email, newPassword string) error {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.passwords.ValidateStrength(newPassword); err != nil {
		return err
	}
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = &hash
	account.ForcePasswordChange = false
	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}

	s.audit.Record(ctx, &AuditEntry{
		UserID:       actorID(account),
		AdminID:      adminActorID(account),
		Action:       "change_password",
		ResourceType: "account",
		ResourceID:   resourceID(account.ID),
	})
	return nil
}

// ConfirmPassword returns the account when email and password match, and
// (nil, nil) on unknown email or mismatch. Absence is the signal; callers
// must not learn which of the two failed.
func (s *accountService) ConfirmPassword(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.getByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if account.PasswordHash == nil || !s.passwords.Verify(*account.PasswordHash, password) {
		return nil, nil
	}
	return account, nil
}

func (s *accountService) Login(ctx context.Context, email, password string, rc *RequestContext) (*LoginResult, error) {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !account.IsVerified {
		return nil, ErrNotVerified
	}
	if account.PasswordHash == nil || !s.passwords.Verify(*account.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	if account.ForcePasswordChange {
		return nil, ErrPasswordChangeRequired
	}

	token, err := s.tokens.IssueLoginToken(account)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &AuditEntry{
		UserID:       actorID(account),
		AdminID:      adminActorID(account),
		Action:       "login",
		ResourceType: "account",
		ResourceID:   resourceID(account.ID),
		Request:      rc,
	})
	return &LoginResult{Account: account, Token: token}, nil
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getByEmail(ctx, email)
}

func (s *accountService) List(ctx context.Context, role string, limit, offset int) ([]*models.Account, error) {
	return s.accounts.List(ctx, role, limit, offset)
}

func (s *accountService) getByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func resourceID(id int64) *string {
	s := fmt.Sprintf("%d", id)
	return &s
}

func actorID(account *models.Account) *int64 {
	if account.IsAdmin() {
		return nil
	}
	id := account.ID
	return &id
}

func adminActorID(account *models.Account) *int64 {
	if !account.IsAdmin() {
		return nil
	}
	id := account.ID
	return &id
}
