package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"klimarechner/internal/models"
)

const (
	// ActionLogin marks a session token. Tokens carrying any other action
	// (verification links, rejection links) never pass the auth gate.
	ActionLogin = "login"

	// ActionVerify and ActionReject mark the short-lived link tokens
	// embedded in lifecycle emails.
	ActionVerify = "verify"
	ActionReject = "reject"

	actionTokenTTL = 5 * time.Minute
	loginTokenTTL  = 24 * time.Hour
)

// TokenClaims is the JWT payload for both short-lived action tokens and
// 24-hour login tokens. Subject carries the account email.
type TokenClaims struct {
	UserID    int64  `json:"user_id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Action    string `json:"action"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the two token kinds the lifecycle uses.
type TokenService interface {
	// IssueActionToken signs a 5-minute token for verification and
	// rejection links.
	IssueActionToken(account *models.Account, action string) (string, error)

	// IssueLoginToken signs a 24-hour session token with action "login".
	IssueLoginToken(account *models.Account) (string, error)

	// Decode validates signature and expiry but accepts any action.
	Decode(token string) (*TokenClaims, error)

	// VerifyLoginToken additionally requires action "login".
	VerifyLoginToken(token string) (*TokenClaims, error)
}

type tokenService struct {
	secret []byte

	// now is swappable in tests to fabricate expired tokens.
	now func() time.Time
}

func NewTokenService(secret string) TokenService {
	return &tokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *tokenService) IssueActionToken(account *models.Account, action string) (string, error) {
	return s.sign(account, action, actionTokenTTL)
}

func (s *tokenService) IssueLoginToken(account *models.Account) (string, error) {
	return s.sign(account, ActionLogin, loginTokenTTL)
}

func (s *tokenService) sign(account *models.Account, action string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID:    account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Action:    action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Decode(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) VerifyLoginToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Action != ActionLogin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
