package repositories

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"klimarechner/internal/models"
)

type AccountRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    AccountRepository
	context context.Context
}

func (suite *AccountRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAccountRepo(mock)
	suite.context = context.Background()
}

func (suite *AccountRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestAccountRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AccountRepoTestSuite))
}

func stringPtr(s string) *string {
	return &s
}

func (suite *AccountRepoTestSuite) TestCreate_Success() {
	account := &models.Account{
		Role:         models.RoleClient,
		Email:        "anna@example.com",
		FirstName:    "Anna",
		LastName:     "Schmidt",
		PasswordHash: stringPtr("$2a$10$hash"),
	}

	created := time.Now()
	suite.mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(account.Role, account.Email, account.FirstName, account.LastName,
			account.PasswordHash, false, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	err := suite.repo.Create(suite.context, account)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), account.ID)
	assert.Equal(suite.T(), created, account.CreatedAt)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AccountRepoTestSuite) TestCreate_DuplicateEmail() {
	account := &models.Account{
		Role:      models.RoleClient,
		Email:     "anna@example.com",
		FirstName: "Anna",
		LastName:  "Schmidt",
	}

	suite.mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(account.Role, account.Email, account.FirstName, account.LastName,
			account.PasswordHash, false, false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err := suite.repo.Create(suite.context, account)
	assert.ErrorIs(suite.T(), err, ErrDuplicateEmail)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AccountRepoTestSuite) TestGetByEmail_Success() {
	created := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "role", "email", "first_name", "last_name", "password_hash",
		"is_verified", "force_password_change", "created_at", "verified_at",
	}).AddRow(int64(7), models.RoleClient, "anna@example.com", "Anna", "Schmidt",
		stringPtr("$2a$10$hash"), true, false, created, (*time.Time)(nil))

	suite.mock.ExpectQuery(`SELECT id, role, email`).
		WithArgs("anna@example.com").
		WillReturnRows(rows)

	account, err := suite.repo.GetByEmail(suite.context, "anna@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), account.ID)
	assert.Equal(suite.T(), "anna@example.com", account.Email)
	assert.True(suite.T(), account.IsVerified)
	assert.NotNil(suite.T(), account.PasswordHash)
	assert.Nil(suite.T(), account.VerifiedAt)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AccountRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, role, email`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	account, err := suite.repo.GetByEmail(suite.context, "ghost@example.com")
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), account)
}

func (suite *AccountRepoTestSuite) TestUpdate_Success() {
	now := time.Now()
	account := &models.Account{
		ID:           7,
		FirstName:    "Anna",
		LastName:     "Schmidt",
		PasswordHash: stringPtr("$2a$10$hash"),
		IsVerified:   true,
		VerifiedAt:   &now,
	}

	suite.mock.ExpectExec(`UPDATE accounts`).
		WithArgs(account.FirstName, account.LastName, account.PasswordHash,
			account.IsVerified, account.ForcePasswordChange, account.VerifiedAt, account.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, account)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AccountRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM accounts`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, int64(7))
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
