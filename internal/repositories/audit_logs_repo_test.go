package repositories

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"klimarechner/internal/models"
)

type AuditLogsRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    AuditLogsRepository
	context context.Context
}

func (suite *AuditLogsRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAuditLogsRepo(mock)
	suite.context = context.Background()
}

func (suite *AuditLogsRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestAuditLogsRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLogsRepoTestSuite))
}

func (suite *AuditLogsRepoTestSuite) TestCreate_Success() {
	userID := int64(7)
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       "login",
		ResourceType: "account",
		Details:      models.JSONB{"email": "anna@example.com"},
		Status:       models.AuditStatusSuccess,
	}

	suite.mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(auditLog.UserID, auditLog.AdminID, auditLog.Action, auditLog.ResourceType,
			auditLog.ResourceID, auditLog.IPAddress, auditLog.UserAgent, auditLog.Method,
			pgxmock.AnyArg(), auditLog.Status, auditLog.ErrorMessage).
		WillReturnRows(pgxmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), time.Now()))

	err := suite.repo.Create(suite.context, auditLog)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), auditLog.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AuditLogsRepoTestSuite) TestList_FiltersAndClamp() {
	action := "login"
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "admin_id", "action", "resource_type", "resource_id",
		"ip_address", "user_agent", "method", "details", "status", "error_message", "timestamp",
	}).AddRow(int64(1), (*int64)(nil), (*int64)(nil), "login", "account", (*string)(nil),
		(*string)(nil), (*string)(nil), (*string)(nil), []byte(`{"email":"anna@example.com"}`),
		models.AuditStatusSuccess, (*string)(nil), time.Now())

	// A limit above the cap is clamped to 1000
	suite.mock.ExpectQuery(`SELECT id, user_id, admin_id`).
		WithArgs(action, 1000).
		WillReturnRows(rows)

	logs, err := suite.repo.List(suite.context, &models.AuditLogFilters{
		Action: &action,
		Limit:  5000,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), logs, 1)
	assert.Equal(suite.T(), "login", logs[0].Action)
	assert.Equal(suite.T(), "anna@example.com", logs[0].Details["email"])
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AuditLogsRepoTestSuite) TestList_DefaultLimit() {
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "admin_id", "action", "resource_type", "resource_id",
		"ip_address", "user_agent", "method", "details", "status", "error_message", "timestamp",
	})

	suite.mock.ExpectQuery(`SELECT id, user_id, admin_id`).
		WithArgs(1000).
		WillReturnRows(rows)

	logs, err := suite.repo.List(suite.context, nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), logs)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
