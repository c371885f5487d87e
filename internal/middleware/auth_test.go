package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"klimarechner/internal/common"
	"klimarechner/internal/models"
	"klimarechner/internal/services"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, input *services.RegisterInput) (*models.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) Verify(ctx context.Context, email string) (*models.Account, services.LifecycleStatus, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Get(1).(services.LifecycleStatus), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Get(1).(services.LifecycleStatus), args.Error(2)
}

func (m *MockAccountService) Reject(ctx context.Context, email string) (services.LifecycleStatus, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(services.LifecycleStatus), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, email, newPassword string) error {
	args := m.Called(ctx, email, newPassword)
	return args.Error(0)
}

func (m *MockAccountService) ConfirmPassword(ctx context.Context, email, password string) (*models.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string, rc *services.RequestContext) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password, rc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context, role string, limit, offset int) ([]*models.Account, error) {
	args := m.Called(ctx, role, limit, offset)
	return args.Get(0).([]*models.Account), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry *services.AuditEntry) {
	m.Called(ctx, entry)
}

func (m *MockAuditService) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func verifiedAccount() *models.Account {
	return &models.Account{
		ID:         7,
		Role:       models.RoleClient,
		Email:      "anna@example.com",
		IsVerified: true,
	}
}

func loginToken(t *testing.T, tokens services.TokenService) string {
	t.Helper()
	token, err := tokens.IssueLoginToken(verifiedAccount())
	assert.NoError(t, err)
	return token
}

func runGate(gate echo.MiddlewareFunc, accounts services.AccountService, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := gate(RequireAccount(accounts)(okHandler))
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestUserGateTokenSources(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	token := loginToken(t, tokens)

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{"cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		}},
		{"authorization header", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		}},
		{"query parameter", func(req *http.Request) {
			q := req.URL.Query()
			q.Set("token", token)
			req.URL.RawQuery = q.Encode()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &MockAccountService{}
			accounts.On("GetByEmail", mock.Anything, "anna@example.com").Return(verifiedAccount(), nil)

			req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
			tt.setup(req)

			rec := runGate(UserGate(tokens), accounts, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestUserGateMissingToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)

	rec := runGate(UserGate(tokens), &MockAccountService{}, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserGateRejectsActionToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	token, err := tokens.IssueActionToken(verifiedAccount(), services.ActionVerify)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	rec := runGate(UserGate(tokens), &MockAccountService{}, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGateCookieOnly(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	token := loginToken(t, tokens)

	// Header and query are ignored by the admin gate
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/items?token="+token, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := runGate(AdminGate(tokens), &MockAccountService{}, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	accounts := &MockAccountService{}
	accounts.On("GetByEmail", mock.Anything, "anna@example.com").Return(verifiedAccount(), nil)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/items", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec = runGate(AdminGate(tokens), accounts, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAccountRejectsUnverified(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	token := loginToken(t, tokens)

	accounts := &MockAccountService{}
	unverified := verifiedAccount()
	unverified.IsVerified = false
	accounts.On("GetByEmail", mock.Anything, "anna@example.com").Return(unverified, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	rec := runGate(UserGate(tokens), accounts, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	t.Run("client is forbidden and audited", func(t *testing.T) {
		audit := &MockAuditService{}
		audit.On("Record", mock.Anything, mock.MatchedBy(func(entry *services.AuditEntry) bool {
			return entry.Action == "admin_access_denied" && entry.UserID != nil && *entry.UserID == 7
		})).Return()

		req := httptest.NewRequest(http.MethodGet, "/v1/admin/items", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(common.AccountKey, verifiedAccount())

		err := RequireAdmin(audit)(okHandler)(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		audit.AssertExpectations(t)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := verifiedAccount()
		admin.Role = models.RoleAdmin

		req := httptest.NewRequest(http.MethodGet, "/v1/admin/items", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(common.AccountKey, admin)

		err := RequireAdmin(&MockAuditService{})(okHandler)(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
