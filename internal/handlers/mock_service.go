package handlers

import (
	"context"
	"net/http"

	"logsify/internal/models"
	"logsify/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAccounts struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername    string
	lastSignUpDisplayName string
	lastSignUpPassword    string
	lastGenUsername       string
	lastGenPassword       string
	lastParseToken        string
}

func (m *mockAccounts) SignUp(username, displayName, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpDisplayName = displayName
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAccounts) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAccounts) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockTokenAuth struct {
	account *models.Account
	token   *models.IssuanceToken
	err     error

	lastRaw string
	calls   int
}

func (m *mockTokenAuth) Authenticate(ctx context.Context, raw string) (*models.Account, *models.IssuanceToken, error) {
	m.calls++
	m.lastRaw = raw
	return m.account, m.token, m.err
}

type mockIngest struct {
	batchErr error
	oneRec   models.LogRecord
	oneErr   error

	batchCalls    int
	lastAccountID int
	lastTokenID   int
	lastBatch     []any
	lastCandidate any
}

func (m *mockIngest) IngestBatch(ctx context.Context, accountID, tokenID int, candidates []any) (int, error) {
	m.batchCalls++
	m.lastAccountID = accountID
	m.lastTokenID = tokenID
	m.lastBatch = candidates
	if m.batchErr != nil {
		return 0, m.batchErr
	}
	return len(candidates), nil
}
func (m *mockIngest) IngestOne(ctx context.Context, accountID, tokenID int, candidate any) (models.LogRecord, error) {
	m.lastAccountID = accountID
	m.lastTokenID = tokenID
	m.lastCandidate = candidate
	return m.oneRec, m.oneErr
}

type mockRecords struct {
	resp []models.LogRecord
	err  error

	lastAccountID int
	lastFilter    service.RecordFilter
}

func (m *mockRecords) List(ctx context.Context, accountID int, f service.RecordFilter) ([]models.LogRecord, error) {
	m.lastAccountID = accountID
	m.lastFilter = f
	return m.resp, m.err
}

type mockTokens struct {
	issueTok      models.IssuanceToken
	issueErr      error
	listResp      []models.IssuanceToken
	listErr       error
	deactivateErr error

	lastIssueLabel     string
	lastDeactivateArgs [2]int
}

func (m *mockTokens) Issue(ctx context.Context, accountID int, label string) (models.IssuanceToken, error) {
	m.lastIssueLabel = label
	return m.issueTok, m.issueErr
}
func (m *mockTokens) List(ctx context.Context, accountID int) ([]models.IssuanceToken, error) {
	return m.listResp, m.listErr
}
func (m *mockTokens) Deactivate(ctx context.Context, accountID, tokenID int) error {
	m.lastDeactivateArgs = [2]int{accountID, tokenID}
	return m.deactivateErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
