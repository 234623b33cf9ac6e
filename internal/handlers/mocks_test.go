package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/handlers"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// --- Mock resolver ---
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error) {
	args := m.Called(ctx, tokens)
	res, _ := args.Get(0).(*domain.Resolution)
	return res, args.Error(1)
}

// --- Mock session service ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *MockSessionService) SignInWithVerifiedEmail(ctx context.Context, email string) (*domain.Session, error) {
	args := m.Called(ctx, email)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *MockSessionService) Authenticate(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error) {
	args := m.Called(ctx, tokens)
	r, _ := args.Get(0).(*domain.Resolution)
	return r, args.Error(1)
}

func (m *MockSessionService) SignOut(ctx context.Context, identityID string) error {
	return m.Called(ctx, identityID).Error(0)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock credential service ---
type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) AcceptInvite(ctx context.Context, token, password, confirm string) (*domain.Session, error) {
	args := m.Called(ctx, token, password, confirm)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *MockCredentialService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockCredentialService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return m.Called(ctx, token, password, confirm).Error(0)
}

func (m *MockCredentialService) IssueInvite(ctx context.Context, identityID, email string) error {
	return m.Called(ctx, identityID, email).Error(0)
}

func (m *MockCredentialService) SignUp(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

var _ portssvc.CredentialSvcFacade = (*MockCredentialService)(nil)

// --- Mock Google OAuth service ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return m.Called(ctx, state).String(0)
}

func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	t, _ := args.Get(0).(*oauth2.Token)
	return t, args.Error(1)
}

func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	p, _ := args.Get(0).(*idtoken.Payload)
	return p, args.Error(1)
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)

// --- Mock work item service ---
type MockWorkItemService struct {
	mock.Mock
}

func (m *MockWorkItemService) ListQueue(ctx context.Context) ([]domain.WorkItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.WorkItem)
	return items, args.Error(1)
}

func (m *MockWorkItemService) ListForGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error) {
	args := m.Called(ctx, growerID)
	items, _ := args.Get(0).([]domain.WorkItem)
	return items, args.Error(1)
}

func (m *MockWorkItemService) ListRecent(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]domain.WorkItem)
	return items, args.Error(1)
}

func (m *MockWorkItemService) ComputeKpis(ctx context.Context) (domain.ManagementKpi, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ManagementKpi), args.Error(1)
}

func (m *MockWorkItemService) CreateWorkItem(ctx context.Context, actor domain.Principal, input dto.WorkItemInput) (domain.MutationResult, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.MutationResult), args.Error(1)
}

func (m *MockWorkItemService) EditWorkItem(ctx context.Context, actor domain.Principal, workItemID string, input dto.WorkItemInput) (domain.MutationResult, error) {
	args := m.Called(ctx, actor, workItemID, input)
	return args.Get(0).(domain.MutationResult), args.Error(1)
}

func (m *MockWorkItemService) InspectWorkItem(ctx context.Context, actor domain.Principal, req dto.InspectRequest) (domain.MutationResult, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(domain.MutationResult), args.Error(1)
}

func (m *MockWorkItemService) GetHistory(ctx context.Context, actor domain.Principal, workItemID string) (domain.WorkItemHistory, error) {
	args := m.Called(ctx, actor, workItemID)
	return args.Get(0).(domain.WorkItemHistory), args.Error(1)
}

var _ portssvc.WorkItemSvcFacade = (*MockWorkItemService)(nil)

// --- Mock admin service ---
type MockAdminUserService struct {
	mock.Mock
}

func (m *MockAdminUserService) ListUsers(ctx context.Context, actor domain.Principal) ([]domain.UserSummary, error) {
	args := m.Called(ctx, actor)
	users, _ := args.Get(0).([]domain.UserSummary)
	return users, args.Error(1)
}

func (m *MockAdminUserService) InviteUser(ctx context.Context, actor domain.Principal, req dto.InviteUserRequest) (*domain.UserSummary, error) {
	args := m.Called(ctx, actor, req)
	u, _ := args.Get(0).(*domain.UserSummary)
	return u, args.Error(1)
}

func (m *MockAdminUserService) UpdateUserName(ctx context.Context, actor domain.Principal, req dto.UpdateUserNameRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

func (m *MockAdminUserService) UpdateUserEmail(ctx context.Context, actor domain.Principal, req dto.UpdateUserEmailRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

func (m *MockAdminUserService) UpdateUserRole(ctx context.Context, actor domain.Principal, req dto.UpdateUserRoleRequest) (domain.MutationResult, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(domain.MutationResult), args.Error(1)
}

func (m *MockAdminUserService) SetUserBanned(ctx context.Context, actor domain.Principal, req dto.SetUserBannedRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

func (m *MockAdminUserService) DeleteUser(ctx context.Context, actor domain.Principal, userID string) error {
	return m.Called(ctx, actor, userID).Error(0)
}

func (m *MockAdminUserService) SendPasswordReset(ctx context.Context, actor domain.Principal, email string) error {
	return m.Called(ctx, actor, email).Error(0)
}

var _ portssvc.AdminUserSvcFacade = (*MockAdminUserService)(nil)

// --- Mock settings service ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context, userID string) (*domain.AccountSettings, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*domain.AccountSettings)
	return s, args.Error(1)
}

func (m *MockSettingsService) UpdateDisplayName(ctx context.Context, userID string, req dto.UpdateDisplayNameRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockSettingsService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockSettingsService) UploadAvatar(ctx context.Context, userID string, upload dto.AvatarUpload) (string, error) {
	args := m.Called(ctx, userID, upload)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) DeleteAvatar(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var _ portssvc.SettingsSvcFacade = (*MockSettingsService)(nil)

// --- Harness ---

// testApp wires the real routes and middleware over mocked services.
type testApp struct {
	router     *gin.Engine
	resolver   *MockResolver
	sessions   *MockSessionService
	credential *MockCredentialService
	google     *MockGoogleOAuthService
	workItems  *MockWorkItemService
	admin      *MockAdminUserService
	settings   *MockSettingsService
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:           true,
		FrontendBaseURL:        "https://portal.example.com",
		AccessTokenCookieName:  "atid",
		RefreshTokenCookieName: "rtid",
		SessionCookiePath:      "/",
		LoginRateLimit:         "1000-M",
	}
}

func newTestApp() *testApp {
	app := &testApp{
		resolver:   new(MockResolver),
		sessions:   new(MockSessionService),
		credential: new(MockCredentialService),
		google:     new(MockGoogleOAuthService),
		workItems:  new(MockWorkItemService),
		admin:      new(MockAdminUserService),
		settings:   new(MockSettingsService),
	}
	container := &portssvc.ServiceContainer{
		Session:     app.sessions,
		Credential:  app.credential,
		Resolver:    app.resolver,
		GoogleOAuth: app.google,
		WorkItem:    app.workItems,
		AdminUser:   app.admin,
		Settings:    app.settings,
	}

	cfg := testConfig()
	manager := middleware.NewSessionManager(app.resolver, middleware.NewSessionCookies(cfg))

	app.router = gin.New()
	app.router.Use(manager.RouteProxy(handlers.PublicPrefixes...))
	handlers.RegisterRoutes(app.router, cfg, container, manager, nil)
	return app
}

// signIn makes every request resolve to a principal holding role.
func (a *testApp) signIn(userID string, role domain.Role) *domain.Principal {
	p := &domain.Principal{UserID: userID, Role: role}
	a.resolver.On("Resolve", mock.Anything, mock.Anything).
		Return(&domain.Resolution{IdentityID: userID, Principal: p}, nil)
	return p
}

// signedOut makes every request resolve to no session.
func (a *testApp) signedOut() {
	a.resolver.On("Resolve", mock.Anything, mock.Anything).Return(&domain.Resolution{}, nil)
}

func (a *testApp) get(target string, jsonAccept bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if jsonAccept {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// postForm submits a urlencoded form like a browser would.
func (a *testApp) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// postJSON submits a JSON body and asks for a JSON answer.
func (a *testApp) postJSON(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
