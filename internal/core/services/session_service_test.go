package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/core/services"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/SscSPs/packhouse_portal/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "packhouse-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		InviteTokenExpiryDuration:  72 * time.Hour,
		ResetTokenExpiryDuration:   time.Hour,
		FrontendBaseURL:            "https://portal.example.com",
	}
}

type SessionServiceTestSuite struct {
	suite.Suite
	identities *MockIdentityRepository
	tokens     portssvc.TokenSvcFacade
	service    portssvc.SessionSvcFacade
	identity   *domain.Identity
	password   string
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.identities = new(MockIdentityRepository)
	suite.tokens = services.NewTokenService(testConfig())
	suite.service = services.NewSessionService(suite.identities, suite.tokens)

	suite.password = "correct horse"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.identity = &domain.Identity{IdentityID: "user-1", Email: "grower@example.com", PasswordHash: &hash}
}

func (suite *SessionServiceTestSuite) TearDownTest() {
	suite.identities.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestSignIn_Success() {
	ctx := context.Background()
	suite.identities.On("FindIdentityByEmail", ctx, "grower@example.com").Return(suite.identity, nil).Once()
	suite.identities.On("UpdateRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.identities.On("RecordSignIn", ctx, "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	session, err := suite.service.SignIn(ctx, " grower@example.com ", suite.password)

	suite.Require().NoError(err)
	suite.Equal("user-1", session.IdentityID)
	suite.NotEmpty(session.AccessToken)
	suite.NotEmpty(session.RefreshToken)

	subject, err := suite.tokens.ParseAccessToken(ctx, session.AccessToken)
	suite.Require().NoError(err)
	suite.Equal("user-1", subject)
}

func (suite *SessionServiceTestSuite) TestSignIn_WrongPassword() {
	ctx := context.Background()
	suite.identities.On("FindIdentityByEmail", ctx, "grower@example.com").Return(suite.identity, nil).Once()

	_, err := suite.service.SignIn(ctx, "grower@example.com", "wrong password")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Equal("Invalid login credentials", apperrors.UserMessage(err))
}

func (suite *SessionServiceTestSuite) TestSignIn_UnknownEmail() {
	ctx := context.Background()
	suite.identities.On("FindIdentityByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SignIn(ctx, "nobody@example.com", "whatever")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SessionServiceTestSuite) TestSignIn_Banned() {
	ctx := context.Background()
	until := time.Now().Add(domain.PermanentBanDuration)
	suite.identity.BannedUntil = &until
	suite.identities.On("FindIdentityByEmail", ctx, "grower@example.com").Return(suite.identity, nil).Once()

	_, err := suite.service.SignIn(ctx, "grower@example.com", suite.password)

	suite.ErrorIs(err, apperrors.ErrBanned)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_NoTokens() {
	res, err := suite.service.Authenticate(context.Background(), domain.SessionTokens{})

	suite.Require().NoError(err)
	suite.False(res.HasSession())
	suite.False(res.Revoked)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_ValidAccessToken() {
	ctx := context.Background()
	access, _, err := suite.tokens.GenerateAccessToken(ctx, "user-1")
	suite.Require().NoError(err)
	suite.identities.On("FindIdentityByID", ctx, "user-1").Return(suite.identity, nil).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{AccessToken: access})

	suite.Require().NoError(err)
	suite.True(res.HasSession())
	suite.Nil(res.Refreshed)
	suite.Same(suite.identity, res.Identity)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_BannedAccessTokenIsRevoked() {
	ctx := context.Background()
	access, _, err := suite.tokens.GenerateAccessToken(ctx, "user-1")
	suite.Require().NoError(err)
	until := time.Now().Add(time.Hour)
	suite.identity.BannedUntil = &until
	suite.identities.On("FindIdentityByID", ctx, "user-1").Return(suite.identity, nil).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{AccessToken: access})

	suite.Require().NoError(err)
	suite.False(res.HasSession())
	suite.True(res.Revoked)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_RefreshRotatesTokens() {
	ctx := context.Background()
	oldHash := utils.HashToken("old-refresh")
	expires := time.Now().Add(time.Hour)
	suite.identity.RefreshTokenHash = &oldHash
	suite.identity.RefreshTokenExpiresAt = &expires

	suite.identities.On("FindIdentityByRefreshTokenHash", ctx, oldHash).Return(suite.identity, nil).Once()
	suite.identities.On("RotateRefreshToken", ctx, "user-1", oldHash, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{AccessToken: "garbage", RefreshToken: "old-refresh"})

	suite.Require().NoError(err)
	suite.True(res.HasSession())
	suite.Require().NotNil(res.Refreshed)
	suite.NotEqual("old-refresh", res.Refreshed.RefreshToken)

	newHash := suite.identities.Calls[1].Arguments.String(3)
	suite.Equal(utils.HashToken(res.Refreshed.RefreshToken), newHash)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_LostRotationRaceHasNoSession() {
	ctx := context.Background()
	oldHash := utils.HashToken("old-refresh")
	expires := time.Now().Add(time.Hour)
	suite.identity.RefreshTokenExpiresAt = &expires

	suite.identities.On("FindIdentityByRefreshTokenHash", ctx, oldHash).Return(suite.identity, nil).Once()
	suite.identities.On("RotateRefreshToken", ctx, "user-1", oldHash, mock.Anything, mock.Anything).Return(false, nil).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{RefreshToken: "old-refresh"})

	suite.Require().NoError(err)
	suite.False(res.HasSession())
	suite.False(res.Revoked)
	suite.Nil(res.Refreshed)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_ExpiredRefreshIsRevoked() {
	ctx := context.Background()
	oldHash := utils.HashToken("old-refresh")
	expired := time.Now().Add(-time.Minute)
	suite.identity.RefreshTokenExpiresAt = &expired

	suite.identities.On("FindIdentityByRefreshTokenHash", ctx, oldHash).Return(suite.identity, nil).Once()
	suite.identities.On("ClearRefreshToken", ctx, "user-1").Return(nil).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{RefreshToken: "old-refresh"})

	suite.Require().NoError(err)
	suite.False(res.HasSession())
	suite.True(res.Revoked)
}

func (suite *SessionServiceTestSuite) TestAuthenticate_UnknownRefreshLeavesCookies() {
	ctx := context.Background()
	suite.identities.On("FindIdentityByRefreshTokenHash", ctx, utils.HashToken("stale")).Return(nil, apperrors.ErrNotFound).Once()

	res, err := suite.service.Authenticate(ctx, domain.SessionTokens{RefreshToken: "stale"})

	suite.Require().NoError(err)
	suite.False(res.HasSession())
	suite.False(res.Revoked)
}

func (suite *SessionServiceTestSuite) TestSignOut_ClearsRefreshToken() {
	ctx := context.Background()
	suite.identities.On("ClearRefreshToken", ctx, "user-1").Return(nil).Once()

	suite.NoError(suite.service.SignOut(ctx, "user-1"))
	suite.NoError(suite.service.SignOut(ctx, ""))
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
