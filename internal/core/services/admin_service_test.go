package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/core/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) AcceptInvite(ctx context.Context, token, password, confirm string) (*domain.Session, error) {
	args := m.Called(ctx, token, password, confirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
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

const (
	userOne = "6f1c2d3e-4a5b-4c6d-8e7f-901a2b3c4d5e"
	userTwo = "7a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

type AdminUserServiceTestSuite struct {
	suite.Suite
	identities  *MockIdentityRepository
	profiles    *MockProfileRepository
	credentials *MockCredentialService
	avatars     *MockAvatarStore
	service     portssvc.AdminUserSvcFacade
	admin       domain.Principal
}

func (suite *AdminUserServiceTestSuite) SetupTest() {
	suite.identities = new(MockIdentityRepository)
	suite.profiles = new(MockProfileRepository)
	suite.credentials = new(MockCredentialService)
	suite.avatars = new(MockAvatarStore)
	suite.service = services.NewAdminUserService(suite.identities, suite.profiles, suite.credentials, suite.avatars)
	suite.admin = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
}

func (suite *AdminUserServiceTestSuite) TearDownTest() {
	suite.identities.AssertExpectations(suite.T())
	suite.profiles.AssertExpectations(suite.T())
	suite.credentials.AssertExpectations(suite.T())
	suite.avatars.AssertExpectations(suite.T())
}

func (suite *AdminUserServiceTestSuite) TestEveryOperationRequiresAdmin() {
	ctx := context.Background()
	manager := domain.Principal{UserID: "m", Role: domain.RoleManagement}

	_, err := suite.service.ListUsers(ctx, manager)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.service.InviteUser(ctx, manager, dto.InviteUserRequest{Email: "a@b.c", Role: domain.RoleGrowers})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.UpdateUserName(ctx, manager, dto.UpdateUserNameRequest{ProfileID: "x"}), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.UpdateUserEmail(ctx, manager, dto.UpdateUserEmailRequest{UserID: "x", Email: "a@b.c"}), apperrors.ErrForbidden)
	_, err = suite.service.UpdateUserRole(ctx, manager, dto.UpdateUserRoleRequest{ProfileID: "x", Role: "admin"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.SetUserBanned(ctx, manager, dto.SetUserBannedRequest{UserID: "x", Banned: true}), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.DeleteUser(ctx, manager, "x"), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.SendPasswordReset(ctx, manager, "a@b.c"), apperrors.ErrForbidden)
}

func (suite *AdminUserServiceTestSuite) TestListUsers_MergesAndDropsInvalidRoles() {
	ctx := context.Background()
	signIn := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	banned := time.Now().Add(time.Hour)

	suite.profiles.On("ListProfiles", ctx).Return([]domain.Profile{
		{ProfileID: userTwo, Role: "admin", Email: strPtr("b@x.com")},
		{ProfileID: userOne, Role: "growers", Email: strPtr("a@x.com")},
		{ProfileID: "u0", Role: "owner"},
	}, nil).Once()
	suite.identities.On("ListIdentities", ctx).Return([]domain.Identity{
		{IdentityID: userOne, LastSignInAt: &signIn, BannedUntil: &banned},
		{IdentityID: userTwo},
	}, nil).Once()

	users, err := suite.service.ListUsers(ctx, suite.admin)

	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal(userTwo, users[0].ID)
	suite.False(users[0].Banned)
	suite.Equal(userOne, users[1].ID)
	suite.True(users[1].Banned)
	suite.Equal(&signIn, users[1].LastSignInAt)
}

func (suite *AdminUserServiceTestSuite) TestInviteUser_CreatesIdentityProfileAndInvite() {
	ctx := context.Background()
	var identityID string
	suite.identities.On("SaveIdentity", ctx, mock.MatchedBy(func(i domain.Identity) bool {
		identityID = i.IdentityID
		return i.Email == "new@example.com" && i.PasswordHash == nil
	})).Return(nil).Once()
	suite.profiles.On("SaveProfile", ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.ProfileID == identityID && p.Role == "sanitation" && *p.Email == "new@example.com"
	})).Return(nil).Once()
	suite.credentials.On("IssueInvite", ctx, mock.AnythingOfType("string"), "new@example.com").Return(nil).Once()

	user, err := suite.service.InviteUser(ctx, suite.admin, dto.InviteUserRequest{Email: " New@Example.com ", Role: domain.RoleSanitation})

	suite.Require().NoError(err)
	suite.Equal(identityID, user.ID)
	suite.Equal(domain.RoleSanitation, user.Role)
}

func (suite *AdminUserServiceTestSuite) TestInviteUser_InvalidInput() {
	ctx := context.Background()

	_, err := suite.service.InviteUser(ctx, suite.admin, dto.InviteUserRequest{Email: "", Role: domain.RoleGrowers})
	suite.Equal("Invalid email or role.", apperrors.UserMessage(err))

	_, err = suite.service.InviteUser(ctx, suite.admin, dto.InviteUserRequest{Email: "a@b.c", Role: "grower"})
	suite.Equal("Invalid email or role.", apperrors.UserMessage(err))
}

func (suite *AdminUserServiceTestSuite) TestInviteUser_ProfileFailureIsNotCompensated() {
	ctx := context.Background()
	suite.identities.On("SaveIdentity", ctx, mock.Anything).Return(nil).Once()
	suite.profiles.On("SaveProfile", ctx, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.InviteUser(ctx, suite.admin, dto.InviteUserRequest{Email: "a@b.c", Role: domain.RoleGrowers})

	suite.ErrorIs(err, assert.AnError)
	suite.identities.AssertNotCalled(suite.T(), "DeleteIdentity", mock.Anything, mock.Anything)
}

func (suite *AdminUserServiceTestSuite) TestUpdateUserName_BlankPartsAreCleared() {
	ctx := context.Background()
	suite.profiles.On("UpdateProfileName", ctx, userOne, strPtr("Mia"), (*string)(nil)).Return(nil).Once()

	suite.NoError(suite.service.UpdateUserName(ctx, suite.admin, dto.UpdateUserNameRequest{ProfileID: userOne, FirstName: " Mia ", LastName: "  "}))
	suite.Equal("Missing user ID.", apperrors.UserMessage(suite.service.UpdateUserName(ctx, suite.admin, dto.UpdateUserNameRequest{})))
}

func (suite *AdminUserServiceTestSuite) TestUpdateUserEmail_IdentityThenProfile() {
	ctx := context.Background()
	first := suite.identities.On("UpdateIdentityEmail", ctx, userOne, "new@x.com").Return(nil).Once()
	suite.profiles.On("UpdateProfileEmail", ctx, userOne, "new@x.com").Return(nil).Once().NotBefore(first)

	suite.NoError(suite.service.UpdateUserEmail(ctx, suite.admin, dto.UpdateUserEmailRequest{UserID: userOne, Email: "new@x.com"}))
	suite.Equal("Missing user ID or email.", apperrors.UserMessage(suite.service.UpdateUserEmail(ctx, suite.admin, dto.UpdateUserEmailRequest{UserID: userOne})))
}

func (suite *AdminUserServiceTestSuite) TestUpdateUserEmail_ProfileFailureSurfaces() {
	ctx := context.Background()
	suite.identities.On("UpdateIdentityEmail", ctx, userOne, "new@x.com").Return(nil).Once()
	suite.profiles.On("UpdateProfileEmail", ctx, userOne, "new@x.com").Return(assert.AnError).Once()

	err := suite.service.UpdateUserEmail(ctx, suite.admin, dto.UpdateUserEmailRequest{UserID: userOne, Email: "new@x.com"})

	suite.ErrorIs(err, assert.AnError)
	suite.Equal("Failed to update the user's profile email.", apperrors.UserMessage(err))
}

func (suite *AdminUserServiceTestSuite) TestUpdateUserRole() {
	ctx := context.Background()

	result, err := suite.service.UpdateUserRole(ctx, suite.admin, dto.UpdateUserRoleRequest{ProfileID: userOne, Role: "root"})
	suite.Require().NoError(err)
	suite.Equal(domain.Rejected(userOne, domain.ReasonInvalidRole), result)

	suite.profiles.On("UpdateProfileRole", ctx, userOne, domain.RoleManagement).Return(nil).Once()
	result, err = suite.service.UpdateUserRole(ctx, suite.admin, dto.UpdateUserRoleRequest{ProfileID: userOne, Role: "management"})
	suite.Require().NoError(err)
	suite.Equal(domain.Applied(userOne), result)

	suite.profiles.On("UpdateProfileRole", ctx, userTwo, domain.RoleGrowers).Return(assert.AnError).Once()
	result, err = suite.service.UpdateUserRole(ctx, suite.admin, dto.UpdateUserRoleRequest{ProfileID: userTwo, Role: "growers"})
	suite.Require().NoError(err)
	suite.Equal(domain.Rejected(userTwo, domain.ReasonStoreError), result)
}

func (suite *AdminUserServiceTestSuite) TestSetUserBanned() {
	ctx := context.Background()
	suite.identities.On("SetBannedUntil", ctx, userOne, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.After(time.Now().Add(domain.PermanentBanDuration-time.Minute))
	})).Return(nil).Once()
	suite.identities.On("SetBannedUntil", ctx, userOne, (*time.Time)(nil)).Return(nil).Once()

	suite.NoError(suite.service.SetUserBanned(ctx, suite.admin, dto.SetUserBannedRequest{UserID: userOne, Banned: true}))
	suite.NoError(suite.service.SetUserBanned(ctx, suite.admin, dto.SetUserBannedRequest{UserID: userOne, Banned: false}))
}

func (suite *AdminUserServiceTestSuite) TestDeleteUser_RemovesAvatarsBestEffort() {
	ctx := context.Background()
	suite.identities.On("DeleteIdentity", ctx, userOne).Return(nil).Once()
	suite.avatars.On("RemovePrefix", ctx, userOne+"/").Return(assert.AnError).Once()

	suite.NoError(suite.service.DeleteUser(ctx, suite.admin, userOne))
	suite.Equal("Missing user ID.", apperrors.UserMessage(suite.service.DeleteUser(ctx, suite.admin, "")))
}

func (suite *AdminUserServiceTestSuite) TestMalformedUserIDNeverReachesStore() {
	ctx := context.Background()

	err := suite.service.DeleteUser(ctx, suite.admin, "abc")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("User not found", apperrors.UserMessage(err))
	suite.ErrorIs(suite.service.UpdateUserName(ctx, suite.admin, dto.UpdateUserNameRequest{ProfileID: "abc", FirstName: "A"}), apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.UpdateUserEmail(ctx, suite.admin, dto.UpdateUserEmailRequest{UserID: "abc", Email: "a@b.c"}), apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.SetUserBanned(ctx, suite.admin, dto.SetUserBannedRequest{UserID: "abc", Banned: true}), apperrors.ErrNotFound)

	result, err := suite.service.UpdateUserRole(ctx, suite.admin, dto.UpdateUserRoleRequest{ProfileID: "abc", Role: "admin"})
	suite.Require().NoError(err)
	suite.Equal(domain.Rejected("abc", domain.ReasonUnknownUser), result)
}

func (suite *AdminUserServiceTestSuite) TestDeleteUser_StillReferencedSurfacesMessage() {
	ctx := context.Background()
	suite.identities.On("DeleteIdentity", ctx, userOne).
		Return(apperrors.NewConflictError("This user still owns records and cannot be deleted.")).Once()

	err := suite.service.DeleteUser(ctx, suite.admin, userOne)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Equal("This user still owns records and cannot be deleted.", apperrors.UserMessage(err))
	suite.avatars.AssertNotCalled(suite.T(), "RemovePrefix", mock.Anything, mock.Anything)
}

func (suite *AdminUserServiceTestSuite) TestSendPasswordReset() {
	ctx := context.Background()
	suite.credentials.On("RequestPasswordReset", ctx, "qc@x.com").Return(nil).Once()

	suite.NoError(suite.service.SendPasswordReset(ctx, suite.admin, "qc@x.com"))
	suite.Equal("Missing email.", apperrors.UserMessage(suite.service.SendPasswordReset(ctx, suite.admin, " ")))
}

func TestAdminUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminUserServiceTestSuite))
}
