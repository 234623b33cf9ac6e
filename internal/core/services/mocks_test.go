package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Identity store ---

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) FindIdentityByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Identity, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) SaveIdentity(ctx context.Context, identity domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *MockIdentityRepository) UpdateIdentityEmail(ctx context.Context, identityID, email string) error {
	return m.Called(ctx, identityID, email).Error(0)
}

func (m *MockIdentityRepository) UpdatePasswordHash(ctx context.Context, identityID, passwordHash string) error {
	return m.Called(ctx, identityID, passwordHash).Error(0)
}

func (m *MockIdentityRepository) SetBannedUntil(ctx context.Context, identityID string, bannedUntil *time.Time) error {
	return m.Called(ctx, identityID, bannedUntil).Error(0)
}

func (m *MockIdentityRepository) RecordSignIn(ctx context.Context, identityID string, at time.Time) error {
	return m.Called(ctx, identityID, at).Error(0)
}

func (m *MockIdentityRepository) UpdateRefreshToken(ctx context.Context, identityID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, identityID, tokenHash, expiresAt).Error(0)
}

func (m *MockIdentityRepository) RotateRefreshToken(ctx context.Context, identityID, oldHash, newHash string, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, identityID, oldHash, newHash, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentityRepository) ClearRefreshToken(ctx context.Context, identityID string) error {
	return m.Called(ctx, identityID).Error(0)
}

func (m *MockIdentityRepository) DeleteIdentity(ctx context.Context, identityID string) error {
	return m.Called(ctx, identityID).Error(0)
}

// --- Profiles ---

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepository) UpdateProfileName(ctx context.Context, profileID string, firstName, lastName *string) error {
	return m.Called(ctx, profileID, firstName, lastName).Error(0)
}

func (m *MockProfileRepository) UpdateProfileEmail(ctx context.Context, profileID, email string) error {
	return m.Called(ctx, profileID, email).Error(0)
}

func (m *MockProfileRepository) UpdateProfileRole(ctx context.Context, profileID string, role domain.Role) error {
	return m.Called(ctx, profileID, role).Error(0)
}

func (m *MockProfileRepository) UpdateProfileAvatar(ctx context.Context, profileID string, avatarURL *string) error {
	return m.Called(ctx, profileID, avatarURL).Error(0)
}

// --- Work items ---

type MockWorkItemRepository struct {
	mock.Mock
}

func (m *MockWorkItemRepository) FindWorkItemByID(ctx context.Context, workItemID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, workItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) ListPendingWorkItems(ctx context.Context) ([]domain.WorkItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) ListWorkItemsByGrower(ctx context.Context, growerID string) ([]domain.WorkItem, error) {
	args := m.Called(ctx, growerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) ListRecentWorkItems(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) CountWorkItemsByStatus(ctx context.Context) (map[domain.WorkItemStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.WorkItemStatus]int), args.Error(1)
}

func (m *MockWorkItemRepository) SaveWorkItem(ctx context.Context, item domain.WorkItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockWorkItemRepository) UpdatePendingWorkItem(ctx context.Context, item domain.WorkItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

// --- Inspections ---

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) ListInspectionsByWorkItem(ctx context.Context, workItemID string) ([]domain.Inspection, error) {
	args := m.Called(ctx, workItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) RecordInspection(ctx context.Context, inspection domain.Inspection) (bool, error) {
	args := m.Called(ctx, inspection)
	return args.Bool(0), args.Error(1)
}

// --- One-time tokens ---

type MockActionTokenRepository struct {
	mock.Mock
}

func (m *MockActionTokenRepository) SaveActionToken(ctx context.Context, token domain.ActionToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockActionTokenRepository) ConsumeActionToken(ctx context.Context, tokenHash string, kind domain.ActionTokenKind, now time.Time) (*domain.ActionToken, error) {
	args := m.Called(ctx, tokenHash, kind, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActionToken), args.Error(1)
}

// --- Object store ---

type MockAvatarStore struct {
	mock.Mock
}

func (m *MockAvatarStore) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, path, body, size, contentType).Error(0)
}

func (m *MockAvatarStore) Remove(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func (m *MockAvatarStore) RemovePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *MockAvatarStore) PublicURL(path string) string {
	return m.Called(path).String(0)
}

func (m *MockAvatarStore) ObjectPath(publicURL string) (string, bool) {
	args := m.Called(publicURL)
	return args.String(0), args.Bool(1)
}

// --- Mail ---

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendInvite(ctx context.Context, to, acceptURL string) error {
	return m.Called(ctx, to, acceptURL).Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return m.Called(ctx, to, resetURL).Error(0)
}

// --- Metrics ---

type MockWorkItemMetrics struct {
	mock.Mock
}

func (m *MockWorkItemMetrics) WorkItemCreated() {
	m.Called()
}

func (m *MockWorkItemMetrics) InspectionRecorded(result domain.InspectionResult, applied bool) {
	m.Called(result, applied)
}

func strPtr(s string) *string {
	return &s
}
