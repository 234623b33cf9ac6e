package services

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/dto"
)

// SettingsSvcFacade manages the caller's own account.
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context, userID string) (*domain.AccountSettings, error)
	UpdateDisplayName(ctx context.Context, userID string, req dto.UpdateDisplayNameRequest) error
	UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error
	UploadAvatar(ctx context.Context, userID string, upload dto.AvatarUpload) (string, error)
	DeleteAvatar(ctx context.Context, userID string) error
}
