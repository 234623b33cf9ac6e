package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/utils"
)

const selectImageMessage = "Please select an image file"

type settingsService struct {
	BaseService
	identityRepo portsrepo.IdentityRepositoryFacade
	profileRepo  portsrepo.ProfileRepositoryFacade
	avatars      portsrepo.AvatarStore
	now          func() time.Time
}

// NewSettingsService creates the service behind the caller's own settings page.
func NewSettingsService(identityRepo portsrepo.IdentityRepositoryFacade, profileRepo portsrepo.ProfileRepositoryFacade, avatars portsrepo.AvatarStore) portssvc.SettingsSvcFacade {
	return &settingsService{
		identityRepo: identityRepo,
		profileRepo:  profileRepo,
		avatars:      avatars,
		now:          time.Now,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

func (s *settingsService) GetSettings(ctx context.Context, userID string) (*domain.AccountSettings, error) {
	profile, err := s.profileRepo.FindProfileByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load profile", slog.String("user_id", userID))
		return nil, err
	}
	identity, err := s.identityRepo.FindIdentityByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load identity", slog.String("user_id", userID))
		return nil, err
	}

	return &domain.AccountSettings{
		UserID:    userID,
		Email:     identity.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		AvatarURL: profile.AvatarURL,
		Initials:  initials(profile.FirstName, identity.Email),
	}, nil
}

// initials is the first letter of the first name, else of the email, else "U".
func initials(firstName *string, email string) string {
	for _, candidate := range []string{deref(firstName), email} {
		if r := []rune(strings.TrimSpace(candidate)); len(r) > 0 {
			return string(unicode.ToUpper(r[0]))
		}
	}
	return "U"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *settingsService) UpdateDisplayName(ctx context.Context, userID string, req dto.UpdateDisplayNameRequest) error {
	if err := s.profileRepo.UpdateProfileName(ctx, userID, nilIfBlank(req.FirstName), nilIfBlank(req.LastName)); err != nil {
		s.LogError(ctx, err, "Failed to update display name", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *settingsService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error {
	normalized, err := utils.ValidateNewPassword(req.Password, req.ConfirmPassword)
	if err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}
	hash, err := utils.HashPassword(normalized)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.identityRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.LogError(ctx, err, "Failed to update password", slog.String("user_id", userID))
		return err
	}
	s.LogInfo(ctx, "Password changed", slog.String("user_id", userID))
	return nil
}

// AvatarObjectPath builds the object path {userID}/{unixMillis}-{name} where
// name is the file's base name lower-cased with whitespace runs replaced by "-".
func AvatarObjectPath(userID string, at time.Time, fileName string) string {
	if i := strings.LastIndexAny(fileName, `/\`); i >= 0 {
		fileName = fileName[i+1:]
	}
	name := strings.ToLower(strings.Join(strings.Fields(fileName), "-"))
	if name == "" {
		name = "avatar"
	}
	return fmt.Sprintf("%s/%d-%s", userID, at.UnixMilli(), name)
}

func (s *settingsService) UploadAvatar(ctx context.Context, userID string, upload dto.AvatarUpload) (string, error) {
	if upload.Body == nil || upload.Size <= 0 || !strings.HasPrefix(upload.ContentType, "image/") {
		return "", apperrors.NewValidationFailedError(selectImageMessage)
	}

	path := AvatarObjectPath(userID, s.now(), upload.FileName)
	if err := s.avatars.Upload(ctx, path, upload.Body, upload.Size, upload.ContentType); err != nil {
		s.LogError(ctx, err, "Failed to upload avatar", slog.String("user_id", userID), slog.String("path", path))
		return "", err
	}

	publicURL := s.avatars.PublicURL(path)
	if err := s.profileRepo.UpdateProfileAvatar(ctx, userID, &publicURL); err != nil {
		s.LogError(ctx, err, "Failed to store avatar URL", slog.String("user_id", userID))
		return "", err
	}

	s.LogInfo(ctx, "Avatar uploaded", slog.String("user_id", userID), slog.String("path", path))
	return publicURL, nil
}

func (s *settingsService) DeleteAvatar(ctx context.Context, userID string) error {
	profile, err := s.profileRepo.FindProfileByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load profile", slog.String("user_id", userID))
		return err
	}
	if profile.AvatarURL == nil {
		return nil
	}

	if path, ok := s.avatars.ObjectPath(*profile.AvatarURL); ok {
		if err := s.avatars.Remove(ctx, path); err != nil {
			s.LogError(ctx, err, "Failed to remove avatar object", slog.String("user_id", userID), slog.String("path", path))
			return err
		}
	} else {
		s.LogDebug(ctx, "Avatar URL is not from this store, clearing only", slog.String("user_id", userID))
	}

	if err := s.profileRepo.UpdateProfileAvatar(ctx, userID, nil); err != nil {
		s.LogError(ctx, err, "Failed to clear avatar URL", slog.String("user_id", userID))
		return err
	}
	return nil
}
