package services

import (
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	avatars portsrepo.AvatarStore,
	mailer portssvc.Mailer,
	metrics portssvc.WorkItemMetrics,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Sessions first; the resolver and credential flows build on them.
	container.Token = NewTokenService(cfg)
	container.Session = NewSessionService(repos.IdentityRepo, container.Token)
	container.Resolver = NewIdentityResolver(container.Session, repos.ProfileRepo)
	container.Credential = NewCredentialService(cfg, repos.IdentityRepo, repos.ProfileRepo, repos.ActionTokenRepo, container.Session, mailer)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	workItemOpts := []WorkItemServiceOption{}
	if metrics != nil {
		workItemOpts = append(workItemOpts, WithWorkItemMetrics(metrics))
	}
	container.WorkItem = NewWorkItemService(repos.WorkItemRepo, repos.InspectionRepo, workItemOpts...)

	container.AdminUser = NewAdminUserService(repos.IdentityRepo, repos.ProfileRepo, container.Credential, avatars)
	container.Settings = NewSettingsService(repos.IdentityRepo, repos.ProfileRepo, avatars)

	return container
}
