package dto

import (
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// RoleOption is one entry of a role picker.
type RoleOption struct {
	Value domain.Role `json:"value"`
	Label string      `json:"label"`
}

// PrincipalResponse describes the signed-in user for page chrome.
type PrincipalResponse struct {
	ID          string      `json:"id"`
	Email       *string     `json:"email,omitempty"`
	FirstName   *string     `json:"firstName,omitempty"`
	LastName    *string     `json:"lastName,omitempty"`
	Role        domain.Role `json:"role"`
	RoleLabel   string      `json:"roleLabel"`
	LandingPath string      `json:"landingPath"`
	// Dashboards lists the role pages this user may open, for tab navigation.
	Dashboards []RoleOption `json:"dashboards"`
}

// WorkItemResponse is a work item row.
type WorkItemResponse struct {
	ID           string                `json:"id"`
	GrowerID     string                `json:"growerId"`
	Title        string                `json:"title"`
	LotCode      string                `json:"lotCode"`
	Notes        *string               `json:"notes,omitempty"`
	Status       domain.WorkItemStatus `json:"status"`
	Editable     bool                  `json:"editable"`
	QCReviewedAt *time.Time            `json:"qcReviewedAt,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// GrowersPageResponse backs the grower work item page.
type GrowersPageResponse struct {
	Principal PrincipalResponse  `json:"principal"`
	Items     []WorkItemResponse `json:"items"`
	ReadOnly  bool               `json:"readOnly"`
}

// QualityControlPageResponse backs the inspection queue.
type QualityControlPageResponse struct {
	Principal  PrincipalResponse  `json:"principal"`
	Queue      []WorkItemResponse `json:"queue"`
	CanInspect bool               `json:"canInspect"`
}

// ManagementPageResponse backs the KPI overview.
type ManagementPageResponse struct {
	Principal PrincipalResponse    `json:"principal"`
	Kpis      domain.ManagementKpi `json:"kpis"`
	Recent    []WorkItemResponse   `json:"recent"`
}

// SanitationPageResponse backs the sanitation landing page.
type SanitationPageResponse struct {
	Principal PrincipalResponse `json:"principal"`
}

// UserSummaryResponse is one admin user list row.
type UserSummaryResponse struct {
	ID           string      `json:"id"`
	Email        *string     `json:"email,omitempty"`
	Role         domain.Role `json:"role"`
	RoleLabel    string      `json:"roleLabel"`
	FirstName    *string     `json:"firstName,omitempty"`
	LastName     *string     `json:"lastName,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastSignInAt *time.Time  `json:"lastSignInAt,omitempty"`
	Banned       bool        `json:"banned"`
}

// AdminUsersPageResponse backs the user management page.
type AdminUsersPageResponse struct {
	Principal PrincipalResponse     `json:"principal"`
	Users     []UserSummaryResponse `json:"users"`
	Roles     []RoleOption          `json:"roles"`
}

// SettingsResponse is the caller's own account data.
type SettingsResponse struct {
	Email     string  `json:"email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Initials  string  `json:"initials"`
}

// SettingsPageResponse backs the settings page; Success and Error are banner texts.
type SettingsPageResponse struct {
	Principal PrincipalResponse `json:"principal"`
	Settings  SettingsResponse  `json:"settings"`
	Success   string            `json:"success,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ActionResponse is returned by form actions to JSON clients.
type ActionResponse struct {
	Applied bool   `json:"applied"`
	ID      string `json:"id,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToRoleOptions converts roles to picker entries.
func ToRoleOptions(roles []domain.Role) []RoleOption {
	options := make([]RoleOption, 0, len(roles))
	for _, r := range roles {
		options = append(options, RoleOption{Value: r, Label: r.Label()})
	}
	return options
}

// ToPrincipalResponse converts a principal for page chrome.
func ToPrincipalResponse(p *domain.Principal) PrincipalResponse {
	var dashboards []domain.Role
	for _, r := range domain.AllRoles {
		if domain.CanAccess(p.Role, r) {
			dashboards = append(dashboards, r)
		}
	}
	return PrincipalResponse{
		ID:          p.UserID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
		RoleLabel:   p.Role.Label(),
		LandingPath: p.Role.LandingPath(),
		Dashboards:  ToRoleOptions(dashboards),
	}
}

// ToWorkItemResponse converts a work item. editorID, when set, marks the
// item editable if that grower owns it and it is still pending.
func ToWorkItemResponse(item domain.WorkItem, editorID string) WorkItemResponse {
	return WorkItemResponse{
		ID:           item.WorkItemID,
		GrowerID:     item.GrowerID,
		Title:        item.Title,
		LotCode:      item.LotCode,
		Notes:        item.Notes,
		Status:       item.Status,
		Editable:     editorID != "" && item.GrowerID == editorID && item.IsPending(),
		QCReviewedAt: item.QCReviewedAt,
		CreatedAt:    item.CreatedAt,
	}
}

// InspectionResponse is one recorded QC decision.
type InspectionResponse struct {
	ID          string                  `json:"id"`
	InspectorID string                  `json:"inspectorId,omitempty"`
	Result      domain.InspectionResult `json:"result"`
	Notes       *string                 `json:"notes,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// WorkItemHistoryResponse is one item with its inspections, oldest first.
type WorkItemHistoryResponse struct {
	Item        WorkItemResponse     `json:"item"`
	Inspections []InspectionResponse `json:"inspections"`
}

// ToWorkItemHistoryResponse converts a history; only the owning grower sees the item as editable.
func ToWorkItemHistoryResponse(h domain.WorkItemHistory, viewerID string) WorkItemHistoryResponse {
	out := WorkItemHistoryResponse{
		Item:        ToWorkItemResponse(h.Item, viewerID),
		Inspections: make([]InspectionResponse, len(h.Inspections)),
	}
	for i, in := range h.Inspections {
		out.Inspections[i] = InspectionResponse{
			ID:          in.InspectionID,
			InspectorID: in.InspectorID,
			Result:      in.Result,
			Notes:       in.Notes,
			CreatedAt:   in.CreatedAt,
		}
	}
	return out
}

// ToWorkItemResponses converts a slice of work items.
func ToWorkItemResponses(items []domain.WorkItem, editorID string) []WorkItemResponse {
	out := make([]WorkItemResponse, len(items))
	for i, item := range items {
		out[i] = ToWorkItemResponse(item, editorID)
	}
	return out
}

// ToUserSummaryResponses converts admin list rows.
func ToUserSummaryResponses(users []domain.UserSummary) []UserSummaryResponse {
	out := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		out[i] = UserSummaryResponse{
			ID:           u.ID,
			Email:        u.Email,
			Role:         u.Role,
			RoleLabel:    u.Role.Label(),
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			CreatedAt:    u.CreatedAt,
			LastSignInAt: u.LastSignInAt,
			Banned:       u.Banned,
		}
	}
	return out
}

// ToSettingsResponse converts account settings.
func ToSettingsResponse(s *domain.AccountSettings) SettingsResponse {
	return SettingsResponse{
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		AvatarURL: s.AvatarURL,
		Initials:  s.Initials,
	}
}

// ToActionResponse converts a mutation result.
func ToActionResponse(r domain.MutationResult) ActionResponse {
	return ActionResponse{Applied: r.Applied, ID: r.ID, Reason: r.Reason}
}
