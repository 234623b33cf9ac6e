package dto

import "io"

// UpdateDisplayNameRequest changes the caller's own name.
type UpdateDisplayNameRequest struct {
	FirstName string `json:"firstName" form:"first_name"`
	LastName  string `json:"lastName" form:"last_name"`
}

// UpdatePasswordRequest changes the caller's own password.
type UpdatePasswordRequest struct {
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password"`
}

// AvatarUpload is an uploaded image handed to the settings service.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
