package dto

import "time"

// UserResponse is the public user view consumed by the profile,
// questionnaire, script and video subsystems. The password hash is
// never part of it.
type UserResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"omitempty,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,max=50"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=100"`
}

// AuditLogResponse is one entry of the caller's audit trail
type AuditLogResponse struct {
	ID        int64     `json:"id"`
	EventType string    `json:"eventType"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}
