package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEvent enumerates the security-relevant actions the recorder
// accepts. The set matches the audit_logs event_type enum.
type AuditEvent string

const (
	EventLogin          AuditEvent = "login"
	EventLogout         AuditEvent = "logout"
	EventRegister       AuditEvent = "register"
	EventPasswordChange AuditEvent = "password_change"
	EventTokenRefresh   AuditEvent = "token_refresh"
)

// Valid reports whether the event is a known audit event type
func (e AuditEvent) Valid() bool {
	switch e {
	case EventLogin, EventLogout, EventRegister, EventPasswordChange, EventTokenRefresh:
		return true
	}
	return false
}

// AuditLog is an append-only record of an authentication event. UserID
// is nullable and set to NULL when the user is deleted, so the trail
// outlives the account.
type AuditLog struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    *string        `gorm:"column:user_id;type:varchar(36);index"`
	EventType AuditEvent     `gorm:"column:event_type;type:varchar(32);not null;index"`
	IPAddress string         `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent string         `gorm:"column:user_agent;type:varchar(255)"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
