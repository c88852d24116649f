package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the credential store record. The ID is an opaque UUID
// generated app-side so it carries no enumeration order.
type User struct {
	ID        string     `gorm:"column:id;type:varchar(36);primaryKey"`
	Email     string     `gorm:"column:email;uniqueIndex;not null"`
	Password  string     `gorm:"column:password;not null"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	LastLogin *time.Time `gorm:"column:last_login"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuditLogs     []AuditLog     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
