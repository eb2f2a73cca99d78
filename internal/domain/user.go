package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	PasswordHash    string    `gorm:"size:128;not null" json:"-"`
	Role            string    `gorm:"size:16;index;not null;default:user" json:"role"`
	IsEmailVerified bool      `gorm:"not null;default:false" json:"is_email_verified"`
	IsActive        bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
