package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TokenKindResetPassword = "resetPassword"
	TokenKindVerifyEmail   = "verifyEmail"
)

// VerificationToken is a stored opaque token for the password-reset and
// email-verification flows. The value is random (>=128 bits of entropy),
// single-use and short-lived, and is stored as issued: lookup is a direct
// comparison on (token, kind).
type VerificationToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Token       string    `gorm:"size:64;index;not null" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Kind        string    `gorm:"size:20;index;not null" json:"kind"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	Blacklisted bool      `gorm:"not null;default:false" json:"blacklisted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
