package domain

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken is one entry of the refresh-token blacklist, keyed by the
// token's jti. Rows past ExpiresAt carry no information (the token would be
// rejected on expiry anyway) and are garbage collected.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenID   string    `gorm:"size:64;uniqueIndex;not null" json:"token_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Reason    string    `gorm:"size:32" json:"reason"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
