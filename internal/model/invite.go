package model

import (
	"time"

	"github.com/google/uuid"
)

// SelfServeInvite is a shareable join link for an organization. Redemption
// creates a non-admin membership and activates the organization for the
// joining user.
type SelfServeInvite struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Token          string    `gorm:"uniqueIndex;not null"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive       bool      `gorm:"not null;default:true"`
	ExpiresAt      *time.Time
	UsageLimit     *int
	UsageCount     int       `gorm:"not null;default:0"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Organization Organization `gorm:"foreignKey:OrganizationID"`
}
