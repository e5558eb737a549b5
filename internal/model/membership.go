package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership grants a user access to an organization. It is the source of
// truth for organization access; User.IsAdmin is only a cache of the active
// membership's flag.
type Membership struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	JoinedAt       time.Time `gorm:"autoCreateTime"`

	User         User         `gorm:"foreignKey:UserID"`
	Organization Organization `gorm:"foreignKey:OrganizationID"`
}
