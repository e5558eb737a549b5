package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`

	// OrganizationID is the user's currently active organization. When
	// non-null it must reference an organization the user has a membership
	// in. IsAdmin mirrors the active membership's flag and is recomputed on
	// every organization switch, never edited independently.
	OrganizationID *uuid.UUID `gorm:"type:uuid"`
	IsAdmin        bool       `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Organization *Organization `gorm:"foreignKey:OrganizationID"`
}
