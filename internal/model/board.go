package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"not null"`
	Description    string
	IsPublic       bool      `gorm:"not null;default:false"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Organization Organization `gorm:"foreignKey:OrganizationID"`
	Creator      User         `gorm:"foreignKey:CreatedBy"`
}
