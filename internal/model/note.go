package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Color     string    `gorm:"not null;default:'#fef3c7'"`
	Archived  bool      `gorm:"not null;default:false"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board          Board           `gorm:"foreignKey:BoardID"`
	Creator        User            `gorm:"foreignKey:CreatedBy"`
	ChecklistItems []ChecklistItem `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}

type ChecklistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	NoteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null"`
	Checked   bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
}
