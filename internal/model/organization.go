package model

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name       string    `gorm:"not null"`
	WebhookURL string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
