package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	IncidentID uint   `gorm:"not null;index"`
	Channel    string `gorm:"not null"` // "discord", "slack"
	Trigger    string `gorm:"not null"` // "incident_created", "incident_resolved"
	Status     string `gorm:"not null"` // "sent", "failed"
	Message    string
	SentAt     *time.Time
}
