package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Incident struct {
	gorm.Model

	IncidentType string `gorm:"not null;index"` // "wifi_outage", "wifi_degradation", "internet_outage", "sensor_outage", "full_outage"
	Severity     string `gorm:"not null"`       // "critical", "warning", "info"

	StartTime       time.Time `gorm:"not null;index"`
	EndTime         *time.Time
	DurationSeconds *int

	AffectedTargets datatypes.JSON // JSON list of interface names, IPs or sensor names
	Description     string
	ProbableCause   string
	IsResolved      bool `gorm:"default:false"`

	// Relationships
	Notifications []Notification `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
