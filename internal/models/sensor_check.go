package models

import (
	"time"

	"gorm.io/gorm"
)

type SensorCheck struct {
	gorm.Model

	CheckedAt    time.Time `gorm:"not null;index"`
	SensorName   string    `gorm:"not null;index"`
	SensorIP     string
	CheckType    string `gorm:"not null"` // "ping", "http", "mqtt", "database"
	IsAvailable  bool   `gorm:"default:false"`
	LatencyMs    *float64
	StatusCode   *int // HTTP status or MQTT CONNACK code
	ErrorMessage string
}
