package models

import (
	"time"

	"gorm.io/gorm"
)

type WiFiSample struct {
	gorm.Model

	CheckedAt   time.Time `gorm:"not null;index"`
	Interface   string    `gorm:"not null"`
	SSID        string
	RSSI        *int     // Signal strength in dBm
	LinkQuality *float64 // 0-100%
	Frequency   *float64 // MHz
	IsConnected bool     `gorm:"default:false"`
	IPAddress   string   // IPv4 or IPv6
}
