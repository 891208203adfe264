package models

import (
	"time"

	"gorm.io/gorm"
)

type PingResult struct {
	gorm.Model

	CheckedAt   time.Time `gorm:"not null;index"`
	Target      string    `gorm:"not null;index"` // IP or hostname
	TargetType  string    `gorm:"not null"`       // "gateway", "internet", "dns"
	IsReachable bool      `gorm:"default:false"`
	LatencyMs   *float64  // Average round-trip time
	MinLatency  *float64
	MaxLatency  *float64
	JitterMs    *float64
	PacketLoss  float64 `gorm:"default:0"` // Percentage
}
