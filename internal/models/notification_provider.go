package models

import "time"

// NotificationProvider is an outbound destination that receives alert
// notifications. The URL is any shoutrrr-compatible service URL.
type NotificationProvider struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name"`
	Type    string `json:"type"` // "slack", "discord", "smtp", ...
	URL     string `json:"url"`
	Enabled bool   `json:"enabled" gorm:"default:true"`

	// CriticalOnly restricts delivery to critical-severity alerts.
	CriticalOnly bool `json:"critical_only" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
