package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertSeverity grades how urgent an alert is.
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Alert is a notable event surfaced on the dashboard. Alerts are produced
// by the scheduled compliance checks (or other collaborators); the core
// aggregates resolved/unresolved sets and lets operators resolve them.
type Alert struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UUID        string        `json:"uuid" gorm:"uniqueIndex"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity" gorm:"default:'info'"`
	Source      string        `json:"source" gorm:"index"` // which check raised it
	Resolved    bool          `json:"resolved" gorm:"default:false"`

	RelatedControlID *uint      `json:"related_control_id,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}
