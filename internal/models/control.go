package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ControlStatus tracks implementation progress of a safeguard.
// Transitions are unconstrained, but every change refreshes LastChecked.
type ControlStatus string

const (
	ControlNotStarted  ControlStatus = "not_started"
	ControlInProgress  ControlStatus = "in_progress"
	ControlImplemented ControlStatus = "implemented"
	ControlFailed      ControlStatus = "failed"
)

// IsValid reports whether the status is a known control status.
func (s ControlStatus) IsValid() bool {
	switch s {
	case ControlNotStarted, ControlInProgress, ControlImplemented, ControlFailed:
		return true
	}
	return false
}

// Control is an implemented safeguard with a status and supporting
// evidence. It satisfies requirements across frameworks (many-to-many)
// and exclusively owns its evidence list.
type Control struct {
	ID                    uint          `json:"id" gorm:"primaryKey"`
	UUID                  string        `json:"uuid" gorm:"uniqueIndex"`
	Title                 string        `json:"title"`
	Description           string        `json:"description"`
	Status                ControlStatus `json:"status" gorm:"default:'not_started'"`
	OwnerID               *uint         `json:"owner_id"`
	Owner                 *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	ImplementationDetails string        `json:"implementation_details"`
	LastChecked           *time.Time    `json:"last_checked"`

	Requirements []Requirement `json:"requirements,omitempty" gorm:"many2many:control_requirements;"`
	Evidence     []Evidence    `json:"evidence,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Control) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// LacksEvidence reports whether the control has no supporting evidence.
// The dashboard counts such controls as compliance gaps.
func (c *Control) LacksEvidence() bool {
	return len(c.Evidence) == 0
}
