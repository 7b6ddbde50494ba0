package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RiskLevel is the qualitative classification derived from RiskScore.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskStatus tracks treatment progress of a risk.
type RiskStatus string

const (
	RiskIdentified RiskStatus = "identified"
	RiskInProgress RiskStatus = "in_progress"
	RiskMitigated  RiskStatus = "mitigated"
	RiskAccepted   RiskStatus = "accepted"
	RiskClosed     RiskStatus = "closed"
)

// IsValid reports whether the status is a known risk status.
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskIdentified, RiskInProgress, RiskMitigated, RiskAccepted, RiskClosed:
		return true
	}
	return false
}

// Risk is a tracked hazard scored by likelihood × impact. RiskScore and
// RiskLevel are derived values, recomputed whenever either factor changes,
// never set directly by callers.
type Risk struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UUID        string     `json:"uuid" gorm:"uniqueIndex"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Likelihood  int        `json:"likelihood"` // 1-5
	Impact      int        `json:"impact"`     // 1-5
	RiskScore   int        `json:"risk_score"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	Category    string     `json:"category"`
	Status      RiskStatus `json:"status" gorm:"default:'identified'"`
	OwnerID     *uint      `json:"owner_id"`
	Owner       *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	MitigatingControls []Control     `json:"mitigating_controls,omitempty" gorm:"many2many:risk_controls;"`
	History            []RiskHistory `json:"history,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Risk) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// RiskHistory is the audit trail of changes made to a risk.
type RiskHistory struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	RiskID            uint   `json:"risk_id" gorm:"index"`
	ChangedByID       *uint  `json:"changed_by_id,omitempty"`
	ChangeDescription string `json:"change_description"`

	ChangedAt time.Time `json:"changed_at" gorm:"autoCreateTime"`
}
