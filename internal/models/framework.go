package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Framework is a named compliance standard (SOC 2, ISO 27001, ...)
// composed of requirements. Name is unique per version.
type Framework struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UUID        string `json:"uuid" gorm:"uniqueIndex"`
	Name        string `json:"name" gorm:"index:idx_framework_name_version,unique"`
	Version     string `json:"version" gorm:"index:idx_framework_name_version,unique"`
	Description string `json:"description"`

	Requirements []Requirement `json:"requirements,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Framework) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.New().String()
	}
	return nil
}

// Requirement is an individual clause of a framework that controls must
// satisfy. Code (e.g. "CC6.2", "A.9.4.2") is unique within its framework.
type Requirement struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	FrameworkID uint   `json:"framework_id" gorm:"index:idx_requirement_framework_code,unique"`
	Code        string `json:"code" gorm:"index:idx_requirement_framework_code,unique"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Controls []Control `json:"controls,omitempty" gorm:"many2many:control_requirements;"`

	CreatedAt time.Time `json:"created_at"`
}
