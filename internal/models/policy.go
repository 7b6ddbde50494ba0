package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Policy is a versioned document that, once published, obligates active
// users to acknowledge it. IsPublished is monotonic: it only ever moves
// from false to true, and PublishedAt is set exactly when it does.
type Policy struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UUID        string     `json:"uuid" gorm:"uniqueIndex"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Version     string     `json:"version" gorm:"default:'1.0'"`
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`

	Acknowledgments []Acknowledgment `json:"acknowledgments,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Versions        []PolicyVersion  `json:"versions,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Policy) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// PolicyVersion is a snapshot of superseded draft content, kept so
// reviewers can trace how a policy evolved before publication.
type PolicyVersion struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PolicyID uint   `json:"policy_id" gorm:"index"`
	Version  string `json:"version"`
	Content  string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

// Acknowledgment records that a user has read and accepted a published
// policy. The composite unique index makes duplicates impossible even
// under concurrent acknowledge calls; rows are immutable once created.
type Acknowledgment struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	PolicyID      uint   `json:"policy_id" gorm:"index:idx_ack_policy_user,unique"`
	UserID        uint   `json:"user_id" gorm:"index:idx_ack_policy_user,unique"`
	User          *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PolicyVersion string `json:"policy_version"`

	AcknowledgedAt time.Time `json:"acknowledged_at" gorm:"autoCreateTime"`
}
