package models

import "time"

// Evidence is an artifact substantiating a control's status. The file
// itself lives with the storage collaborator; FileRef is an opaque handle
// the core never inspects. Evidence is immutable once created, except
// for deletion.
type Evidence struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ControlID   uint   `json:"control_id" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileRef     string `json:"file_ref,omitempty"`
	FileName    string `json:"file_name,omitempty"`

	UploadedByID *uint `json:"uploaded_by_id,omitempty"`
	UploadedBy   *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table singular; "evidences" is not a word.
func (Evidence) TableName() string {
	return "evidence"
}
