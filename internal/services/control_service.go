package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

var (
	ErrControlNotFound  = errors.New("control not found")
	ErrEvidenceNotFound = errors.New("evidence not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrOwnerInactive    = errors.New("owner must reference an active user")
)

type ControlService struct {
	db *gorm.DB
}

func NewControlService(db *gorm.DB) *ControlService {
	return &ControlService{db: db}
}

// ControlPatch carries the mutable fields of a control. Nil pointers mean
// "leave unchanged".
type ControlPatch struct {
	Title                 *string
	Description           *string
	Status                *models.ControlStatus
	OwnerID               *uint
	ImplementationDetails *string
	RequirementIDs        []uint
}

// Create stores a control and maps it onto the requirements it satisfies.
func (s *ControlService) Create(control *models.Control, requirementIDs []uint) error {
	if err := requireText("title", control.Title); err != nil {
		return err
	}
	if control.Status == "" {
		control.Status = models.ControlNotStarted
	}
	if !control.Status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, control.Status)
	}
	if err := s.checkOwner(control.OwnerID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(control).Error; err != nil {
			return err
		}
		if len(requirementIDs) > 0 {
			var requirements []models.Requirement
			if err := tx.Where("id IN ?", requirementIDs).Find(&requirements).Error; err != nil {
				return err
			}
			if err := tx.Model(control).Association("Requirements").Replace(requirements); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a control with its requirements, evidence and owner.
func (s *ControlService) GetByID(id uint) (*models.Control, error) {
	var control models.Control
	err := s.db.Preload("Requirements").Preload("Evidence").Preload("Owner").First(&control, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlNotFound
		}
		return nil, err
	}
	return &control, nil
}

// List retrieves all controls ordered by last update.
func (s *ControlService) List() ([]models.Control, error) {
	var controls []models.Control
	err := s.db.Preload("Requirements").Preload("Evidence").Preload("Owner").
		Order("updated_at desc").Find(&controls).Error
	if err != nil {
		return nil, err
	}
	return controls, nil
}

// Update applies a patch and refreshes last_checked: any change to the
// control counts as the control having been looked at.
func (s *ControlService) Update(id uint, patch ControlPatch) (*models.Control, error) {
	control, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"last_checked": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.OwnerID != nil {
		if err := s.checkOwner(patch.OwnerID); err != nil {
			return nil, err
		}
		updates["owner_id"] = *patch.OwnerID
	}
	if patch.ImplementationDetails != nil {
		updates["implementation_details"] = *patch.ImplementationDetails
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(control).Updates(updates).Error; err != nil {
			return err
		}
		if patch.RequirementIDs != nil {
			var requirements []models.Requirement
			if len(patch.RequirementIDs) > 0 {
				if err := tx.Where("id IN ?", patch.RequirementIDs).Find(&requirements).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(control).Association("Requirements").Replace(requirements); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes a control, cascading its evidence and dropping it from
// any risk's mitigating set. Risks referencing the control survive with
// the reference removed; controls and risks are loosely coupled.
func (s *ControlService) Delete(id uint) error {
	control, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(control).Association("Requirements").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM risk_controls WHERE control_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("control_id = ?", id).Delete(&models.Evidence{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_control_id = ?", id).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		return tx.Delete(control).Error
	})
}

// AddEvidence records an evidence artifact against a control and
// refreshes the control's last_checked timestamp. The file itself lives
// with the storage collaborator; only the opaque reference is persisted.
func (s *ControlService) AddEvidence(evidence *models.Evidence) error {
	if err := requireText("title", evidence.Title); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Control{}).Where("id = ?", evidence.ControlID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrControlNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(evidence).Error; err != nil {
			return err
		}
		return tx.Model(&models.Control{}).Where("id = ?", evidence.ControlID).
			Update("last_checked", time.Now()).Error
	})
}

// ListEvidence retrieves evidence, optionally scoped to a control.
func (s *ControlService) ListEvidence(controlID uint) ([]models.Evidence, error) {
	var evidence []models.Evidence
	query := s.db.Order("created_at desc")
	if controlID != 0 {
		query = query.Where("control_id = ?", controlID)
	}
	if err := query.Find(&evidence).Error; err != nil {
		return nil, err
	}
	return evidence, nil
}

// DeleteEvidence removes an evidence record. Evidence is immutable once
// created; deletion is the only permitted change.
func (s *ControlService) DeleteEvidence(id uint) error {
	result := s.db.Delete(&models.Evidence{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEvidenceNotFound
	}
	return nil
}

func (s *ControlService) checkOwner(ownerID *uint) error {
	if ownerID == nil {
		return nil
	}
	var owner models.User
	if err := s.db.First(&owner, *ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerInactive
		}
		return err
	}
	if !owner.IsActive {
		return ErrOwnerInactive
	}
	return nil
}
