package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

var ErrRiskNotFound = errors.New("risk not found")

type RiskService struct {
	db *gorm.DB
}

func NewRiskService(db *gorm.DB) *RiskService {
	return &RiskService{db: db}
}

// RiskPatch carries the mutable fields of a risk. Likelihood and impact
// changes trigger recomputation of the derived score and level.
type RiskPatch struct {
	Title       *string
	Description *string
	Likelihood  *int
	Impact      *int
	Category    *string
	Status      *models.RiskStatus
	OwnerID     *uint
	ControlIDs  []uint
}

// Create stores a risk with its derived score and level and an initial
// history entry. Callers never supply RiskScore or RiskLevel directly.
func (s *RiskService) Create(risk *models.Risk, controlIDs []uint, actorID uint) error {
	if err := requireText("title", risk.Title); err != nil {
		return err
	}
	if risk.Status == "" {
		risk.Status = models.RiskIdentified
	}
	if !risk.Status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, risk.Status)
	}

	score, level, err := ScoreRisk(risk.Likelihood, risk.Impact)
	if err != nil {
		return err
	}
	risk.RiskScore = score
	risk.RiskLevel = level

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(risk).Error; err != nil {
			return err
		}
		if len(controlIDs) > 0 {
			var controls []models.Control
			if err := tx.Where("id IN ?", controlIDs).Find(&controls).Error; err != nil {
				return err
			}
			if err := tx.Model(risk).Association("MitigatingControls").Replace(controls); err != nil {
				return err
			}
		}
		history := models.RiskHistory{
			RiskID:            risk.ID,
			ChangedByID:       &actorID,
			ChangeDescription: fmt.Sprintf("Risk created with status: %s", risk.Status),
		}
		return tx.Create(&history).Error
	})
}

// GetByID retrieves a risk with its mitigating controls and owner.
func (s *RiskService) GetByID(id uint) (*models.Risk, error) {
	var risk models.Risk
	err := s.db.Preload("MitigatingControls").Preload("Owner").First(&risk, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiskNotFound
		}
		return nil, err
	}
	return &risk, nil
}

// List retrieves all risks, highest score first.
func (s *RiskService) List() ([]models.Risk, error) {
	var risks []models.Risk
	err := s.db.Preload("MitigatingControls").Preload("Owner").
		Order("risk_score desc").Find(&risks).Error
	if err != nil {
		return nil, err
	}
	return risks, nil
}

// Update applies a patch, recomputes the derived score and level when
// either factor changed, and appends a history entry describing what
// moved.
func (s *RiskService) Update(id uint, patch RiskPatch, actorID uint) (*models.Risk, error) {
	risk, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	var changes []string

	if patch.Title != nil && *patch.Title != risk.Title {
		changes = append(changes, fmt.Sprintf("title: %s -> %s", risk.Title, *patch.Title))
		updates["title"] = *patch.Title
	}
	if patch.Description != nil && *patch.Description != risk.Description {
		changes = append(changes, "description updated")
		updates["description"] = *patch.Description
	}
	if patch.Category != nil && *patch.Category != risk.Category {
		changes = append(changes, fmt.Sprintf("category: %s -> %s", risk.Category, *patch.Category))
		updates["category"] = *patch.Category
	}
	if patch.Status != nil && *patch.Status != risk.Status {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
		}
		changes = append(changes, fmt.Sprintf("status: %s -> %s", risk.Status, *patch.Status))
		updates["status"] = *patch.Status
	}
	if patch.OwnerID != nil {
		changes = append(changes, "owner updated")
		updates["owner_id"] = *patch.OwnerID
	}

	likelihood := risk.Likelihood
	impact := risk.Impact
	if patch.Likelihood != nil {
		likelihood = *patch.Likelihood
	}
	if patch.Impact != nil {
		impact = *patch.Impact
	}
	if likelihood != risk.Likelihood || impact != risk.Impact {
		score, level, err := ScoreRisk(likelihood, impact)
		if err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("score: %d -> %d (%s)", risk.RiskScore, score, level))
		updates["likelihood"] = likelihood
		updates["impact"] = impact
		updates["risk_score"] = score
		updates["risk_level"] = level
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(risk).Updates(updates).Error; err != nil {
				return err
			}
		}
		if patch.ControlIDs != nil {
			var controls []models.Control
			if len(patch.ControlIDs) > 0 {
				if err := tx.Where("id IN ?", patch.ControlIDs).Find(&controls).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(risk).Association("MitigatingControls").Replace(controls); err != nil {
				return err
			}
			changes = append(changes, "mitigating controls updated")
		}
		if len(changes) > 0 {
			history := models.RiskHistory{
				RiskID:            risk.ID,
				ChangedByID:       &actorID,
				ChangeDescription: strings.Join(changes, "; "),
			}
			return tx.Create(&history).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes a risk and its history. Mitigating controls survive.
func (s *RiskService) Delete(id uint) error {
	risk, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(risk).Association("MitigatingControls").Clear(); err != nil {
			return err
		}
		if err := tx.Where("risk_id = ?", id).Delete(&models.RiskHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(risk).Error
	})
}

// History returns the change trail of a risk, newest first.
func (s *RiskService) History(riskID uint) ([]models.RiskHistory, error) {
	var history []models.RiskHistory
	err := s.db.Where("risk_id = ?", riskID).Order("changed_at desc").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
