package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

var (
	ErrFrameworkNotFound   = errors.New("framework not found")
	ErrFrameworkExists     = errors.New("framework name and version already exist")
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrRequirementExists   = errors.New("requirement code already exists in framework")
)

type FrameworkService struct {
	db *gorm.DB
}

func NewFrameworkService(db *gorm.DB) *FrameworkService {
	return &FrameworkService{db: db}
}

// Create adds a framework. Name is unique per version.
func (s *FrameworkService) Create(framework *models.Framework) error {
	if err := requireText("name", framework.Name); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Framework{}).
		Where("name = ? AND version = ?", framework.Name, framework.Version).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrFrameworkExists
	}

	return s.db.Create(framework).Error
}

// GetByID retrieves a framework with its requirements.
func (s *FrameworkService) GetByID(id uint) (*models.Framework, error) {
	var framework models.Framework
	if err := s.db.Preload("Requirements").First(&framework, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFrameworkNotFound
		}
		return nil, err
	}
	return &framework, nil
}

// List retrieves all frameworks with their requirements.
func (s *FrameworkService) List() ([]models.Framework, error) {
	var frameworks []models.Framework
	if err := s.db.Preload("Requirements").Order("name asc").Find(&frameworks).Error; err != nil {
		return nil, err
	}
	return frameworks, nil
}

// CreateRequirement adds a requirement to a framework. Code is unique
// within the framework.
func (s *FrameworkService) CreateRequirement(req *models.Requirement) error {
	if err := requireText("code", req.Code); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Framework{}).Where("id = ?", req.FrameworkID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrFrameworkNotFound
	}

	if err := s.db.Model(&models.Requirement{}).
		Where("framework_id = ? AND code = ?", req.FrameworkID, req.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrRequirementExists
	}

	return s.db.Create(req).Error
}

// ListRequirements retrieves requirements, optionally scoped to a framework.
func (s *FrameworkService) ListRequirements(frameworkID uint) ([]models.Requirement, error) {
	var requirements []models.Requirement
	query := s.db.Order("code asc")
	if frameworkID != 0 {
		query = query.Where("framework_id = ?", frameworkID)
	}
	if err := query.Find(&requirements).Error; err != nil {
		return nil, err
	}
	return requirements, nil
}
