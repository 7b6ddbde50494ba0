package services

import (
	"math"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

// DashboardService is the read side: it composes framework progress, risk
// counts, alert counts and acknowledgment obligations from current
// committed state. It holds no mutable state of its own, so aggregates
// may lag slightly behind concurrent writes.
type DashboardService struct {
	db   *gorm.DB
	acks *AcknowledgmentService
}

func NewDashboardService(db *gorm.DB, acks *AcknowledgmentService) *DashboardService {
	return &DashboardService{db: db, acks: acks}
}

// FrameworkProgress summarizes how far a framework's control set has been
// implemented.
type FrameworkProgress struct {
	FrameworkID         uint   `json:"framework_id"`
	FrameworkName       string `json:"framework_name"`
	TotalControls       int    `json:"total_controls"`
	ImplementedControls int    `json:"implemented_controls"`
	ProgressPercentage  int    `json:"progress_percentage"`
}

// DashboardStats is the snapshot returned to the dashboard view,
// tailored to the requesting user for the pending-acknowledgment count.
type DashboardStats struct {
	ComplianceProgress      []FrameworkProgress `json:"compliance_progress"`
	TotalRisks              int                 `json:"total_risks"`
	HighRisks               int                 `json:"high_risks"`
	MediumRisks             int                 `json:"medium_risks"`
	LowRisks                int                 `json:"low_risks"`
	ActiveAlerts            int                 `json:"active_alerts"`
	ControlsLackingEvidence int                 `json:"controls_lacking_evidence"`
	PendingAcknowledgments  int                 `json:"pending_acknowledgments"`
}

// Progress computes implementation progress for one framework. The
// framework's control set is the distinct union of controls satisfying
// any of its requirements. A framework with no associated controls is 0%
// done, not a division error.
func (s *DashboardService) Progress(frameworkID uint) (*FrameworkProgress, error) {
	var framework models.Framework
	if err := s.db.First(&framework, frameworkID).Error; err != nil {
		return nil, ErrFrameworkNotFound
	}
	return s.progressFor(&framework)
}

func (s *DashboardService) progressFor(framework *models.Framework) (*FrameworkProgress, error) {
	var controls []models.Control
	err := s.db.Distinct("controls.*").
		Joins("JOIN control_requirements ON control_requirements.control_id = controls.id").
		Joins("JOIN requirements ON requirements.id = control_requirements.requirement_id").
		Where("requirements.framework_id = ?", framework.ID).
		Find(&controls).Error
	if err != nil {
		return nil, err
	}

	total := len(controls)
	implemented := 0
	for _, c := range controls {
		if c.Status == models.ControlImplemented {
			implemented++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(implemented) / float64(total) * 100))
	}

	return &FrameworkProgress{
		FrameworkID:         framework.ID,
		FrameworkName:       framework.Name,
		TotalControls:       total,
		ImplementedControls: implemented,
		ProgressPercentage:  percentage,
	}, nil
}

// Stats assembles the dashboard snapshot for the requesting user.
func (s *DashboardService) Stats(userID uint) (*DashboardStats, error) {
	stats := &DashboardStats{ComplianceProgress: []FrameworkProgress{}}

	var frameworks []models.Framework
	if err := s.db.Find(&frameworks).Error; err != nil {
		return nil, err
	}
	for i := range frameworks {
		progress, err := s.progressFor(&frameworks[i])
		if err != nil {
			return nil, err
		}
		stats.ComplianceProgress = append(stats.ComplianceProgress, *progress)
	}

	var risks []models.Risk
	if err := s.db.Find(&risks).Error; err != nil {
		return nil, err
	}
	stats.TotalRisks = len(risks)
	for _, risk := range risks {
		switch risk.RiskLevel {
		case models.RiskHigh, models.RiskCritical:
			stats.HighRisks++
		case models.RiskMedium:
			stats.MediumRisks++
		case models.RiskLow:
			stats.LowRisks++
		}
	}

	var activeAlerts int64
	if err := s.db.Model(&models.Alert{}).Where("resolved = ?", false).Count(&activeAlerts).Error; err != nil {
		return nil, err
	}
	stats.ActiveAlerts = int(activeAlerts)

	var lacking int64
	err := s.db.Model(&models.Control{}).
		Where("NOT EXISTS (SELECT 1 FROM evidence WHERE evidence.control_id = controls.id)").
		Count(&lacking).Error
	if err != nil {
		return nil, err
	}
	stats.ControlsLackingEvidence = int(lacking)

	pending, err := s.acks.PendingFor(userID)
	if err != nil {
		return nil, err
	}
	stats.PendingAcknowledgments = len(pending)

	return stats, nil
}
