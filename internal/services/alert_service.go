package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/logger"
	"github.com/meridian-grc/meridian/backend/internal/metrics"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

var ErrAlertNotFound = errors.New("alert not found")

// staleControlWindow is how long an implemented control may go without a
// check before an alert is raised.
const staleControlWindow = 90 * 24 * time.Hour

// AlertService consumes alerts for aggregation and produces them from
// scheduled compliance checks. The rest of the core only ever reads
// resolved/unresolved sets.
type AlertService struct {
	db            *gorm.DB
	notifications *NotificationService
	cron          *cron.Cron
}

func NewAlertService(db *gorm.DB, notifications *NotificationService) *AlertService {
	return &AlertService{db: db, notifications: notifications}
}

// List retrieves alerts, newest first. Resolved alerts are hidden unless
// asked for.
func (s *AlertService) List(includeResolved bool) ([]models.Alert, error) {
	var alerts []models.Alert
	query := s.db.Order("created_at desc")
	if !includeResolved {
		query = query.Where("resolved = ?", false)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Resolve marks an alert as handled.
func (s *AlertService) Resolve(id uint) error {
	result := s.db.Model(&models.Alert{}).Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]interface{}{"resolved": true, "resolved_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// Raise creates an alert unless an open one from the same source already
// covers the same control, so a failing check does not pile up duplicates
// run after run. Critical alerts fan out to notification providers.
func (s *AlertService) Raise(alert *models.Alert) error {
	query := s.db.Model(&models.Alert{}).
		Where("source = ? AND resolved = ?", alert.Source, false)
	if alert.RelatedControlID != nil {
		query = query.Where("related_control_id = ?", *alert.RelatedControlID)
	} else {
		query = query.Where("related_control_id IS NULL AND title = ?", alert.Title)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := s.db.Create(alert).Error; err != nil {
		return err
	}

	metrics.IncAlertRaised(string(alert.Severity))
	if s.notifications != nil && alert.Severity == models.AlertCritical {
		s.notifications.SendAlert(alert)
	}
	return nil
}

// StartScheduler runs the compliance checks on a cron schedule until
// Stop is called. The checks also run once shortly after startup.
func (s *AlertService) StartScheduler(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.RunChecks); err != nil {
		return fmt.Errorf("schedule compliance checks: %w", err)
	}
	c.Start()
	s.cron = c

	go func() {
		time.Sleep(30 * time.Second)
		s.RunChecks()
	}()
	return nil
}

// Stop halts the scheduler.
func (s *AlertService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunChecks executes every compliance check once.
func (s *AlertService) RunChecks() {
	s.checkStaleControls()
	s.checkEvidenceGaps()
	s.checkUnmitigatedCriticalRisks()
}

// checkStaleControls flags implemented controls nobody has looked at
// within the review window.
func (s *AlertService) checkStaleControls() {
	cutoff := time.Now().Add(-staleControlWindow)

	var controls []models.Control
	err := s.db.Where("status = ?", models.ControlImplemented).
		Where("last_checked IS NULL OR last_checked < ?", cutoff).
		Find(&controls).Error
	if err != nil {
		logger.WithError(err).Error("Stale control check failed")
		return
	}

	for i := range controls {
		control := controls[i]
		alert := models.Alert{
			Title:            fmt.Sprintf("Control overdue for review: %s", control.Title),
			Description:      "Implemented control has not been checked within the review window.",
			Severity:         models.AlertWarning,
			Source:           "stale_control",
			RelatedControlID: &control.ID,
		}
		if err := s.Raise(&alert); err != nil {
			logger.WithError(err).Error("Failed to raise stale control alert")
		}
	}
}

// checkEvidenceGaps flags implemented controls with no supporting
// evidence.
func (s *AlertService) checkEvidenceGaps() {
	var controls []models.Control
	err := s.db.Where("status = ?", models.ControlImplemented).
		Where("NOT EXISTS (SELECT 1 FROM evidence WHERE evidence.control_id = controls.id)").
		Find(&controls).Error
	if err != nil {
		logger.WithError(err).Error("Evidence gap check failed")
		return
	}

	for i := range controls {
		control := controls[i]
		alert := models.Alert{
			Title:            fmt.Sprintf("Control lacks evidence: %s", control.Title),
			Description:      "Control is marked implemented but has no supporting evidence on file.",
			Severity:         models.AlertWarning,
			Source:           "evidence_gap",
			RelatedControlID: &control.ID,
		}
		if err := s.Raise(&alert); err != nil {
			logger.WithError(err).Error("Failed to raise evidence gap alert")
		}
	}
}

// checkUnmitigatedCriticalRisks flags open critical risks with no
// mitigating controls attached.
func (s *AlertService) checkUnmitigatedCriticalRisks() {
	var risks []models.Risk
	err := s.db.Preload("MitigatingControls").
		Where("risk_level = ?", models.RiskCritical).
		Where("status NOT IN ?", []models.RiskStatus{models.RiskMitigated, models.RiskAccepted, models.RiskClosed}).
		Find(&risks).Error
	if err != nil {
		logger.WithError(err).Error("Critical risk check failed")
		return
	}

	for _, risk := range risks {
		if len(risk.MitigatingControls) > 0 {
			continue
		}
		alert := models.Alert{
			Title:       fmt.Sprintf("Unmitigated critical risk: %s", risk.Title),
			Description: fmt.Sprintf("Risk scored %d with no mitigating controls assigned.", risk.RiskScore),
			Severity:    models.AlertCritical,
			Source:      "unmitigated_critical_risk",
		}
		if err := s.Raise(&alert); err != nil {
			logger.WithError(err).Error("Failed to raise critical risk alert")
		}
	}
}
