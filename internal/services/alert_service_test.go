package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

func TestAlertService_Raise_Dedup(t *testing.T) {
	db := newTestDB(t, "alert_raise")
	service := NewAlertService(db, nil)

	controlID := uint(7)
	alert := models.Alert{
		Title:            "Control overdue for review: MFA",
		Severity:         models.AlertWarning,
		Source:           "stale_control",
		RelatedControlID: &controlID,
	}
	require.NoError(t, service.Raise(&alert))

	// Same source and control: swallowed, no second row
	again := models.Alert{Title: "Control overdue for review: MFA", Source: "stale_control", RelatedControlID: &controlID}
	require.NoError(t, service.Raise(&again))

	var count int64
	db.Model(&models.Alert{}).Where("source = ?", "stale_control").Count(&count)
	assert.EqualValues(t, 1, count)

	// Resolving the open alert lets the check raise it again
	require.NoError(t, service.Resolve(alert.ID))
	require.NoError(t, service.Raise(&models.Alert{Title: "Control overdue for review: MFA", Source: "stale_control", RelatedControlID: &controlID}))
	db.Model(&models.Alert{}).Where("source = ?", "stale_control").Count(&count)
	assert.EqualValues(t, 2, count)

	// Alerts without a control dedup on title instead
	require.NoError(t, service.Raise(&models.Alert{Title: "Unmitigated critical risk: X", Source: "unmitigated_critical_risk"}))
	require.NoError(t, service.Raise(&models.Alert{Title: "Unmitigated critical risk: X", Source: "unmitigated_critical_risk"}))
	require.NoError(t, service.Raise(&models.Alert{Title: "Unmitigated critical risk: Y", Source: "unmitigated_critical_risk"}))
	db.Model(&models.Alert{}).Where("source = ?", "unmitigated_critical_risk").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAlertService_Resolve(t *testing.T) {
	db := newTestDB(t, "alert_resolve")
	service := NewAlertService(db, nil)

	alert := models.Alert{Title: "Something", Source: "manual"}
	require.NoError(t, service.Raise(&alert))

	require.NoError(t, service.Resolve(alert.ID))

	var stored models.Alert
	db.First(&stored, alert.ID)
	assert.True(t, stored.Resolved)
	assert.NotNil(t, stored.ResolvedAt)

	// Resolving twice, or resolving nothing, is a not-found
	assert.ErrorIs(t, service.Resolve(alert.ID), ErrAlertNotFound)
	assert.ErrorIs(t, service.Resolve(999), ErrAlertNotFound)
}

func TestAlertService_List(t *testing.T) {
	db := newTestDB(t, "alert_list")
	service := NewAlertService(db, nil)

	open := models.Alert{Title: "Open", Source: "a"}
	closed := models.Alert{Title: "Closed", Source: "b"}
	require.NoError(t, service.Raise(&open))
	require.NoError(t, service.Raise(&closed))
	require.NoError(t, service.Resolve(closed.ID))

	active, err := service.List(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Open", active[0].Title)

	all, err := service.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAlertService_RunChecks(t *testing.T) {
	db := newTestDB(t, "alert_checks")
	service := NewAlertService(db, nil)
	controls := NewControlService(db)
	risks := NewRiskService(db)

	// Implemented control last checked beyond the review window
	stale := models.Control{Title: "Stale Control", Status: models.ControlImplemented}
	require.NoError(t, controls.Create(&stale, nil))
	old := time.Now().Add(-staleControlWindow - 24*time.Hour)
	require.NoError(t, db.Model(&stale).Update("last_checked", old).Error)

	// Implemented control with no evidence (the stale one also lacks
	// evidence; the fresh one below is covered)
	fresh := models.Control{Title: "Fresh Control", Status: models.ControlImplemented}
	require.NoError(t, controls.Create(&fresh, nil))
	require.NoError(t, controls.AddEvidence(&models.Evidence{ControlID: fresh.ID, Title: "Proof"}))

	// Critical risk with no mitigating controls
	naked := models.Risk{Title: "Naked Critical", Likelihood: 5, Impact: 5}
	require.NoError(t, risks.Create(&naked, nil, 0))

	// Critical risk that is mitigated: no alert
	covered := models.Risk{Title: "Covered Critical", Likelihood: 5, Impact: 4}
	require.NoError(t, risks.Create(&covered, []uint{fresh.ID}, 0))

	service.RunChecks()

	var staleAlerts, gapAlerts, riskAlerts []models.Alert
	db.Where("source = ?", "stale_control").Find(&staleAlerts)
	db.Where("source = ?", "evidence_gap").Find(&gapAlerts)
	db.Where("source = ?", "unmitigated_critical_risk").Find(&riskAlerts)

	require.Len(t, staleAlerts, 1)
	assert.Equal(t, stale.ID, *staleAlerts[0].RelatedControlID)

	require.Len(t, gapAlerts, 1)
	assert.Equal(t, stale.ID, *gapAlerts[0].RelatedControlID)

	require.Len(t, riskAlerts, 1)
	assert.Contains(t, riskAlerts[0].Title, "Naked Critical")
	assert.Equal(t, models.AlertCritical, riskAlerts[0].Severity)

	// A second run raises nothing new
	service.RunChecks()
	var total int64
	db.Model(&models.Alert{}).Count(&total)
	assert.EqualValues(t, 3, total)
}

func TestAlertService_SchedulerLifecycle(t *testing.T) {
	db := newTestDB(t, "alert_scheduler")
	service := NewAlertService(db, nil)

	// Stop before any start is a no-op.
	service.Stop()

	assert.Error(t, service.StartScheduler("not a cron expression"))

	require.NoError(t, service.StartScheduler("@hourly"))
	require.NotNil(t, service.cron)
	service.Stop()
	service.Stop()
}
