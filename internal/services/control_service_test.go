package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

func TestControlService_Create(t *testing.T) {
	db := newTestDB(t, "control_create")
	service := NewControlService(db)

	framework := models.Framework{Name: "SOC 2", Version: "2017"}
	require.NoError(t, db.Create(&framework).Error)
	req1 := models.Requirement{FrameworkID: framework.ID, Code: "CC6.1", Title: "Logical Access"}
	req2 := models.Requirement{FrameworkID: framework.ID, Code: "CC6.2", Title: "Access Authorization"}
	require.NoError(t, db.Create(&req1).Error)
	require.NoError(t, db.Create(&req2).Error)

	control := models.Control{Title: "MFA Enforcement", Description: "MFA everywhere"}
	require.NoError(t, service.Create(&control, []uint{req1.ID, req2.ID}))
	assert.Equal(t, models.ControlNotStarted, control.Status)

	got, err := service.GetByID(control.ID)
	require.NoError(t, err)
	assert.Len(t, got.Requirements, 2)

	// Empty title
	assert.Error(t, service.Create(&models.Control{}, nil))

	// Unknown status
	bad := models.Control{Title: "Bad", Status: "done"}
	assert.ErrorIs(t, service.Create(&bad, nil), ErrInvalidStatus)
}

func TestControlService_Create_OwnerMustBeActive(t *testing.T) {
	db := newTestDB(t, "control_owner")
	service := NewControlService(db)

	inactive := createActiveUser(t, db, "inactive@example.com", models.RoleEmployee)
	db.Model(inactive).Update("is_active", false)

	control := models.Control{Title: "Orphaned", OwnerID: &inactive.ID}
	assert.ErrorIs(t, service.Create(&control, nil), ErrOwnerInactive)

	missing := uint(999)
	control = models.Control{Title: "Ghost Owner", OwnerID: &missing}
	assert.ErrorIs(t, service.Create(&control, nil), ErrOwnerInactive)

	active := createActiveUser(t, db, "active@example.com", models.RoleComplianceOfficer)
	control = models.Control{Title: "Owned", OwnerID: &active.ID}
	assert.NoError(t, service.Create(&control, nil))
}

func TestControlService_Update_RefreshesLastChecked(t *testing.T) {
	db := newTestDB(t, "control_update")
	service := NewControlService(db)

	control := models.Control{Title: "Access Review"}
	require.NoError(t, service.Create(&control, nil))
	assert.Nil(t, control.LastChecked)

	status := models.ControlImplemented
	updated, err := service.Update(control.ID, ControlPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ControlImplemented, updated.Status)
	require.NotNil(t, updated.LastChecked)
	assert.WithinDuration(t, time.Now(), *updated.LastChecked, 5*time.Second)

	// Even an empty patch counts as a review
	before := *updated.LastChecked
	time.Sleep(10 * time.Millisecond)
	updated, err = service.Update(control.ID, ControlPatch{})
	require.NoError(t, err)
	require.NotNil(t, updated.LastChecked)
	assert.True(t, !updated.LastChecked.Before(before))

	// Unknown control
	_, err = service.Update(999, ControlPatch{})
	assert.ErrorIs(t, err, ErrControlNotFound)
}

func TestControlService_Evidence(t *testing.T) {
	db := newTestDB(t, "control_evidence")
	service := NewControlService(db)

	control := models.Control{Title: "Change Management"}
	require.NoError(t, service.Create(&control, nil))

	evidence := models.Evidence{ControlID: control.ID, Title: "Approval workflow screenshot", FileRef: "blob:abc123"}
	require.NoError(t, service.AddEvidence(&evidence))

	// Attaching evidence refreshes the control's last_checked
	got, err := service.GetByID(control.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastChecked)

	list, err := service.ListEvidence(control.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Evidence for unknown controls is rejected
	bad := models.Evidence{ControlID: 999, Title: "Nowhere"}
	assert.ErrorIs(t, service.AddEvidence(&bad), ErrControlNotFound)

	require.NoError(t, service.DeleteEvidence(evidence.ID))
	assert.ErrorIs(t, service.DeleteEvidence(evidence.ID), ErrEvidenceNotFound)
}

func TestControlService_Delete_Cascades(t *testing.T) {
	db := newTestDB(t, "control_delete")
	service := NewControlService(db)

	framework := models.Framework{Name: "ISO 27001", Version: "2013"}
	require.NoError(t, db.Create(&framework).Error)
	req := models.Requirement{FrameworkID: framework.ID, Code: "A.12.1.2", Title: "Change Management"}
	require.NoError(t, db.Create(&req).Error)

	control := models.Control{Title: "Doomed Control"}
	require.NoError(t, service.Create(&control, []uint{req.ID}))
	require.NoError(t, service.AddEvidence(&models.Evidence{ControlID: control.ID, Title: "Proof"}))

	// A risk mitigated by this control
	risks := NewRiskService(db)
	risk := models.Risk{Title: "Unauthorized change", Likelihood: 3, Impact: 4}
	require.NoError(t, risks.Create(&risk, []uint{control.ID}, 0))

	require.NoError(t, service.Delete(control.ID))

	_, err := service.GetByID(control.ID)
	assert.ErrorIs(t, err, ErrControlNotFound)

	// Evidence went with it
	var evidenceCount int64
	db.Model(&models.Evidence{}).Where("control_id = ?", control.ID).Count(&evidenceCount)
	assert.Zero(t, evidenceCount)

	// The risk survives without the reference
	got, err := risks.GetByID(risk.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MitigatingControls)

	var joinCount int64
	db.Table("risk_controls").Where("control_id = ?", control.ID).Count(&joinCount)
	assert.Zero(t, joinCount)

	assert.ErrorIs(t, service.Delete(control.ID), ErrControlNotFound)
}
