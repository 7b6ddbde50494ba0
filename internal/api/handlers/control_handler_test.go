package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

func setupControlHandler(t *testing.T) (*ControlHandler, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewControlHandler(services.NewControlService(db)), db
}

func controlRouter(handler *ControlHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(userID, models.RoleComplianceOfficer))
	r.POST("/controls", handler.Create)
	r.GET("/controls", handler.List)
	r.GET("/controls/:id", handler.Get)
	r.PUT("/controls/:id", handler.Update)
	r.DELETE("/controls/:id", handler.Delete)
	r.POST("/evidence", handler.CreateEvidence)
	r.GET("/evidence", handler.ListEvidence)
	r.DELETE("/evidence/:id", handler.DeleteEvidence)
	return r
}

func TestControlHandler_CreateWithRequirements(t *testing.T) {
	handler, db := setupControlHandler(t)
	r := controlRouter(handler, 1)

	framework := models.Framework{Name: "SOC 2", Version: "2017"}
	require.NoError(t, db.Create(&framework).Error)
	requirement := models.Requirement{FrameworkID: framework.ID, Code: "CC1.1", Title: "Integrity"}
	require.NoError(t, db.Create(&requirement).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/controls", gin.H{
		"title":           "Access Reviews",
		"description":     "Quarterly entitlement reviews",
		"requirement_ids": []uint{requirement.ID},
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	var control models.Control
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &control))
	assert.Equal(t, models.ControlNotStarted, control.Status)

	fetched, err := services.NewControlService(db).GetByID(control.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Requirements, 1)
	assert.Equal(t, "CC1.1", fetched.Requirements[0].Code)
}

func TestControlHandler_CreateInvalidStatus(t *testing.T) {
	handler, _ := setupControlHandler(t)
	r := controlRouter(handler, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/controls", gin.H{
		"title":  "Bad Status",
		"status": "half-done",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestControlHandler_CreateInactiveOwner(t *testing.T) {
	handler, db := setupControlHandler(t)
	r := controlRouter(handler, 1)

	owner := seedUser(t, db, "gone@example.com", models.RoleComplianceOfficer)
	require.NoError(t, db.Model(owner).Update("is_active", false).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/controls", gin.H{
		"title":    "Orphaned",
		"owner_id": owner.ID,
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestControlHandler_EvidenceRecordsUploader(t *testing.T) {
	handler, db := setupControlHandler(t)
	uploader := seedUser(t, db, "uploader@example.com", models.RoleComplianceOfficer)
	r := controlRouter(handler, uploader.ID)

	control := models.Control{Title: "Backups"}
	require.NoError(t, services.NewControlService(db).Create(&control, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/evidence", gin.H{
		"control_id": control.ID,
		"title":      "Restore drill report",
		"file_ref":   "s3://evidence/restore-2025.pdf",
		"file_name":  "restore-2025.pdf",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	var evidence models.Evidence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evidence))
	require.NotNil(t, evidence.UploadedByID)
	assert.Equal(t, uploader.ID, *evidence.UploadedByID)
}

func TestControlHandler_EvidenceUnknownControl(t *testing.T) {
	handler, _ := setupControlHandler(t)
	r := controlRouter(handler, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/evidence", gin.H{
		"control_id": 424242,
		"title":      "Floating evidence",
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestControlHandler_ListEvidenceFiltered(t *testing.T) {
	handler, db := setupControlHandler(t)
	r := controlRouter(handler, 1)
	service := services.NewControlService(db)

	first := models.Control{Title: "First"}
	require.NoError(t, service.Create(&first, nil))
	second := models.Control{Title: "Second"}
	require.NoError(t, service.Create(&second, nil))

	require.NoError(t, service.AddEvidence(&models.Evidence{ControlID: first.ID, Title: "A"}))
	require.NoError(t, service.AddEvidence(&models.Evidence{ControlID: second.ID, Title: "B"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/evidence?control_id=%d", second.ID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listed []models.Evidence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "B", listed[0].Title)
}

func TestControlHandler_DeleteEvidence(t *testing.T) {
	handler, db := setupControlHandler(t)
	r := controlRouter(handler, 1)
	service := services.NewControlService(db)

	control := models.Control{Title: "Logging"}
	require.NoError(t, service.Create(&control, nil))
	evidence := models.Evidence{ControlID: control.ID, Title: "Log sample"}
	require.NoError(t, service.AddEvidence(&evidence))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/evidence/%d", evidence.ID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/evidence/%d", evidence.ID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestControlHandler_UpdateStatus(t *testing.T) {
	handler, db := setupControlHandler(t)
	r := controlRouter(handler, 1)

	control := models.Control{Title: "MFA"}
	require.NoError(t, services.NewControlService(db).Create(&control, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "PUT", fmt.Sprintf("/controls/%d", control.ID), gin.H{
		"status": "implemented",
	}))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Control
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.ControlImplemented, updated.Status)
	assert.NotNil(t, updated.LastChecked)
}
