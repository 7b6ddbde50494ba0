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

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

func setupFrameworkHandler(t *testing.T) *gin.Engine {
	t.Helper()
	db := openTestDB(t)
	handler := NewFrameworkHandler(services.NewFrameworkService(db))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(1, models.RoleComplianceOfficer))
	r.POST("/frameworks", handler.Create)
	r.GET("/frameworks", handler.List)
	r.GET("/frameworks/:id", handler.Get)
	r.POST("/requirements", handler.CreateRequirement)
	r.GET("/requirements", handler.ListRequirements)
	return r
}

func TestFrameworkHandler_CreateDuplicate(t *testing.T) {
	r := setupFrameworkHandler(t)

	body := gin.H{"name": "SOC 2", "version": "2017"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/frameworks", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/frameworks", body))
	assert.Equal(t, http.StatusConflict, w.Code)

	// A different version of the same framework is a separate record.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/frameworks", gin.H{"name": "SOC 2", "version": "2022"}))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFrameworkHandler_Requirements(t *testing.T) {
	r := setupFrameworkHandler(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/frameworks", gin.H{"name": "ISO 27001", "version": "2013"}))
	require.Equal(t, http.StatusCreated, w.Code)

	var framework models.Framework
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &framework))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/requirements", gin.H{
		"framework_id": framework.ID,
		"code":         "A.9.4.2",
		"title":        "Secure log-on procedures",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same code within the framework collides.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/requirements", gin.H{
		"framework_id": framework.ID,
		"code":         "A.9.4.2",
		"title":        "Duplicate",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown framework is a 404, not a silent orphan row.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, "POST", "/requirements", gin.H{
		"framework_id": 9999,
		"code":         "X.1",
		"title":        "Orphan",
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/requirements?framework_id=%d", framework.ID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var requirements []models.Requirement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requirements))
	assert.Len(t, requirements, 1)
}
