package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

func TestFrameworkService_Create(t *testing.T) {
	db := newTestDB(t, "framework_create")
	service := NewFrameworkService(db)

	framework := models.Framework{Name: "SOC 2 Type 2", Version: "2017", Description: "Trust services criteria"}
	require.NoError(t, service.Create(&framework))
	assert.NotZero(t, framework.ID)
	assert.NotEmpty(t, framework.UUID)

	// Same name and version is a conflict
	dup := models.Framework{Name: "SOC 2 Type 2", Version: "2017"}
	assert.ErrorIs(t, service.Create(&dup), ErrFrameworkExists)

	// Same name, different version is fine
	v2 := models.Framework{Name: "SOC 2 Type 2", Version: "2022"}
	assert.NoError(t, service.Create(&v2))
}

func TestFrameworkService_Requirements(t *testing.T) {
	db := newTestDB(t, "framework_requirements")
	service := NewFrameworkService(db)

	framework := models.Framework{Name: "ISO 27001", Version: "2013"}
	require.NoError(t, service.Create(&framework))

	req := models.Requirement{FrameworkID: framework.ID, Code: "A.9.2.1", Title: "User Registration"}
	require.NoError(t, service.CreateRequirement(&req))

	// Duplicate code within the framework
	dup := models.Requirement{FrameworkID: framework.ID, Code: "A.9.2.1", Title: "Duplicate"}
	assert.ErrorIs(t, service.CreateRequirement(&dup), ErrRequirementExists)

	// Unknown framework
	orphan := models.Requirement{FrameworkID: 999, Code: "X.1", Title: "Orphan"}
	assert.ErrorIs(t, service.CreateRequirement(&orphan), ErrFrameworkNotFound)

	// Same code in another framework is allowed
	other := models.Framework{Name: "SOC 2", Version: "2017"}
	require.NoError(t, service.Create(&other))
	shared := models.Requirement{FrameworkID: other.ID, Code: "A.9.2.1", Title: "Shared Code"}
	assert.NoError(t, service.CreateRequirement(&shared))

	reqs, err := service.ListRequirements(framework.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	// Get preloads requirements
	got, err := service.GetByID(framework.ID)
	require.NoError(t, err)
	assert.Len(t, got.Requirements, 1)

	_, err = service.GetByID(999)
	assert.ErrorIs(t, err, ErrFrameworkNotFound)
}
