package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

// newTestDB opens a private in-memory database migrated with the full
// schema. Each test passes a distinct name so state never leaks between
// tests in the package.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Framework{},
		&models.Requirement{},
		&models.Control{},
		&models.Evidence{},
		&models.Policy{},
		&models.PolicyVersion{},
		&models.Acknowledgment{},
		&models.Risk{},
		&models.RiskHistory{},
		&models.Alert{},
		&models.NotificationProvider{},
	))
	return db
}

func createActiveUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := models.User{
		UUID:     uuid.New().String(),
		Email:    email,
		FullName: "Test " + email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)
	return &user
}
