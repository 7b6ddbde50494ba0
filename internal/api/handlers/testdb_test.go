package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

// openTestDB creates a SQLite in-memory DB unique per test so parallel
// tests never see each other's rows.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
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

// asUser injects a verified session into the request context the same
// way the auth middleware does after validating a token.
func asUser(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		UUID:     uuid.New().String(),
		Email:    email,
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}
