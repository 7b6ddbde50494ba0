package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/config"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

func TestAuthService_Register(t *testing.T) {
	db := newTestDB(t, "auth_register")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	// First user becomes admin
	admin, err := service.Register("admin@example.com", "password123", "Admin User")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "password123", admin.PasswordHash)

	// Everyone after that is an employee
	user, err := service.Register("user@example.com", "password123", "Regular User")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)

	// Duplicate email is rejected, case-insensitively
	_, err = service.Register("USER@example.com", "password123", "Dup")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	db := newTestDB(t, "auth_login")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := service.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	token, err := service.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Wrong password
	token, err = service.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)

	// Unknown email looks identical to wrong password
	_, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Account locks after repeated failures
	for i := 0; i < 4; i++ {
		_, err = service.Login("test@example.com", "wrongpassword")
		assert.Error(t, err)
	}

	var user models.User
	db.Where("email = ?", "test@example.com").First(&user)
	assert.Equal(t, 5, user.FailedLoginAttempts)
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.After(time.Now()))

	// Correct password while locked still fails
	_, err = service.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Expired lock clears on the next successful login
	past := time.Now().Add(-time.Minute)
	db.Model(&user).Update("locked_until", past)
	token, err = service.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Re-read into a zeroed struct: gorm's scan leaves pointer fields
	// untouched when the column is NULL, so reusing the populated struct
	// would retain the stale lock time.
	user = models.User{}
	db.Where("email = ?", "test@example.com").First(&user)
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.NotNil(t, user.LastLogin)
}

func TestAuthService_Login_Inactive(t *testing.T) {
	db := newTestDB(t, "auth_inactive")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := service.Register("gone@example.com", "password123", "Former Employee")
	require.NoError(t, err)
	db.Model(user).Update("is_active", false)

	_, err = service.Login("gone@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := newTestDB(t, "auth_validate")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := service.Register("claims@example.com", "password123", "Claims User")
	require.NoError(t, err)

	token, err := service.Login("claims@example.com", "password123")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	// Garbage token
	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret
	other := NewAuthService(db, config.Config{JWTSecret: "other-secret"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_Login_BookkeepingWriteFails(t *testing.T) {
	db := newTestDB(t, "auth_badwrites")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := service.Register("fragile@example.com", "password123", "Fragile")
	require.NoError(t, err)

	broken := errors.New("disk full")
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("fail_updates", func(tx *gorm.DB) { tx.AddError(broken) }))

	// A successful credential check must not hand out a token when the
	// reset of the lockout counters cannot be persisted.
	_, err = service.Login("fragile@example.com", "password123")
	assert.ErrorIs(t, err, broken)

	// A failed credential check still reports bad credentials; the
	// unrecorded attempt is logged, not surfaced.
	_, err = service.Login("fragile@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := newTestDB(t, "auth_changepw")
	service := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := service.Register("pw@example.com", "oldpassword", "PW User")
	require.NoError(t, err)

	// Wrong old password
	err = service.ChangePassword(user.ID, "wrong", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, service.ChangePassword(user.ID, "oldpassword", "newpassword"))

	_, err = service.Login("pw@example.com", "newpassword")
	assert.NoError(t, err)
	_, err = service.Login("pw@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
