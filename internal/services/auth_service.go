package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/config"
	"github.com/meridian-grc/meridian/backend/internal/logger"
	"github.com/meridian-grc/meridian/backend/internal/metrics"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	tokenTTL        = 24 * time.Hour
)

// Claims is the session credential passed to every core call by the
// transport layer. Expiry rides on RegisteredClaims.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, secret: []byte(cfg.JWTSecret)}
}

// Register creates a new account. The first account ever created becomes
// an admin so the platform can be bootstrapped; everyone after that is an
// employee until an admin promotes them.
func (s *AuthService) Register(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	role := models.RoleEmployee
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		role = models.RoleAdmin
	}

	user := models.User{
		UUID:     uuid.New().String(),
		Email:    email,
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns a signed session token.
// Repeated failures lock the account for a cooldown period.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return "", ErrAccountLocked
	}

	if !user.CheckPassword(password) {
		attempts := user.FailedLoginAttempts + 1
		updates := map[string]interface{}{"failed_login_attempts": attempts}
		if attempts >= maxFailedLogins {
			lockedUntil := time.Now().Add(lockoutDuration)
			updates["locked_until"] = lockedUntil
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			logger.WithError(err).WithFields(map[string]interface{}{"user_id": user.ID}).
				Error("Failed to record failed login attempt")
		}
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", ErrAccountInactive
	}

	now := time.Now()
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login":            now,
	}).Error; err != nil {
		return "", err
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", err
	}
	metrics.IncLogin()
	return token, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetUserByID fetches a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password before setting a new one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.Model(user).Update("password_hash", user.PasswordHash).Error
}
