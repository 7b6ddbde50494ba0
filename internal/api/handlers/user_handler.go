package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

func userView(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"uuid":       u.UUID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"last_login": u.LastLogin,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// ListUsers returns all users (admin and compliance officers).
func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("full_name asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	result := make([]gin.H, len(users))
	for i, u := range users {
		result[i] = userView(u)
	}
	c.JSON(http.StatusOK, result)
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, userView(user))
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	FullName string      `json:"full_name" binding:"required"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     models.Role `json:"role"`
}

// CreateUser creates a new user account (admin only).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == "" {
		req.Role = models.RoleEmployee
	}
	if !req.Role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	email := strings.ToLower(req.Email)
	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}

	user := models.User{
		UUID:     uuid.New().String(),
		Email:    email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, userView(user))
}

// UpdateUserRequest represents the request body for updating a user.
// Email is deliberately absent: it is immutable after creation.
type UpdateUserRequest struct {
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	IsActive *bool       `json:"is_active"`
}

// UpdateUser updates a user's name, role or active flag (admin only).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Role != "" {
		if !req.Role.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}
