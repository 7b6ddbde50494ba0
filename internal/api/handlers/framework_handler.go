package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

type FrameworkHandler struct {
	service *services.FrameworkService
}

func NewFrameworkHandler(service *services.FrameworkService) *FrameworkHandler {
	return &FrameworkHandler{service: service}
}

type CreateFrameworkRequest struct {
	Name        string `json:"name" binding:"required"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

func (h *FrameworkHandler) Create(c *gin.Context) {
	var req CreateFrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	framework := models.Framework{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
	}
	if err := h.service.Create(&framework); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, framework)
}

func (h *FrameworkHandler) List(c *gin.Context) {
	frameworks, err := h.service.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frameworks)
}

func (h *FrameworkHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid framework ID"})
		return
	}

	framework, err := h.service.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, framework)
}

type CreateRequirementRequest struct {
	FrameworkID uint   `json:"framework_id" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *FrameworkHandler) CreateRequirement(c *gin.Context) {
	var req CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requirement := models.Requirement{
		FrameworkID: req.FrameworkID,
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.service.CreateRequirement(&requirement); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, requirement)
}

func (h *FrameworkHandler) ListRequirements(c *gin.Context) {
	var frameworkID uint
	if raw := c.Query("framework_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid framework ID"})
			return
		}
		frameworkID = uint(id)
	}

	requirements, err := h.service.ListRequirements(frameworkID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirements)
}
