package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

type ControlHandler struct {
	service *services.ControlService
}

func NewControlHandler(service *services.ControlService) *ControlHandler {
	return &ControlHandler{service: service}
}

type CreateControlRequest struct {
	Title                 string               `json:"title" binding:"required"`
	Description           string               `json:"description"`
	Status                models.ControlStatus `json:"status"`
	OwnerID               *uint                `json:"owner_id"`
	ImplementationDetails string               `json:"implementation_details"`
	RequirementIDs        []uint               `json:"requirement_ids"`
}

func (h *ControlHandler) Create(c *gin.Context) {
	var req CreateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control := models.Control{
		Title:                 req.Title,
		Description:           req.Description,
		Status:                req.Status,
		OwnerID:               req.OwnerID,
		ImplementationDetails: req.ImplementationDetails,
	}
	if err := h.service.Create(&control, req.RequirementIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, control)
}

func (h *ControlHandler) List(c *gin.Context) {
	controls, err := h.service.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controls)
}

func (h *ControlHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid control ID"})
		return
	}

	control, err := h.service.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, control)
}

type UpdateControlRequest struct {
	Title                 *string               `json:"title"`
	Description           *string               `json:"description"`
	Status                *models.ControlStatus `json:"status"`
	OwnerID               *uint                 `json:"owner_id"`
	ImplementationDetails *string               `json:"implementation_details"`
	RequirementIDs        []uint                `json:"requirement_ids"`
}

func (h *ControlHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid control ID"})
		return
	}

	var req UpdateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control, err := h.service.Update(uint(id), services.ControlPatch{
		Title:                 req.Title,
		Description:           req.Description,
		Status:                req.Status,
		OwnerID:               req.OwnerID,
		ImplementationDetails: req.ImplementationDetails,
		RequirementIDs:        req.RequirementIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, control)
}

func (h *ControlHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid control ID"})
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Control deleted successfully"})
}

// CreateEvidenceRequest carries evidence metadata. FileRef is the opaque
// handle returned by the file-storage collaborator; the core never reads
// the file content.
type CreateEvidenceRequest struct {
	ControlID   uint   `json:"control_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	FileRef     string `json:"file_ref"`
	FileName    string `json:"file_name"`
}

func (h *ControlHandler) CreateEvidence(c *gin.Context) {
	var req CreateEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evidence := models.Evidence{
		ControlID:   req.ControlID,
		Title:       req.Title,
		Description: req.Description,
		FileRef:     req.FileRef,
		FileName:    req.FileName,
	}
	if userID, exists := c.Get("userID"); exists {
		uid := userID.(uint)
		evidence.UploadedByID = &uid
	}

	if err := h.service.AddEvidence(&evidence); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evidence)
}

func (h *ControlHandler) ListEvidence(c *gin.Context) {
	var controlID uint
	if raw := c.Query("control_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid control ID"})
			return
		}
		controlID = uint(id)
	}

	evidence, err := h.service.ListEvidence(controlID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evidence)
}

func (h *ControlHandler) DeleteEvidence(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid evidence ID"})
		return
	}

	if err := h.service.DeleteEvidence(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evidence deleted successfully"})
}
