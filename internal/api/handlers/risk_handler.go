package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

type RiskHandler struct {
	risks *services.RiskService
}

func NewRiskHandler(risks *services.RiskService) *RiskHandler {
	return &RiskHandler{risks: risks}
}

type CreateRiskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Likelihood  int    `json:"likelihood" binding:"required,min=1,max=5"`
	Impact      int    `json:"impact" binding:"required,min=1,max=5"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	OwnerID     *uint  `json:"owner_id"`
	ControlIDs  []uint `json:"control_ids"`
}

func (h *RiskHandler) Create(c *gin.Context) {
	var req CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	risk := models.Risk{
		Title:       req.Title,
		Description: req.Description,
		Likelihood:  req.Likelihood,
		Impact:      req.Impact,
		Category:    req.Category,
		Status:      models.RiskStatus(req.Status),
		OwnerID:     req.OwnerID,
	}

	if err := h.risks.Create(&risk, req.ControlIDs, userID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, risk)
}

func (h *RiskHandler) List(c *gin.Context) {
	risks, err := h.risks.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, risks)
}

func (h *RiskHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk ID"})
		return
	}

	risk, err := h.risks.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, risk)
}

type UpdateRiskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Likelihood  *int               `json:"likelihood"`
	Impact      *int               `json:"impact"`
	Category    *string            `json:"category"`
	Status      *models.RiskStatus `json:"status"`
	OwnerID     *uint              `json:"owner_id"`
	ControlIDs  []uint             `json:"control_ids"`
}

func (h *RiskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk ID"})
		return
	}

	var req UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	risk, err := h.risks.Update(uint(id), services.RiskPatch{
		Title:       req.Title,
		Description: req.Description,
		Likelihood:  req.Likelihood,
		Impact:      req.Impact,
		Category:    req.Category,
		Status:      req.Status,
		OwnerID:     req.OwnerID,
		ControlIDs:  req.ControlIDs,
	}, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, risk)
}

func (h *RiskHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk ID"})
		return
	}

	if err := h.risks.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Risk deleted successfully"})
}

func (h *RiskHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk ID"})
		return
	}

	history, err := h.risks.History(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
