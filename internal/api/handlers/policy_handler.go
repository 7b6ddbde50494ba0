package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

type PolicyHandler struct {
	policies *services.PolicyService
	acks     *services.AcknowledgmentService
}

func NewPolicyHandler(policies *services.PolicyService, acks *services.AcknowledgmentService) *PolicyHandler {
	return &PolicyHandler{policies: policies, acks: acks}
}

func callerRole(c *gin.Context) models.Role {
	if value, exists := c.Get("role"); exists {
		if role, ok := value.(models.Role); ok {
			return role
		}
	}
	return ""
}

type CreatePolicyRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Version string `json:"version"`
}

func (h *PolicyHandler) Create(c *gin.Context) {
	var req CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy := models.Policy{
		Title:   req.Title,
		Content: req.Content,
		Version: req.Version,
	}
	if err := h.policies.Create(&policy); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, policy)
}

// List returns policies. Employees only ever see published ones; the
// filter runs here, on the caller's verified role, not in the client.
func (h *PolicyHandler) List(c *gin.Context) {
	publishedOnly := callerRole(c) == models.RoleEmployee

	policies, err := h.policies.List(publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *PolicyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	policy, err := h.policies.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if callerRole(c) == models.RoleEmployee && !policy.IsPublished {
		c.JSON(http.StatusForbidden, gin.H{"error": "Policy not accessible"})
		return
	}

	c.JSON(http.StatusOK, policy)
}

type UpdatePolicyRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Version *string `json:"version"`
}

func (h *PolicyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := h.policies.Update(uint(id), services.PolicyPatch{
		Title:   req.Title,
		Content: req.Content,
		Version: req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, policy)
}

func (h *PolicyHandler) Publish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	policy, err := h.policies.Publish(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, policy)
}

func (h *PolicyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	if err := h.policies.Delete(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy deleted successfully"})
}

func (h *PolicyHandler) ListVersions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	versions, err := h.policies.ListVersions(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

type AcknowledgeRequest struct {
	PolicyID uint `json:"policy_id" binding:"required"`
}

// Acknowledge records the caller's acknowledgment of a published policy.
// The user always comes from the verified session, never the body.
// External auditors review compliance but hold no obligations themselves.
func (h *PolicyHandler) Acknowledge(c *gin.Context) {
	if callerRole(c) == models.RoleExternalAuditor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Auditors cannot acknowledge policies"})
		return
	}

	var req AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ack, err := h.acks.Acknowledge(req.PolicyID, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ack)
}

// Pending lists the published policies the caller still owes an
// acknowledgment for.
func (h *PolicyHandler) Pending(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	policies, err := h.acks.PendingFor(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}
