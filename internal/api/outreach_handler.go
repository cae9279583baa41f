package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/services"
)

// OutreachHandler handles compliance checks, sequences and enrollment
type OutreachHandler struct {
	outreach   services.OutreachService
	compliance services.ComplianceService
}

// NewOutreachHandler creates a new outreach handler
func NewOutreachHandler(outreach services.OutreachService, compliance services.ComplianceService) *OutreachHandler {
	return &OutreachHandler{
		outreach:   outreach,
		compliance: compliance,
	}
}

// ComplianceCheck validates content before it is sent
func (h *OutreachHandler) ComplianceCheck(c *gin.Context) {
	var req services.ComplianceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.compliance.CheckContent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result, "timestamp": time.Now()})
}

// GetDisclaimers returns the firm's channel disclaimers
func (h *OutreachHandler) GetDisclaimers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.compliance.Disclaimers()})
}

// CreateSequence stores a new outreach sequence for a deal
func (h *OutreachHandler) CreateSequence(c *gin.Context) {
	var req models.CreateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	seq, err := h.outreach.CreateSequence(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": seq, "timestamp": time.Now()})
}

// ApproveSequence runs the compliance review over a sequence's steps
func (h *OutreachHandler) ApproveSequence(c *gin.Context) {
	id, ok := pathUUID(c, "id", "sequence")
	if !ok {
		return
	}

	result, err := h.outreach.ApproveSequence(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result, "timestamp": time.Now()})
}

// EnrollRequest lists the investors to enroll
type EnrollRequest struct {
	InvestorIDs []uuid.UUID `json:"investor_ids" binding:"required,min=1,max=500"`
}

// Enroll places investors in an approved sequence
func (h *OutreachHandler) Enroll(c *gin.Context) {
	id, ok := pathUUID(c, "id", "sequence")
	if !ok {
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.outreach.Enroll(c.Request.Context(), id, req.InvestorIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report, "timestamp": time.Now()})
}
