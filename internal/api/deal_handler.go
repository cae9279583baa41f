package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/services"
)

// DealHandler handles deal operations
type DealHandler struct {
	deals services.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(deals services.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// dealView adds derived raise progress to a deal
type dealView struct {
	models.Deal
	Progress float64 `json:"raise_progress"`
}

func viewDeal(d *models.Deal) dealView {
	return dealView{Deal: *d, Progress: d.RaiseProgress()}
}

// ListDeals returns deals newest first, optionally filtered by ?status=
func (h *DealHandler) ListDeals(c *gin.Context) {
	deals, err := h.deals.List(c.Request.Context(), strings.ToUpper(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]dealView, 0, len(deals))
	for i := range deals {
		views = append(views, viewDeal(&deals[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      views,
		"count":     len(views),
		"timestamp": time.Now(),
	})
}

// GetDeal returns a single deal
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, ok := pathUUID(c, "id", "deal")
	if !ok {
		return
	}

	deal, err := h.deals.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": viewDeal(deal), "timestamp": time.Now()})
}

// CreateDeal stores a new draft deal
func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req models.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	deal, err := h.deals.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": viewDeal(deal), "timestamp": time.Now()})
}

// UpdateDealStatus moves a deal to a new lifecycle status
func (h *DealHandler) UpdateDealStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id", "deal")
	if !ok {
		return
	}

	var req models.UpdateDealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	change, err := h.deals.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      viewDeal(change.Deal),
		"before":    change.Before,
		"after":     change.After,
		"timestamp": time.Now(),
	})
}
