package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/services"
)

// Sort keys accepted by the investor list, mapped to repository columns
var investorSortKeys = map[string]string{
	"qualityScore": repository.SortQualityScore,
	"createdAt":    repository.SortCreatedAt,
	"lastName":     repository.SortLastName,
	"lastScoredAt": repository.SortLastScoredAt,
}

// InvestorHandler handles investor operations
type InvestorHandler struct {
	investors services.InvestorService
	scoring   services.ScoringService
	outreach  services.OutreachService
}

// NewInvestorHandler creates a new investor handler
func NewInvestorHandler(investors services.InvestorService, scoring services.ScoringService, outreach services.OutreachService) *InvestorHandler {
	return &InvestorHandler{
		investors: investors,
		scoring:   scoring,
		outreach:  outreach,
	}
}

// ListInvestors returns a page of contactable investors
func (h *InvestorHandler) ListInvestors(c *gin.Context) {
	query := services.ListInvestorsQuery{
		AccreditedStatus: c.Query("accreditedStatus"),
		Search:           c.Query("search"),
		SortBy:           investorSortKeys[c.DefaultQuery("sort", "qualityScore")],
		Ascending:        strings.EqualFold(c.Query("order"), "asc"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		query.Limit = limit
	}
	if minScore := c.Query("minScore"); minScore != "" {
		parsed, err := strconv.Atoi(minScore)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minScore must be an integer", "code": "INVALID_INPUT"})
			return
		}
		query.MinScore = &parsed
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}

	page, err := h.investors.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       page.Investors,
		"pagination": page.Pagination,
		"timestamp":  time.Now(),
	})
}

// GetInvestor returns a single investor
func (h *InvestorHandler) GetInvestor(c *gin.Context) {
	id, ok := pathUUID(c, "id", "investor")
	if !ok {
		return
	}

	investor, err := h.investors.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": investor, "timestamp": time.Now()})
}

// CreateInvestor stores a new investor and returns it with its initial score
func (h *InvestorHandler) CreateInvestor(c *gin.Context) {
	var req models.CreateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	investor, breakdown, err := h.investors.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":      investor,
		"score":     breakdown,
		"timestamp": time.Now(),
	})
}

// ScoreRequest optionally names the deal to score against
type ScoreRequest struct {
	DealID *uuid.UUID `json:"deal_id"`
}

// ScoreInvestor recomputes and stores an investor's quality score
func (h *InvestorHandler) ScoreInvestor(c *gin.Context) {
	id, ok := pathUUID(c, "id", "investor")
	if !ok {
		return
	}

	var req ScoreRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	result, err := h.scoring.RescoreInvestor(c.Request.Context(), id, req.DealID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"investor":   result.Investor,
			"score":      result.Breakdown,
			"dimensions": result.Breakdown.Dimensions(),
		},
		"timestamp": time.Now(),
	})
}

// OptOut handles unsubscribe links. It is reachable without authentication
// and succeeds on repeat requests.
func (h *InvestorHandler) OptOut(c *gin.Context) {
	id, ok := pathUUID(c, "id", "investor")
	if !ok {
		return
	}

	result, err := h.outreach.OptOut(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully opted out",
		"data":    result,
	})
}
