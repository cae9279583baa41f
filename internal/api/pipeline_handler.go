package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/services"
)

// Pipeline is the rescoring pipeline as seen by the HTTP layer
type Pipeline interface {
	Start(config services.PipelineConfig) error
	Stop() error
	RunOnce(ctx context.Context, config services.PipelineConfig) (*services.PipelineStats, error)
	GetStats(ctx context.Context) (services.PipelineStatus, error)
}

// PipelineHandler handles rescoring pipeline management operations
type PipelineHandler struct {
	pipeline Pipeline
	defaults services.PipelineConfig
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipeline Pipeline, defaults services.PipelineConfig) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
		defaults: defaults,
	}
}

// GetPipelineStatus returns the current status of the rescoring pipeline
func (h *PipelineHandler) GetPipelineStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := h.pipeline.GetStats(ctx)
	if err != nil {
		respondError(c, errors.DatabaseError("Failed to get pipeline status", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pipeline_status": status,
		"timestamp":       time.Now(),
	})
}

// StartPipeline starts the periodic rescoring loop
func (h *PipelineHandler) StartPipeline(c *gin.Context) {
	config, ok := h.bindConfig(c)
	if !ok {
		return
	}

	if err := h.pipeline.Start(config); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to start pipeline: " + err.Error(), "code": errors.ErrCodeConflict})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescore pipeline started successfully",
		"config":    config,
		"timestamp": time.Now(),
	})
}

// StopPipeline stops the rescoring loop
func (h *PipelineHandler) StopPipeline(c *gin.Context) {
	if err := h.pipeline.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to stop pipeline: " + err.Error(), "code": errors.ErrCodeConflict})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescore pipeline stopped successfully",
		"timestamp": time.Now(),
	})
}

// RunPipelineOnce runs a single rescoring cycle and reports its counters
func (h *PipelineHandler) RunPipelineOnce(c *gin.Context) {
	config, ok := h.bindConfig(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	stats, err := h.pipeline.RunOnce(ctx, config)
	if err != nil {
		respondError(c, errors.ServiceError("Pipeline execution failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescore cycle completed",
		"stats":     stats,
		"summary":   stats.Summary(),
		"timestamp": time.Now(),
	})
}

// bindConfig reads an optional config body over the defaults. Non-positive
// fields keep their default.
func (h *PipelineHandler) bindConfig(c *gin.Context) (services.PipelineConfig, bool) {
	var req services.PipelineConfig
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return req, false
		}
	}

	config := h.defaults
	if req.BatchSize > 0 {
		config.BatchSize = req.BatchSize
	}
	if req.IntervalMinutes > 0 {
		config.IntervalMinutes = req.IntervalMinutes
	}
	if req.MaxConcurrent > 0 {
		config.MaxConcurrent = req.MaxConcurrent
	}
	if req.RescoreOlderThanDays > 0 {
		config.RescoreOlderThanDays = req.RescoreOlderThanDays
	}
	return config, true
}
