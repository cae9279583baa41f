package main

import (
	"testing"

	"github.com/hotelcapital/raise-engine/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestParsePipelineConfig(t *testing.T) {
	t.Setenv("PIPELINE_BATCH_SIZE", "200")
	t.Setenv("PIPELINE_INTERVAL_MINUTES", "abc")
	t.Setenv("PIPELINE_MAX_CONCURRENT", "-3")
	t.Setenv("PIPELINE_RESCORE_OLDER_THAN_DAYS", "7")

	config := parsePipelineConfig(services.DefaultPipelineConfig())

	assert.Equal(t, 200, config.BatchSize)
	assert.Equal(t, 60, config.IntervalMinutes)
	assert.Equal(t, 10, config.MaxConcurrent)
	assert.Equal(t, 7, config.RescoreOlderThanDays)
}

func TestParsePipelineConfig_NoOverrides(t *testing.T) {
	base := services.PipelineConfig{BatchSize: 5, IntervalMinutes: 1, MaxConcurrent: 2, RescoreOlderThanDays: 3}
	assert.Equal(t, base, parsePipelineConfig(base))
}
