package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "FIRM_NAME", "MAX_ACTIVE_ENROLLMENTS", "DEFAULT_DEAL_MINIMUM", "DEFAULT_DEAL_TARGET", "RESCORE_CONCURRENCY", "RESCORE_AUTOSTART", "UNSUBSCRIBE_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "[FIRM]", cfg.FirmName)
	assert.Equal(t, 2, cfg.MaxActiveEnrollments)
	assert.Equal(t, 100000.0, cfg.DefaultDealMinimum)
	assert.Equal(t, 500000.0, cfg.DefaultDealTarget)
	assert.Equal(t, 10, cfg.RescoreConcurrency)
	assert.False(t, cfg.RescoreAutostart)
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("FIRM_NAME", "Harbor Hospitality")
	t.Setenv("MAX_ACTIVE_ENROLLMENTS", "3")
	t.Setenv("DEFAULT_DEAL_TARGET", "750000")
	t.Setenv("RESCORE_BATCH_SIZE", "not-a-number")
	t.Setenv("RESCORE_AUTOSTART", "true")
	t.Setenv("UNSUBSCRIBE_BASE_URL", "https://raise.example.com/api/v1/investors/")

	cfg := New()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "Harbor Hospitality", cfg.FirmName)
	assert.Equal(t, 3, cfg.MaxActiveEnrollments)
	assert.Equal(t, 750000.0, cfg.DefaultDealTarget)
	assert.Equal(t, 50, cfg.RescoreBatchSize, "invalid numbers fall back to the default")
	assert.True(t, cfg.RescoreAutostart)
	assert.Equal(t, "https://raise.example.com/api/v1/investors/abc/opt-out", cfg.UnsubscribeLink("abc"))
}

func TestGetAllowedOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "https://a.example.com,https://b.example.com"}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.GetAllowedOrigins())

	cfg = &Config{Environment: "production"}
	assert.Empty(t, cfg.GetAllowedOrigins())

	cfg = &Config{Environment: "development"}
	assert.Contains(t, cfg.GetAllowedOrigins(), "http://localhost:3000")
}
