package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanBody = "Past performance does not guarantee future results. We are not a registered broker-dealer."

func TestComplianceService_CheckContent_NoInvestorDefaults(t *testing.T) {
	env := newTestEnv()

	result, err := env.services.Compliance.CheckContent(context.Background(), &ComplianceCheckRequest{Content: cleanBody})
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.True(t, result.HasViolation(compliance.Rule506BPriorRelationship), "offering defaults to 506(b) with no relationship")
}

func TestComplianceService_CheckContent_UsesInvestor(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvestor(strongInvestor())

	result, err := env.services.Compliance.CheckContent(context.Background(), &ComplianceCheckRequest{
		Content:    cleanBody,
		InvestorID: &inv.ID,
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Warnings)

	env.investors.investors[inv.ID].OptedOut = true
	result, err = env.services.Compliance.CheckContent(context.Background(), &ComplianceCheckRequest{
		Content:    cleanBody,
		InvestorID: &inv.ID,
	})
	require.NoError(t, err)
	assert.True(t, result.HasViolation(compliance.RuleOptOutRespected))
}

func TestComplianceService_CheckContent_UnknownInvestorFallsBack(t *testing.T) {
	env := newTestEnv()
	missing := uuid.New()

	result, err := env.services.Compliance.CheckContent(context.Background(), &ComplianceCheckRequest{
		Content:      cleanBody,
		OfferingType: models.OfferingRegD506C,
		InvestorID:   &missing,
	})
	require.NoError(t, err)
	assert.True(t, result.Passed, "unverified investors are not blocked under 506(c)")
}

func TestComplianceService_CheckContent_HTMLBody(t *testing.T) {
	env := newTestEnv()

	result, err := env.services.Compliance.CheckContent(context.Background(), &ComplianceCheckRequest{
		Content:      "<p>A <b>risk</b>-free stay</p><p>" + cleanBody + "</p>",
		OfferingType: models.OfferingRegD506C,
	})
	require.NoError(t, err)
	assert.True(t, result.HasViolation(compliance.RuleNoRiskFree))
}

func TestComplianceService_RenderEmail(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()

	body := env.services.Compliance.RenderEmail("Hello Dana,", id)

	assert.True(t, strings.HasPrefix(body, "Hello Dana,\n\n---\n"))
	assert.Contains(t, body, "https://crm.example.com/api/v1/investors/"+id.String()+"/opt-out")
	assert.Contains(t, body, "Harbor Lodging Partners is not a registered broker-dealer")
	assert.NotContains(t, body, compliance.UnsubscribePlaceholder)

	assert.Contains(t, env.services.Compliance.Disclaimers().SMS, "Harbor Lodging Partners")
}
