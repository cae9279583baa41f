package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand_PassesCleanContent(t *testing.T) {
	out, err := execute(t, "We are hosting an informational call about the Harbor Inn renovation.",
		"check", "--prior")

	require.NoError(t, err)
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "[WARNING] PAST_PERFORMANCE_DISCLAIMER")
}

func TestCheckCommand_BlocksProhibitedLanguage(t *testing.T) {
	out, err := execute(t, "This is a risk-free, once in a lifetime deal.", "check", "--prior")

	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "NO_RISK_FREE")
	assert.Contains(t, out, "NO_HYPE")
}

func TestCheckCommand_506BWithoutRelationship(t *testing.T) {
	out, err := execute(t, "Hello from the team.", "check")

	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "506B_PRIOR_RELATIONSHIP")
}

func TestCheckCommand_HTMLFileJSONOutput(t *testing.T) {
	path := writeFile(t, "email.html",
		`<html><head><style>p{}</style></head><body><p>Targeting an 18% IRR</p><p>guaranteed returns</p></body></html>`)

	out, err := execute(t, "", "check", "--file", path, "--offering", "REG_D_506C", "--accredited", "THIRD_PARTY_VERIFIED", "--json")
	assert.ErrorIs(t, err, errCheckFailed)

	var result struct {
		Passed     bool `json:"passed"`
		Violations []struct {
			Rule string `json:"rule"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Passed)

	rules := []string{}
	for _, v := range result.Violations {
		rules = append(rules, v.Rule)
	}
	assert.Contains(t, rules, "NO_PERFORMANCE_GUARANTEE")
	assert.Contains(t, rules, "QUALIFY_RETURN_PROJECTIONS")
}

func TestCheckCommand_UnknownOffering(t *testing.T) {
	_, err := execute(t, "Hello", "check", "--offering", "REG_A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown offering type")
}

func TestScoreCommand(t *testing.T) {
	path := writeFile(t, "investor.json", `{
		"accredited_status": "THIRD_PARTY_VERIFIED",
		"hospitality_experience": "OPERATOR",
		"check_size_min": 100000,
		"check_size_max": 500000,
		"asset_class_prefs": ["hotels"],
		"prior_hotel_investments": 3,
		"is_prior_investor": true
	}`)

	out, err := execute(t, "", "score", "--file", path)
	require.NoError(t, err)

	var body struct {
		Score struct {
			Total         int    `json:"total"`
			Accreditation int    `json:"accreditation"`
			Tier          string `json:"tier"`
		} `json:"score"`
		Dimensions []map[string]interface{} `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 100, body.Score.Accreditation)
	assert.NotEmpty(t, body.Score.Tier)
	assert.Len(t, body.Dimensions, 7)
}

func TestScoreCommand_InvalidInput(t *testing.T) {
	path := writeFile(t, "investor.json", `{"accredited_status": "MAYBE", "hospitality_experience": "NONE"}`)

	_, err := execute(t, "", "score", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid score input")
}

func TestScoreCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "", "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestDisclaimersCommand(t *testing.T) {
	out, err := execute(t, "", "disclaimers", "--firm", "Harbor Lodging Partners")
	require.NoError(t, err)

	assert.Contains(t, out, "EMAIL FOOTER")
	assert.Contains(t, out, "Harbor Lodging Partners is not a registered broker-dealer")
	assert.Contains(t, out, "Reply STOP to opt out")
}

func TestCreateUserCommand_RejectsBadInputBeforeConnecting(t *testing.T) {
	_, err := execute(t, "", "create-user", "--email", "ops@example.com", "--password", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")

	_, err = execute(t, "", "create-user", "--email", "ops@example.com", "--password", "longenough", "--role", "owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}
