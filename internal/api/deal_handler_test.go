package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestDeal(s *testServer, status string) *models.Deal {
	d := &models.Deal{
		ID:                uuid.New(),
		Name:              "Austin Select Service",
		PropertyName:      "Hyatt Place Austin",
		OfferingType:      models.OfferingRegD506B,
		Status:            status,
		TotalRaise:        12000000,
		RaisedToDate:      3000000,
		MinimumInvestment: 50000,
	}
	s.deals.deals[d.ID] = d
	return d
}

func TestListDeals(t *testing.T) {
	s := newTestServer()
	addTestDeal(s, models.DealRaising)
	addTestDeal(s, models.DealDraft)

	w := s.do(t, http.MethodGet, "/api/v1/deals?status=raising", models.RoleViewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DealRaising, s.deals.lastStatus, "status filter is upper-cased")

	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])
	deal := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(25), deal["raise_progress"])
	assert.Equal(t, "Hyatt Place Austin", deal["property_name"])

	w = s.do(t, http.MethodGet, "/api/v1/deals", models.RoleViewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])
}

func TestListDeals_RequiresToken(t *testing.T) {
	s := newTestServer()
	w := s.do(t, http.MethodGet, "/api/v1/deals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListDeals_HidesInternalErrors(t *testing.T) {
	s := newTestServer()
	s.deals.err = errors.New("pq: connection refused")

	w := s.do(t, http.MethodGet, "/api/v1/deals", models.RoleViewer, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestGetDeal(t *testing.T) {
	s := newTestServer()
	d := addTestDeal(s, models.DealRaising)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/api/v1/deals/" + d.ID.String(), http.StatusOK},
		{"missing", "/api/v1/deals/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/api/v1/deals/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, models.RoleViewer, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreateDeal_RoleGate(t *testing.T) {
	s := newTestServer()
	req := gin.H{
		"name":               "Nashville Boutique",
		"property_name":      "The Gulch Hotel",
		"offering_type":      "REG_D_506C",
		"total_raise":        8000000,
		"minimum_investment": 100000,
	}

	for _, role := range []models.UserRole{models.RoleViewer, models.RoleAnalyst} {
		w := s.do(t, http.MethodPost, "/api/v1/deals", role, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
	}
	assert.Empty(t, s.deals.deals)

	w := s.do(t, http.MethodPost, "/api/v1/deals", models.RoleManager, req)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "DRAFT", data["status"])
	assert.Equal(t, "REG_D_506C", data["offering_type"])
	assert.Len(t, s.deals.deals, 1)
}

func TestCreateDeal_Validation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"property_name": "Gulch", "total_raise": 1000000, "minimum_investment": 25000}},
		{"unknown offering", gin.H{"name": "N", "property_name": "Gulch", "offering_type": "REG_A", "total_raise": 1000000, "minimum_investment": 25000}},
		{"non-positive raise", gin.H{"name": "N", "property_name": "Gulch", "total_raise": 0, "minimum_investment": 25000}},
		{"negative minimum", gin.H{"name": "N", "property_name": "Gulch", "total_raise": 1000000, "minimum_investment": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/deals", models.RoleAdmin, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, s.deals.deals)
}

func TestUpdateDealStatus(t *testing.T) {
	s := newTestServer()
	d := addTestDeal(s, models.DealDraft)
	path := "/api/v1/deals/" + d.ID.String() + "/status"

	w := s.do(t, http.MethodPatch, path, models.RoleAnalyst, gin.H{"status": "RAISING"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.DealDraft, d.Status)

	w = s.do(t, http.MethodPatch, path, models.RoleManager, gin.H{"status": "ARCHIVED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, path, models.RoleManager, gin.H{"status": "RAISING"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "DRAFT", body["before"])
	assert.Equal(t, "RAISING", body["after"])
	assert.Equal(t, models.DealRaising, d.Status)

	w = s.do(t, http.MethodPatch, "/api/v1/deals/"+uuid.NewString()+"/status", models.RoleAdmin, gin.H{"status": "CLOSED"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/deals/bad/status", models.RoleAdmin, gin.H{"status": "CLOSED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
