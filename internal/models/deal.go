package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OfferingType is the Regulation D exemption a deal is raised under
type OfferingType string

const (
	OfferingRegD506B OfferingType = "REG_D_506B"
	OfferingRegD506C OfferingType = "REG_D_506C"
)

// Valid reports whether the offering type is one of the known exemptions
func (o OfferingType) Valid() bool {
	return o == OfferingRegD506B || o == OfferingRegD506C
}

// Deal lifecycle statuses
const (
	DealDraft         = "DRAFT"
	DealRaising       = "RAISING"
	DealUnderContract = "UNDER_CONTRACT"
	DealFullyFunded   = "FULLY_FUNDED"
	DealClosed        = "CLOSED"
)

// ValidDealStatus reports whether status is a known deal lifecycle status
func ValidDealStatus(status string) bool {
	switch status {
	case DealDraft, DealRaising, DealUnderContract, DealFullyFunded, DealClosed:
		return true
	}
	return false
}

// Deal represents a hotel capital raise
type Deal struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	Name              string       `json:"name" db:"name"`
	PropertyName      string       `json:"property_name" db:"property_name"`
	OfferingType      OfferingType `json:"offering_type" db:"offering_type"`
	Status            string       `json:"status" db:"status"`
	TotalRaise        float64      `json:"total_raise" db:"total_raise"`
	RaisedToDate      float64      `json:"raised_to_date" db:"raised_to_date"`
	MinimumInvestment float64      `json:"minimum_investment" db:"minimum_investment"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
}

// RaiseProgress is the share of the target raised so far, as a percentage
func (d *Deal) RaiseProgress() float64 {
	if d.TotalRaise <= 0 {
		return 0
	}
	return d.RaisedToDate / d.TotalRaise * 100
}

// CreateDealRequest represents a deal creation request
type CreateDealRequest struct {
	Name              string       `json:"name" binding:"required,min=1"`
	PropertyName      string       `json:"property_name" binding:"required,min=1"`
	OfferingType      OfferingType `json:"offering_type" binding:"omitempty,oneof=REG_D_506B REG_D_506C"`
	TotalRaise        float64      `json:"total_raise" binding:"required,gt=0"`
	MinimumInvestment float64      `json:"minimum_investment" binding:"required,gt=0"`
}

// ToDeal builds a draft deal from the request. The offering type defaults
// to 506(b).
func (r *CreateDealRequest) ToDeal() *Deal {
	offering := r.OfferingType
	if offering == "" {
		offering = OfferingRegD506B
	}
	return &Deal{
		Name:              strings.TrimSpace(r.Name),
		PropertyName:      strings.TrimSpace(r.PropertyName),
		OfferingType:      offering,
		Status:            DealDraft,
		TotalRaise:        r.TotalRaise,
		MinimumInvestment: r.MinimumInvestment,
	}
}

// UpdateDealStatusRequest represents a deal status change
type UpdateDealStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT RAISING UNDER_CONTRACT FULLY_FUNDED CLOSED"`
}

// Deal-investor pipeline statuses
const (
	DealInvestorContacted = "CONTACTED"
	DealInvestorEngaged   = "ENGAGED"
	DealInvestorQualified = "QUALIFIED"
)

// DealInvestor links an investor to a deal with a deal-specific fit score
type DealInvestor struct {
	DealID     uuid.UUID `json:"deal_id" db:"deal_id"`
	InvestorID uuid.UUID `json:"investor_id" db:"investor_id"`
	Status     string    `json:"status" db:"status"`
	FitScore   *int      `json:"fit_score,omitempty" db:"fit_score"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
