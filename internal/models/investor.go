package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccreditedStatus is how far an investor's accreditation has been verified
type AccreditedStatus string

const (
	AccreditedThirdPartyVerified AccreditedStatus = "THIRD_PARTY_VERIFIED"
	AccreditedInstitutional      AccreditedStatus = "INSTITUTIONAL"
	AccreditedSelfCertified      AccreditedStatus = "SELF_CERTIFIED"
	AccreditedUnverified         AccreditedStatus = "UNVERIFIED"
	AccreditedNotAccredited      AccreditedStatus = "NOT_ACCREDITED"
)

// HospitalityExperience is an investor's hands-on hotel background
type HospitalityExperience string

const (
	ExperienceDeveloper HospitalityExperience = "DEVELOPER"
	ExperienceOperator  HospitalityExperience = "OPERATOR"
	ExperienceActiveLP  HospitalityExperience = "ACTIVE_LP"
	ExperiencePassiveLP HospitalityExperience = "PASSIVE_LP"
	ExperienceNone      HospitalityExperience = "NONE"
)

// InvestorSource records how an investor entered the CRM
type InvestorSource string

const (
	SourceReferral      InvestorSource = "REFERRAL"
	SourceLinkedIn      InvestorSource = "LINKEDIN"
	SourceConference    InvestorSource = "CONFERENCE"
	SourceWebsite       InvestorSource = "WEBSITE"
	SourcePurchasedList InvestorSource = "PURCHASED_LIST"
	SourcePriorInvestor InvestorSource = "PRIOR_INVESTOR"
	SourceInboundCall   InvestorSource = "INBOUND_CALL"
	SourceOther         InvestorSource = "OTHER"
)

// Tag1031Exchange marks investors deploying 1031-exchange proceeds
const Tag1031Exchange = "1031_exchange"

// Investor represents an investor record
type Investor struct {
	ID                    uuid.UUID             `json:"id" db:"id"`
	FirstName             string                `json:"first_name" db:"first_name"`
	LastName              string                `json:"last_name" db:"last_name"`
	Email                 string                `json:"email" db:"email"`
	Phone                 string                `json:"phone,omitempty" db:"phone"`
	Company               string                `json:"company,omitempty" db:"company"`
	Source                InvestorSource        `json:"source" db:"source"`
	AccreditedStatus      AccreditedStatus      `json:"accredited_status" db:"accredited_status"`
	CheckSizeMin          *float64              `json:"check_size_min,omitempty" db:"check_size_min"`
	CheckSizeMax          *float64              `json:"check_size_max,omitempty" db:"check_size_max"`
	AssetClassPrefs       []string              `json:"asset_class_prefs" db:"asset_class_prefs"`
	PriorHotelInvestments int                   `json:"prior_hotel_investments" db:"prior_hotel_investments"`
	HospitalityExperience HospitalityExperience `json:"hospitality_experience" db:"hospitality_experience"`
	PriorRelationship     bool                  `json:"prior_relationship" db:"prior_relationship"`
	OptedOut              bool                  `json:"opted_out" db:"opted_out"`
	OptOutDate            *time.Time            `json:"opt_out_date,omitempty" db:"opt_out_date"`
	DoNotContact          bool                  `json:"do_not_contact" db:"do_not_contact"`
	Tags                  []string              `json:"tags" db:"tags"`
	DeploymentDeadline    *time.Time            `json:"deployment_deadline,omitempty" db:"deployment_deadline"`
	QualityScore          *int                  `json:"quality_score,omitempty" db:"quality_score"`
	QualityTier           string                `json:"quality_tier,omitempty" db:"quality_tier"`
	LastScoredAt          *time.Time            `json:"last_scored_at,omitempty" db:"last_scored_at"`
	CreatedAt             time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at" db:"updated_at"`
}

// FullName returns the investor's display name
func (i *Investor) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// HasTag reports whether the investor carries the given tag (case-insensitive)
func (i *Investor) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Contactable returns false for opted-out and do-not-contact investors
func (i *Investor) Contactable() bool {
	return !i.OptedOut && !i.DoNotContact
}

// DeadlineDays returns days until the deployment deadline, or nil when none
// is recorded. Partial days round up, so a deadline 30.5 days out is 31 days
// away and does not earn the inside-30-days bonus. Past deadlines yield zero
// or negative values.
func (i *Investor) DeadlineDays(now time.Time) *int {
	if i.DeploymentDeadline == nil {
		return nil
	}
	days := int(math.Ceil(i.DeploymentDeadline.Sub(now).Hours() / 24))
	return &days
}

// CreateInvestorRequest represents an investor creation request
type CreateInvestorRequest struct {
	FirstName             string                `json:"first_name" binding:"required"`
	LastName              string                `json:"last_name" binding:"required"`
	Email                 string                `json:"email" binding:"required,email"`
	Phone                 string                `json:"phone"`
	Company               string                `json:"company"`
	Source                InvestorSource        `json:"source" binding:"required,oneof=REFERRAL LINKEDIN CONFERENCE WEBSITE PURCHASED_LIST PRIOR_INVESTOR INBOUND_CALL OTHER"`
	AccreditedStatus      AccreditedStatus      `json:"accredited_status" binding:"omitempty,oneof=THIRD_PARTY_VERIFIED INSTITUTIONAL SELF_CERTIFIED UNVERIFIED NOT_ACCREDITED"`
	CheckSizeMin          *float64              `json:"check_size_min" binding:"omitempty,gt=0"`
	CheckSizeMax          *float64              `json:"check_size_max" binding:"omitempty,gt=0"`
	AssetClassPrefs       []string              `json:"asset_class_prefs"`
	PriorHotelInvestments int                   `json:"prior_hotel_investments" binding:"gte=0"`
	HospitalityExperience HospitalityExperience `json:"hospitality_experience" binding:"omitempty,oneof=DEVELOPER OPERATOR ACTIVE_LP PASSIVE_LP NONE"`
	PriorRelationship     bool                  `json:"prior_relationship"`
	Tags                  []string              `json:"tags"`
	DeploymentDeadline    *time.Time            `json:"deployment_deadline"`
}

// ToInvestor builds a new Investor from the request, applying defaults
func (r *CreateInvestorRequest) ToInvestor() *Investor {
	inv := &Investor{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Email:                 strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:                 r.Phone,
		Company:               r.Company,
		Source:                r.Source,
		AccreditedStatus:      r.AccreditedStatus,
		CheckSizeMin:          r.CheckSizeMin,
		CheckSizeMax:          r.CheckSizeMax,
		AssetClassPrefs:       r.AssetClassPrefs,
		PriorHotelInvestments: r.PriorHotelInvestments,
		HospitalityExperience: r.HospitalityExperience,
		PriorRelationship:     r.PriorRelationship,
		Tags:                  r.Tags,
		DeploymentDeadline:    r.DeploymentDeadline,
	}
	if inv.AccreditedStatus == "" {
		inv.AccreditedStatus = AccreditedUnverified
	}
	if inv.HospitalityExperience == "" {
		inv.HospitalityExperience = ExperienceNone
	}
	if inv.AssetClassPrefs == nil {
		inv.AssetClassPrefs = []string{}
	}
	if inv.Tags == nil {
		inv.Tags = []string{}
	}
	return inv
}
