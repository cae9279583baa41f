package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the medium an outreach step is delivered through
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelVoice Channel = "VOICE"
	ChannelSMS   Channel = "SMS"
)

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentOptedOut  = "OPTED_OUT"
)

// Outreach event types recorded against an enrollment
const (
	EventDelivered = "DELIVERED"
	EventOpened    = "OPENED"
	EventClicked   = "CLICKED"
	EventReplied   = "REPLIED"
)

// Investor activity types captured from the data room and website
const (
	ActivityWebsiteVisit = "WEBSITE_VISIT"
	ActivityDocDownload  = "DOC_DOWNLOAD"
)

// OutreachSequence is an ordered set of touches for a deal
type OutreachSequence struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	DealID             uuid.UUID      `json:"deal_id" db:"deal_id"`
	Name               string         `json:"name" db:"name"`
	Type               string         `json:"type" db:"type"`
	ComplianceApproved bool           `json:"compliance_approved" db:"compliance_approved"`
	Steps              []OutreachStep `json:"steps"`
	Deal               *Deal          `json:"deal,omitempty"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}

// OutreachStep is a single templated touch within a sequence
type OutreachStep struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SequenceID      uuid.UUID `json:"sequence_id" db:"sequence_id"`
	StepOrder       int       `json:"step_order" db:"step_order" binding:"gte=0"`
	Channel         Channel   `json:"channel" db:"channel" binding:"required,oneof=EMAIL VOICE SMS"`
	DelayDays       int       `json:"delay_days" db:"delay_days" binding:"gte=0"`
	TemplateSubject string    `json:"template_subject,omitempty" db:"template_subject"`
	TemplateBody    string    `json:"template_body,omitempty" db:"template_body"`
}

// OutreachEnrollment places an investor in a sequence
type OutreachEnrollment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SequenceID  uuid.UUID  `json:"sequence_id" db:"sequence_id"`
	InvestorID  uuid.UUID  `json:"investor_id" db:"investor_id"`
	Status      string     `json:"status" db:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at" db:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// CreateSequenceRequest represents a sequence creation request
type CreateSequenceRequest struct {
	DealID uuid.UUID      `json:"deal_id" binding:"required"`
	Name   string         `json:"name" binding:"required,min=1"`
	Type   string         `json:"type" binding:"omitempty,oneof=EMAIL MULTI_CHANNEL"`
	Steps  []OutreachStep `json:"steps" binding:"required,min=1,dive"`
}

// EngagementCounters are trailing-window engagement totals for one investor
type EngagementCounters struct {
	EmailOpens          int `json:"email_opens"`
	EmailClicks         int `json:"email_clicks"`
	EmailReplies        int `json:"email_replies"`
	VoiceCallsCompleted int `json:"voice_calls_completed"`
	WebsiteVisits       int `json:"website_visits"`
	DocDownloads        int `json:"doc_downloads"`
}
