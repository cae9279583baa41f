// Package compliance gates every investor-facing communication against
// Regulation D solicitation rules and FINRA-safe language requirements.
package compliance

import (
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
)

// CheckInput is a single piece of outbound content plus investor context
type CheckInput struct {
	Content                      string                  `json:"content"`
	Subject                      string                  `json:"subject,omitempty"`
	OfferingType                 models.OfferingType     `json:"offering_type"`
	InvestorHasPriorRelationship bool                    `json:"investor_has_prior_relationship"`
	InvestorOptedOut             bool                    `json:"investor_opted_out"`
	InvestorAccreditedStatus     models.AccreditedStatus `json:"investor_accredited_status"`
}

// Violation blocks a send
type Violation struct {
	Rule        string   `json:"rule"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	MatchedText string   `json:"matched_text,omitempty"`
}

// Warning is surfaced to the sender but never blocks
type Warning struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// CheckResult is the outcome of a compliance check. Passed is true iff
// Violations is empty.
type CheckResult struct {
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations"`
	Warnings   []Warning   `json:"warnings"`
}

// Engine runs compliance checks and logs their outcome
type Engine struct {
	log logger.Logger
}

// NewEngine creates a compliance engine. A nil logger disables outcome logging.
func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{log: log}
}

// Check evaluates input and logs a summary of the result
func (e *Engine) Check(input CheckInput) CheckResult {
	result := Evaluate(input)
	e.logOutcome(input, result)
	return result
}

func (e *Engine) logOutcome(input CheckInput, result CheckResult) {
	// A broken logger must not take the check down with it.
	defer func() { _ = recover() }()

	e.log.Info("Compliance check completed",
		"passed", result.Passed,
		"violation_count", len(result.Violations),
		"warning_count", len(result.Warnings),
		"offering_type", string(input.OfferingType),
	)
}

// Evaluate runs every rule against input. All rules run; nothing short-circuits.
func Evaluate(input CheckInput) CheckResult {
	violations := []Violation{}
	warnings := []Warning{}
	fullContent := input.Subject + " " + input.Content

	if input.InvestorOptedOut {
		violations = append(violations, Violation{
			Rule:     RuleOptOutRespected,
			Severity: SeverityCritical,
			Message:  "Investor has opted out of communications",
		})
	}

	if input.OfferingType == models.OfferingRegD506B && !input.InvestorHasPriorRelationship {
		violations = append(violations, Violation{
			Rule:     Rule506BPriorRelationship,
			Severity: SeverityCritical,
			Message:  "Reg D 506(b) requires substantive pre-existing relationship",
		})
	}

	if input.OfferingType == models.OfferingRegD506C && input.InvestorAccreditedStatus == models.AccreditedNotAccredited {
		violations = append(violations, Violation{
			Rule:     Rule506CAccreditedOnly,
			Severity: SeverityCritical,
			Message:  "Reg D 506(c) requires verified accredited investor status",
		})
	}

	for _, r := range prohibitedRules {
		if match := r.Pattern.FindStringIndex(fullContent); match != nil {
			violations = append(violations, Violation{
				Rule:        r.Rule,
				Severity:    SeverityHigh,
				Message:     r.Message,
				MatchedText: fullContent[match[0]:match[1]],
			})
		}
	}

	for _, r := range requiredRules {
		if !r.Pattern.MatchString(fullContent) {
			warnings = append(warnings, Warning{Rule: r.Rule, Message: r.Message})
		}
	}

	if match := returnMentionPattern.FindString(fullContent); match != "" {
		if !returnQualifierPattern.MatchString(fullContent) {
			violations = append(violations, Violation{
				Rule:        RuleQualifyReturnProjections,
				Severity:    SeverityHigh,
				Message:     qualifyReturnMessage,
				MatchedText: match,
			})
		}
	}

	return CheckResult{
		Passed:     len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
	}
}

// HasViolation reports whether the result carries a violation for rule
func (r CheckResult) HasViolation(rule string) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
