package compliance

import (
	"regexp"
	"strings"
)

// Severity of a compliance violation
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
)

// Rule identifiers reported on violations and warnings
const (
	RuleOptOutRespected           = "OPT_OUT_RESPECTED"
	Rule506BPriorRelationship     = "506B_PRIOR_RELATIONSHIP"
	Rule506CAccreditedOnly        = "506C_ACCREDITED_ONLY"
	RuleNoPerformanceGuarantee    = "NO_PERFORMANCE_GUARANTEE"
	RuleNoRiskFree                = "NO_RISK_FREE"
	RuleNoInvestmentAdvice        = "NO_INVESTMENT_ADVICE"
	RuleNoLossPrevention          = "NO_LOSS_PREVENTION"
	RuleNoHype                    = "NO_HYPE"
	RuleNoPressure                = "NO_PRESSURE"
	RuleNoCertainty               = "NO_CERTAINTY"
	RuleNoRecommendation          = "NO_RECOMMENDATION"
	RulePastPerformanceDisclaimer = "PAST_PERFORMANCE_DISCLAIMER"
	RuleBrokerDealerDisclaimer    = "BROKER_DEALER_DISCLAIMER"
	RuleQualifyReturnProjections  = "QUALIFY_RETURN_PROJECTIONS"
)

// PatternRule ties a case-insensitive pattern to a rule id and message
type PatternRule struct {
	Rule    string
	Pattern *regexp.Regexp
	Message string
}

// space matches ASCII whitespace plus the Unicode spaces that pasted text
// carries, such as NBSP, thin space and BOM.
const space = `[\s\x{0B}\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

// rule compiles expr with every \s widened to space. Classes must not
// contain \s since Go has no nested classes; use (?:-|\s) instead.
func rule(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, `\s`, space))
}

// Order matters: violations are reported in table order.
var prohibitedRules = []PatternRule{
	{RuleNoPerformanceGuarantee, rule(`(?i)guarante(?:e|ed|es|ing)\s+(?:return|profit|income|yield)`), "Contains performance guarantee language"},
	{RuleNoRiskFree, rule(`(?i)risk(?:-|\s)?free`), "Claims risk-free investment"},
	{RuleNoInvestmentAdvice, rule(`(?i)you\s+(?:should|must|need\s+to)\s+invest`), "Contains investment advice/recommendation language"},
	{RuleNoLossPrevention, rule(`(?i)(?:can't|cannot|won't)\s+lose`), "Implies principal protection"},
	{RuleNoHype, rule(`(?i)once(?:-|\s)?in(?:-|\s)?a(?:-|\s)?lifetime`), "Uses hype language"},
	{RuleNoPressure, rule(`(?i)(?:exclusive|limited)\s+(?:time\s+)?(?:offer|opportunity)`), "Creates artificial urgency/pressure"},
	{RuleNoRiskFree, rule(`(?i)no(?:-|\s)?risk`), "Claims no risk"},
	{RuleNoCertainty, rule(`(?i)(?:sure|certain)\s+(?:thing|bet|win)`), "Implies certainty of returns"},
	{RuleNoRecommendation, rule(`(?i)we\s+recommend\s+(?:you\s+)?invest`), "Makes investment recommendation"},
}

var requiredRules = []PatternRule{
	{RulePastPerformanceDisclaimer, rule(`(?i)past\s+performance\s+(?:does\s+not|is\s+no)\s+(?:guarantee|indicator)`), "Missing past performance disclaimer"},
	{RuleBrokerDealerDisclaimer, rule(`(?i)(?:not\s+a?\s*(?:registered\s+)?broker(?:-|\s)?dealer|not\s+acting\s+as\s+a?\s*broker)`), "Missing broker-dealer disclaimer"},
}

var (
	returnMentionPattern   = rule(`(?i)(\d+\.?\d*)\s*%\s*(return|irr|yield|cash(?:-|\s)on(?:-|\s)cash)`)
	returnQualifierPattern = rule(`(?i)(?:projected|targeted|estimated|anticipated)`)
)

const qualifyReturnMessage = `Return references must be qualified as "projected" or "targeted"`

// ProhibitedRules returns a copy of the prohibited-language table in evaluation order
func ProhibitedRules() []PatternRule {
	return append([]PatternRule(nil), prohibitedRules...)
}

// RequiredRules returns a copy of the required-disclaimer table
func RequiredRules() []PatternRule {
	return append([]PatternRule(nil), requiredRules...)
}
