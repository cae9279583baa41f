package compliance

import (
	"fmt"
	"strings"
)

// UnsubscribePlaceholder is replaced with a real opt-out link before sending
const UnsubscribePlaceholder = "{{unsubscribe_link}}"

const defaultFirmName = "[FIRM]"

// Disclaimers holds the channel disclaimer texts for one firm
type Disclaimers struct {
	EmailFooter  string `json:"email_footer"`
	VoiceOpening string `json:"voice_opening"`
	VoiceClosing string `json:"voice_closing"`
	SMS          string `json:"sms"`
}

// NewDisclaimers renders the disclaimer templates for firmName
func NewDisclaimers(firmName string) Disclaimers {
	firm := strings.TrimSpace(firmName)
	if firm == "" {
		firm = defaultFirmName
	}

	return Disclaimers{
		EmailFooter: fmt.Sprintf("---\n"+
			"This communication is for informational purposes only and does not constitute an offer to sell or a solicitation of an offer to buy any security. "+
			"Securities are offered only to qualified investors through official offering documents. "+
			"%s is not a registered broker-dealer. Past performance does not guarantee future results. "+
			"All investments carry risk including the potential loss of principal.\n\n"+
			"To opt out of future communications, click here: %s", firm, UnsubscribePlaceholder),

		VoiceOpening: fmt.Sprintf("This call is being recorded for quality and compliance purposes. "+
			"I'm reaching out on behalf of %s regarding a hospitality investment opportunity. "+
			"This is not a solicitation to buy securities, and any investment decision should be made only after reviewing the full offering documents with your own advisors. "+
			"May I continue?", firm),

		VoiceClosing: fmt.Sprintf("Thank you for your time. As a reminder, %s is not a registered broker-dealer, "+
			"and nothing discussed today constitutes investment advice or a solicitation. "+
			"Any investment is subject to the terms in the private placement memorandum.", firm),

		SMS: fmt.Sprintf("Msg from %s. Not investment advice. Reply STOP to opt out.", firm),
	}
}

// AppendComplianceFooter appends the email footer, with the unsubscribe link
// substituted, to content
func (d Disclaimers) AppendComplianceFooter(content, unsubscribeLink string) string {
	footer := strings.Replace(d.EmailFooter, UnsubscribePlaceholder, unsubscribeLink, 1)
	return content + "\n\n" + footer
}

// Actions reserved to registered broker-dealers
var brokerDealerActions = map[string]struct{}{
	"negotiate_terms":     {},
	"handle_funds":        {},
	"make_recommendation": {},
	"provide_valuation":   {},
	"receive_commission":  {},
	"execute_transaction": {},
}

// IsBrokerDealerSafe returns false when action is reserved to a registered
// broker-dealer and true otherwise
func IsBrokerDealerSafe(action string) bool {
	_, reserved := brokerDealerActions[action]
	return !reserved
}
