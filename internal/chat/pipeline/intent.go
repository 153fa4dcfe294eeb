package pipeline

import "strings"

// intentRule pairs a label with the keywords that select it.
type intentRule struct {
	intent   string
	keywords []string
}

// intentRules are evaluated in priority order; the first match wins.
var intentRules = []intentRule{
	{IntentPricing, []string{"price", "cost", "expensive", "cheap", "how much"}},
	{IntentReadyToBuy, []string{"buy", "purchase", "order", "get started"}},
	{IntentSupport, []string{"help", "support", "problem", "issue"}},
	{IntentComparison, []string{"compare", "difference", "vs", "versus", "better"}},
	{IntentObjection, []string{"but", "however", "concerned", "worry"}},
}

// ClassifyIntent maps a message to exactly one intent label via case-folded
// substring matching. Messages matching nothing are product inquiries.
func ClassifyIntent(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.intent
			}
		}
	}
	return IntentProductInquiry
}
