package pipeline

import "testing"

func TestClassifyIntent_KeywordPriority(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"How much does the premium plan cost?", IntentPricing},
		{"I want to buy the starter kit", IntentReadyToBuy},
		{"I have a problem with my account", IntentSupport},
		{"What's the difference between the two models?", IntentComparison},
		{"I'm concerned about the setup time", IntentObjection},
		{"Tell me about your coffee machines", IntentProductInquiry},
		{"PRICE please", IntentPricing},
	}

	for _, tc := range cases {
		if got := ClassifyIntent(tc.message); got != tc.want {
			t.Fatalf("ClassifyIntent(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyIntent_PricingWinsOverLaterRules(t *testing.T) {
	// "how much to buy" matches both pricing and ready_to_buy; the rule
	// order makes pricing win.
	if got := ClassifyIntent("how much to buy this?"); got != IntentPricing {
		t.Fatalf("expected pricing to win, got %q", got)
	}
}

func TestClassifyIntent_ReadyToBuyWinsOverSupport(t *testing.T) {
	// "order" is a ready_to_buy keyword and outranks the "problem" support
	// keyword.
	if got := ClassifyIntent("I have a problem with my order"); got != IntentReadyToBuy {
		t.Fatalf("expected ready_to_buy to win, got %q", got)
	}
}
