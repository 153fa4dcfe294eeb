package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildSystemPrompt_DefaultsApplied(t *testing.T) {
	prompt := BuildSystemPrompt(AgentProfile{}, "")

	if !strings.Contains(prompt, defaultCompanyName) {
		t.Fatalf("expected default company name in prompt")
	}
	if !strings.Contains(prompt, defaultTone) {
		t.Fatalf("expected default tone in prompt")
	}
	if !strings.Contains(prompt, "No specific products listed yet.") {
		t.Fatalf("expected empty-catalog placeholder in prompt")
	}
	if strings.Contains(prompt, "KNOWLEDGE BASE:") {
		t.Fatalf("expected no knowledge base section without context")
	}
}

func TestBuildSystemPrompt_ContextSectionTruncated(t *testing.T) {
	long := strings.Repeat("x", contextExcerptBudget+100)
	prompt := BuildSystemPrompt(AgentProfile{CompanyName: "Acme"}, long)

	if !strings.Contains(prompt, "KNOWLEDGE BASE:") {
		t.Fatalf("expected knowledge base section")
	}
	if strings.Contains(prompt, long) {
		t.Fatalf("expected context to be truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", contextExcerptBudget)) {
		t.Fatalf("expected truncated excerpt to survive")
	}
}

func TestRenderProducts_FormatsEntries(t *testing.T) {
	price := 49.99
	rendered := renderProducts([]Product{
		{
			Name:        "Espresso One",
			Description: "Compact espresso machine",
			Price:       &price,
			Currency:    "EUR",
			Features:    []string{"15 bar", "steam wand", "timer", "extra"},
			StockStatus: "out_of_stock",
		},
		{Name: "Filter Kit"},
	})

	if !strings.Contains(rendered, "• Espresso One - EUR 49.99") {
		t.Fatalf("expected name and price bullet, got %q", rendered)
	}
	if !strings.Contains(rendered, "Features: 15 bar, steam wand, timer") {
		t.Fatalf("expected first three features, got %q", rendered)
	}
	if strings.Contains(rendered, "extra") {
		t.Fatalf("expected feature list capped at %d", maxRenderedFeatures)
	}
	if !strings.Contains(rendered, "Status: out_of_stock") {
		t.Fatalf("expected status line for non-stocked product, got %q", rendered)
	}
	if strings.Contains(rendered, "Filter Kit - ") {
		t.Fatalf("expected no price suffix for priceless product, got %q", rendered)
	}
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	price := 10.0
	profile := AgentProfile{
		CompanyName: "Acme",
		Tone:        "formal",
		Products:    []Product{{Name: "Widget", Price: &price, Features: []string{"a", "b"}}},
	}

	first := BuildSystemPrompt(profile, "some context")
	second := BuildSystemPrompt(profile, "some context")
	if first != second {
		t.Fatal("expected byte-identical output for identical inputs")
	}
}

func TestBuildSystemPrompt_ProductBlockBudget(t *testing.T) {
	products := make([]Product, 20)
	for i := range products {
		products[i] = Product{Name: strings.Repeat("p", 60), Description: strings.Repeat("d", 80)}
	}
	prompt := BuildSystemPrompt(AgentProfile{Products: products}, "")

	full := renderProducts(products)
	if len(full) <= productBlockBudget {
		t.Fatalf("test setup too small: %d chars", len(full))
	}
	if strings.Contains(prompt, full) {
		t.Fatal("expected product block truncated to its budget")
	}
	if !strings.Contains(prompt, full[:productBlockBudget]) {
		t.Fatal("expected truncated product block present")
	}
}

func TestBuildSystemPrompt_GreetingHint(t *testing.T) {
	custom := "Hey there, welcome to the roastery!"
	prompt := BuildSystemPrompt(AgentProfile{CompanyName: "Acme", GreetingMessage: custom}, "")
	if !strings.Contains(prompt, custom) {
		t.Fatalf("expected custom greeting hint in prompt")
	}

	prompt = BuildSystemPrompt(AgentProfile{CompanyName: "Acme"}, "")
	if !strings.Contains(prompt, DefaultGreeting("Acme")) {
		t.Fatalf("expected default greeting hint when none is configured")
	}
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("é", 200) // 2 bytes per rune

	got := truncate(s, 301)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8 after truncation, got %q", got)
	}
	if len(got) != 300 {
		t.Fatalf("expected cut backed off to the rune boundary at 300, got %d", len(got))
	}

	if got := truncate("ascii", 3); got != "asc" {
		t.Fatalf("expected plain byte cut for ASCII, got %q", got)
	}
}

func TestDefaultGreeting(t *testing.T) {
	got := DefaultGreeting("Acme")
	if got != "Hello! Welcome to Acme. How can I help you today?" {
		t.Fatalf("unexpected greeting %q", got)
	}
	if !strings.Contains(DefaultGreeting(""), defaultCompanyName) {
		t.Fatalf("expected default company name in fallback greeting")
	}
}
