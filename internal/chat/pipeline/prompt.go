package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Character budgets for prompt sections. Truncation is a hard character cut,
// not token-aware; it may split mid-word. Kept for compatibility with the
// prompts the agents were tuned on.
const (
	productBlockBudget   = 500
	contextExcerptBudget = 300
	maxRenderedFeatures  = 3
)

// Profile defaults applied at render time.
const (
	defaultCompanyName   = "our company"
	defaultTone          = "friendly"
	defaultSalesStrategy = "consultative"
	defaultStockStatus   = "in_stock"
)

// DefaultGreeting renders the fallback greeting for agents without a custom
// greeting message.
func DefaultGreeting(companyName string) string {
	if companyName == "" {
		companyName = defaultCompanyName
	}
	return fmt.Sprintf("Hello! Welcome to %s. How can I help you today?", companyName)
}

// BuildSystemPrompt renders the persona system prompt from the agent profile
// and an optional knowledge-base excerpt. Pure and deterministic.
func BuildSystemPrompt(profile AgentProfile, context string) string {
	companyName := profile.CompanyName
	if companyName == "" {
		companyName = defaultCompanyName
	}
	tone := profile.Tone
	if tone == "" {
		tone = defaultTone
	}
	strategy := profile.SalesStrategy
	if strategy == "" {
		strategy = defaultSalesStrategy
	}

	greeting := profile.GreetingMessage
	if greeting == "" {
		greeting = DefaultGreeting(companyName)
	}

	productsText := renderProducts(profile.Products)

	contextSection := ""
	if context != "" {
		contextSection = "\n\nKNOWLEDGE BASE:\n" + truncate(context, contextExcerptBudget)
	}

	return fmt.Sprintf(`You are a helpful and professional %s sales agent for %s. %s

YOUR ROLE:
- Answer questions clearly and helpfully
- Provide information about our products and services
- Assist customers in making informed decisions
- Be conversational, natural, and %s in your responses

PRODUCTS & SERVICES:
%s
%s

HOW TO RESPOND:

**When asked "what can you do" or "help":**
- Explain you can help with: product information, pricing, recommendations, answering questions, placing orders, and support
- List the main products/services available
- Ask how you can help them today

**When greeted (hi, hello, hey):**
- On the very first message, open with something close to: "%s"
- Respond naturally and warmly
- Briefly introduce what you can help with
- Ask an open question to start the conversation

**General Questions:**
- Answer directly and clearly
- Provide relevant details from the product list or knowledge base
- Be helpful and informative

**Sales Approach (%s):**
1. Build rapport naturally - be warm and %s
2. Understand customer needs through conversation
3. Recommend solutions that fit their needs
4. Handle concerns professionally and honestly
5. Guide interested customers toward next steps
6. When appropriate, ask for contact info to follow up

**Objection Handling:**
- Price concerns: Focus on value and benefits
- Timing issues: Understand their timeline, offer flexibility
- Competitor questions: Highlight what makes us unique
- Listen first, then address concerns with helpful information

**Key Principles:**
- Be conversational and natural, not robotic
- Answer questions directly before trying to sell
- Build trust through helpful, honest responses
- Guide interested customers smoothly toward purchase
- Keep responses concise (2-4 sentences usually)
- Use the knowledge base context when available

Remember: Help first, sell second. Build trust through being genuinely helpful.`,
		tone, companyName, profile.CompanyDescription,
		tone,
		truncate(productsText, productBlockBudget),
		contextSection,
		greeting,
		strategy, tone,
	)
}

// renderProducts formats the catalog for the prompt. Each entry gets a bullet
// with name, optional price, optional description, at most three features,
// and a status line only when the product is not in stock.
func renderProducts(products []Product) string {
	if len(products) == 0 {
		return "No specific products listed yet."
	}

	entries := make([]string, 0, len(products))
	for _, p := range products {
		var b strings.Builder
		b.WriteString("• " + p.Name)

		if p.Price != nil {
			currency := p.Currency
			if currency == "" {
				currency = "USD"
			}
			b.WriteString(fmt.Sprintf(" - %s %g", currency, *p.Price))
		}
		if p.Description != "" {
			b.WriteString("\n  " + p.Description)
		}
		if len(p.Features) > 0 {
			features := p.Features
			if len(features) > maxRenderedFeatures {
				features = features[:maxRenderedFeatures]
			}
			b.WriteString("\n  Features: " + strings.Join(features, ", "))
		}
		if p.StockStatus != "" && p.StockStatus != defaultStockStatus {
			b.WriteString("\n  Status: " + p.StockStatus)
		}

		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n")
}

// truncate cuts s to at most budget bytes, backing off to the previous rune
// boundary so the cut never emits invalid UTF-8.
func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
