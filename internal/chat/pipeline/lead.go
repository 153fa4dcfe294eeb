package pipeline

import (
	"encoding/json"
	"strings"

	"convosell_backend/platform/phone"
)

const extractionPromptHeader = `Analyze the following conversation and extract any lead information mentioned.

Extract:
- Name
- Email
- Phone number
- Interest level (high/medium/low based on their engagement)

Return ONLY a JSON object with these fields. Use null for missing information.
Example: {"name": "John Doe", "email": "john@email.com", "phone": "+1234567890", "interest_level": "high"}

Conversation:
`

// buildExtractionPrompt renders the lead extraction request over the full
// conversation history.
func buildExtractionPrompt(history []Message) string {
	var b strings.Builder
	b.WriteString(extractionPromptHeader)
	for _, msg := range history {
		role := msg.Role
		if role == "" {
			role = "user"
		}
		b.WriteString("\n" + role + ": " + msg.Content)
	}
	return b.String()
}

// parseLeadInfo decodes the model's JSON answer into a LeadInfo. A parse
// failure or an all-null object yields nil: extraction is best-effort and
// must never overwrite existing lead data with blanks.
func parseLeadInfo(raw string) *LeadInfo {
	var decoded struct {
		Name          *string `json:"name"`
		Email         *string `json:"email"`
		Phone         *string `json:"phone"`
		InterestLevel *string `json:"interest_level"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil
	}

	lead := LeadInfo{
		Name:          deref(decoded.Name),
		Email:         deref(decoded.Email),
		Phone:         deref(decoded.Phone),
		InterestLevel: normalizeInterest(deref(decoded.InterestLevel)),
	}
	if lead.Phone != "" {
		lead.Phone = phone.NormalizeE164(lead.Phone)
	}
	if lead.Empty() {
		return nil
	}
	return &lead
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func normalizeInterest(level string) string {
	switch strings.ToLower(level) {
	case "high", "medium", "low":
		return strings.ToLower(level)
	default:
		return ""
	}
}
