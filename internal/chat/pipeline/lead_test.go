package pipeline

import (
	"strings"
	"testing"
)

func TestParseLeadInfo_NullsAndTrimming(t *testing.T) {
	lead := parseLeadInfo(`{"name": "  Jane Doe ", "email": null, "phone": null, "interest_level": "HIGH"}`)
	if lead == nil {
		t.Fatal("expected lead")
	}
	if lead.Name != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", lead.Name)
	}
	if lead.Email != "" {
		t.Fatalf("expected empty email for null, got %q", lead.Email)
	}
	if lead.InterestLevel != "high" {
		t.Fatalf("expected normalized interest level, got %q", lead.InterestLevel)
	}
}

func TestParseLeadInfo_AllNullYieldsNil(t *testing.T) {
	if lead := parseLeadInfo(`{"name": null, "email": null, "phone": null, "interest_level": null}`); lead != nil {
		t.Fatalf("expected nil for all-null object, got %+v", lead)
	}
}

func TestParseLeadInfo_InvalidJSONYieldsNil(t *testing.T) {
	if lead := parseLeadInfo("sorry, I could not find any lead info"); lead != nil {
		t.Fatalf("expected nil for non-JSON reply, got %+v", lead)
	}
}

func TestParseLeadInfo_UnknownInterestDropped(t *testing.T) {
	lead := parseLeadInfo(`{"name": "Jane", "interest_level": "extreme"}`)
	if lead == nil {
		t.Fatal("expected lead")
	}
	if lead.InterestLevel != "" {
		t.Fatalf("expected unknown interest level dropped, got %q", lead.InterestLevel)
	}
}

func TestBuildExtractionPrompt_IncludesHistory(t *testing.T) {
	prompt := buildExtractionPrompt([]Message{
		{Role: "user", Content: "I'm Jane"},
		{Role: "assistant", Content: "Nice to meet you"},
		{Content: "roleless line"},
	})

	if !strings.Contains(prompt, "user: I'm Jane") {
		t.Fatalf("expected user turn in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "assistant: Nice to meet you") {
		t.Fatalf("expected assistant turn in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "user: roleless line") {
		t.Fatalf("expected empty role to default to user, got %q", prompt)
	}
}
