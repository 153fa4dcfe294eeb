package email

import (
	"strings"
	"testing"
)

func TestRenderLeadAlertTemplate(t *testing.T) {
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{Title: "New lead captured", Heading: "New lead captured"},
		AgentName:     "Sales Bot",
		LeadName:      "Jane Doe",
		LeadEmail:     "jane@example.com",
		InterestLevel: "high",
		Channel:       "web",
		CapturedAt:    "2026-08-27 10:00 UTC",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Sales Bot", "Jane Doe", "jane@example.com", "high", "New lead captured"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in rendered email", want)
		}
	}
	if strings.Contains(content, "Phone:") {
		t.Fatal("expected phone row omitted when empty")
	}
}

func TestRenderTrainingFailedTemplate(t *testing.T) {
	content, err := renderEmailTemplate("training_failed.html", trainingFailedEmailData{
		baseEmailData: baseEmailData{Title: "Training failed", Heading: "Training failed"},
		AgentName:     "Sales Bot",
		SourceType:    "url",
		Reason:        "not enough content extracted from url",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(content, "not enough content extracted from url") {
		t.Fatal("expected failure reason in rendered email")
	}
}

func TestRenderEmailTemplate_EscapesHTML(t *testing.T) {
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{Title: "t", Heading: "h"},
		AgentName:     "<script>alert(1)</script>",
		CapturedAt:    "now",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(content, "<script>alert(1)</script>") {
		t.Fatal("expected user content escaped")
	}
}
