package service

import (
	"testing"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/internal/chat/repository"
)

func TestMergeLead_NilExtractionKeepsExisting(t *testing.T) {
	existing := &repository.Lead{Name: "Jane", Email: "jane@example.com"}

	merged, changed := mergeLead(existing, nil)
	if changed {
		t.Fatal("expected no change without extraction")
	}
	if merged != existing {
		t.Fatal("expected existing lead returned unchanged")
	}
}

func TestMergeLead_BlankFieldsNeverErase(t *testing.T) {
	existing := &repository.Lead{Name: "Jane", Email: "jane@example.com", InterestLevel: "medium"}
	extracted := &pipeline.LeadInfo{Name: "", Email: "", Phone: "+31612345678"}

	merged, changed := mergeLead(existing, extracted)
	if !changed {
		t.Fatal("expected change from new phone")
	}
	if merged.Name != "Jane" || merged.Email != "jane@example.com" {
		t.Fatalf("expected existing fields preserved, got %+v", merged)
	}
	if merged.Phone != "+31612345678" {
		t.Fatalf("expected phone merged, got %q", merged.Phone)
	}
	if merged.InterestLevel != "medium" {
		t.Fatalf("expected interest level preserved, got %q", merged.InterestLevel)
	}
}

func TestMergeLead_NewValueOverridesOld(t *testing.T) {
	existing := &repository.Lead{InterestLevel: "low"}
	extracted := &pipeline.LeadInfo{InterestLevel: "high"}

	merged, changed := mergeLead(existing, extracted)
	if !changed {
		t.Fatal("expected change from upgraded interest level")
	}
	if merged.InterestLevel != "high" {
		t.Fatalf("expected high, got %q", merged.InterestLevel)
	}
}

func TestMergeLead_NoExistingAndNothingExtracted(t *testing.T) {
	merged, changed := mergeLead(nil, &pipeline.LeadInfo{})
	if changed {
		t.Fatal("expected no change")
	}
	if merged != nil {
		t.Fatalf("expected nil lead, got %+v", merged)
	}
}

func TestMergeLead_FirstCapture(t *testing.T) {
	merged, changed := mergeLead(nil, &pipeline.LeadInfo{Name: "Jane", InterestLevel: "high"})
	if !changed {
		t.Fatal("expected change on first capture")
	}
	if merged == nil || merged.Name != "Jane" || merged.InterestLevel != "high" {
		t.Fatalf("unexpected merged lead %+v", merged)
	}
}

func TestMergeLead_IdenticalExtractionIsNoChange(t *testing.T) {
	existing := &repository.Lead{Name: "Jane"}
	merged, changed := mergeLead(existing, &pipeline.LeadInfo{Name: "Jane"})
	if changed {
		t.Fatal("expected no change for identical values")
	}
	if merged.Name != "Jane" {
		t.Fatalf("unexpected merged lead %+v", merged)
	}
}

func TestToPipelineMessages(t *testing.T) {
	stored := []repository.StoredMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}
	msgs := toPipelineMessages(stored)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Content != "hello" {
		t.Fatalf("unexpected mapping %+v", msgs)
	}
}
