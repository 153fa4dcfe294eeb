package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/platform/logger"
)

type fakeGen struct {
	raw      string
	err      error
	opts     pipeline.Options
	messages []pipeline.Message
}

func (g *fakeGen) Generate(ctx context.Context, messages []pipeline.Message, opts pipeline.Options) (string, error) {
	g.messages = messages
	g.opts = opts
	return g.raw, g.err
}

type fieldUpdate struct {
	agentID uuid.UUID
	field   string
	value   string
}

type fakeDirectory struct {
	agents    []AgentRecord
	createdID uuid.UUID
	created   []AgentDraft
	updates   []fieldUpdate
	listErr   error
}

func (d *fakeDirectory) List(ctx context.Context, ownerID uuid.UUID) ([]AgentRecord, error) {
	return d.agents, d.listErr
}

func (d *fakeDirectory) Create(ctx context.Context, ownerID uuid.UUID, agent AgentDraft) (uuid.UUID, error) {
	d.created = append(d.created, agent)
	return d.createdID, nil
}

func (d *fakeDirectory) UpdateField(ctx context.Context, ownerID, agentID uuid.UUID, field, value string) error {
	d.updates = append(d.updates, fieldUpdate{agentID: agentID, field: field, value: value})
	return nil
}

type fakeCatalog struct {
	products []ProductDraft
	added    []ProductDraft
}

func (c *fakeCatalog) Products(ctx context.Context, ownerID, agentID uuid.UUID) ([]ProductDraft, error) {
	return c.products, nil
}

func (c *fakeCatalog) AddProduct(ctx context.Context, ownerID, agentID uuid.UUID, product ProductDraft) error {
	c.added = append(c.added, product)
	return nil
}

type fakeTrainer struct {
	urls []string
	faqs []FAQDraft
}

func (t *fakeTrainer) TrainURL(ctx context.Context, ownerID, agentID uuid.UUID, url string) error {
	t.urls = append(t.urls, url)
	return nil
}

func (t *fakeTrainer) TrainFAQs(ctx context.Context, ownerID, agentID uuid.UUID, faqs []FAQDraft) error {
	t.faqs = append(t.faqs, faqs...)
	return nil
}

func newTestService(gen Generator, dir *fakeDirectory, cat *fakeCatalog, tr *fakeTrainer) *Service {
	return New(gen, dir, cat, tr, logger.New("test"))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func completeAgentDraft() AgentDraft {
	return AgentDraft{
		Name:               "Sales Bot",
		CompanyName:        "Brew Haven",
		CompanyDescription: "Coffee shop with online ordering",
		GreetingMessage:    "Welcome to Brew Haven!",
	}
}

func TestMergeDraft_NonEmptyFieldsWinAndListsAppend(t *testing.T) {
	prev := Draft{
		Agent:    AgentDraft{CompanyName: "Brew Haven", Tone: "friendly"},
		Products: []ProductDraft{{Name: "Espresso"}},
		Training: TrainingDraft{URLs: []string{"https://brewhaven.example"}},
	}
	delta := Draft{
		Agent:    AgentDraft{Name: "Sales Bot", Tone: ""},
		Products: []ProductDraft{{Name: "Latte"}},
		Training: TrainingDraft{FAQs: []FAQDraft{{Question: "Do you ship?", Answer: "Yes."}}},
	}

	merged := mergeDraft(prev, delta)

	if merged.Agent.Name != "Sales Bot" || merged.Agent.CompanyName != "Brew Haven" {
		t.Fatalf("unexpected agent merge %+v", merged.Agent)
	}
	if merged.Agent.Tone != "friendly" {
		t.Fatal("expected empty delta field to keep existing value")
	}
	if len(merged.Products) != 2 || merged.Products[1].Name != "Latte" {
		t.Fatalf("expected products appended, got %+v", merged.Products)
	}
	if len(merged.Training.URLs) != 1 || len(merged.Training.FAQs) != 1 {
		t.Fatalf("expected training sources preserved and appended, got %+v", merged.Training)
	}
}

func TestRequiredComplete(t *testing.T) {
	if requiredComplete(AgentDraft{Name: "Bot", CompanyName: "Acme"}) {
		t.Fatal("expected incomplete draft to fail the gate")
	}
	if !requiredComplete(completeAgentDraft()) {
		t.Fatal("expected complete draft to pass the gate")
	}
}

func TestPrice_UnmarshalJSON(t *testing.T) {
	var p struct {
		Price *Price `json:"price"`
	}

	if err := json.Unmarshal([]byte(`{"price": 4.5}`), &p); err != nil || p.Price == nil || *p.Price != 4.5 {
		t.Fatalf("expected numeric price, got %v (err %v)", p.Price, err)
	}

	p.Price = nil
	if err := json.Unmarshal([]byte(`{"price": "3"}`), &p); err != nil || p.Price == nil || *p.Price != 3 {
		t.Fatalf("expected string price parsed, got %v (err %v)", p.Price, err)
	}

	p.Price = nil
	if err := json.Unmarshal([]byte(`{"price": "a few bucks"}`), &p); err != nil {
		t.Fatalf("expected unparsable price ignored, got error %v", err)
	}
}

func TestConverse_MergesExtractionAndAdvancesPhase(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":       "Nice! On to products.",
		"extracted_data": map[string]any{"agent": map[string]any{"greeting_message": "Welcome to Brew Haven!"}},
		"current_phase":  PhaseAgentInfo,
		"phase_complete": true,
	})}
	svc := newTestService(gen, &fakeDirectory{}, &fakeCatalog{}, &fakeTrainer{})

	draft := Draft{Agent: completeAgentDraft()}
	draft.Agent.GreetingMessage = ""

	result, err := svc.Converse(context.Background(), ConverseParams{
		OwnerID: uuid.New(),
		Message: "say: Welcome to Brew Haven!",
		Draft:   draft,
		Phase:   PhaseAgentInfo,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Draft.Agent.GreetingMessage != "Welcome to Brew Haven!" {
		t.Fatalf("expected extraction merged, got %+v", result.Draft.Agent)
	}
	if result.Phase != PhaseProducts {
		t.Fatalf("expected advance to products, got %q", result.Phase)
	}
	if !gen.opts.JSONMode {
		t.Fatal("expected JSON mode generation")
	}
}

func TestConverse_UnparsableEnvelopeFallsBack(t *testing.T) {
	gen := &fakeGen{raw: "not json at all"}
	svc := newTestService(gen, &fakeDirectory{}, &fakeCatalog{}, &fakeTrainer{})

	draft := Draft{Agent: AgentDraft{CompanyName: "Brew Haven"}}
	result, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "hi", Draft: draft})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Response != parseFallback {
		t.Fatalf("expected fallback response, got %q", result.Response)
	}
	if result.Draft.Agent.CompanyName != "Brew Haven" {
		t.Fatal("expected draft preserved on fallback")
	}
}

func TestConverse_GeneratorFailureReturnsError(t *testing.T) {
	gen := &fakeGen{err: errors.New("upstream down")}
	svc := newTestService(gen, &fakeDirectory{}, &fakeCatalog{}, &fakeTrainer{})

	if _, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "hi"}); err == nil {
		t.Fatal("expected error when the model is unreachable")
	}
}

func TestConverse_DeploysOnConfirmation(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":    "Creating your agent now!",
		"is_complete": true,
	})}
	price := Price(4.5)
	dir := &fakeDirectory{createdID: uuid.New()}
	cat := &fakeCatalog{}
	tr := &fakeTrainer{}
	svc := newTestService(gen, dir, cat, tr)

	draft := Draft{
		Agent: completeAgentDraft(),
		Products: []ProductDraft{
			{Name: "Latte", Price: &price},
			{Name: "Mystery", Price: nil}, // no price, skipped
		},
		Training: TrainingDraft{
			URLs: []string{"https://brewhaven.example"},
			FAQs: []FAQDraft{
				{Question: "Do you ship?", Answer: "Yes."},
				{Question: "Incomplete?"}, // no answer, skipped
			},
		},
	}

	result, err := svc.Converse(context.Background(), ConverseParams{
		OwnerID: uuid.New(),
		Message: "create it",
		Draft:   draft,
		Phase:   PhaseTraining,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dir.created) != 1 || dir.created[0].Name != "Sales Bot" {
		t.Fatalf("expected agent created, got %+v", dir.created)
	}
	if len(cat.added) != 1 || cat.added[0].Name != "Latte" {
		t.Fatalf("expected only the priced product, got %+v", cat.added)
	}
	if len(tr.urls) != 1 || tr.urls[0] != "https://brewhaven.example" {
		t.Fatalf("expected url training, got %v", tr.urls)
	}
	if len(tr.faqs) != 1 || tr.faqs[0].Question != "Do you ship?" {
		t.Fatalf("expected only the complete FAQ pair, got %+v", tr.faqs)
	}

	if result.AgentID == nil || *result.AgentID != dir.createdID {
		t.Fatalf("expected deployed agent id, got %v", result.AgentID)
	}
	if result.IsComplete {
		t.Fatal("expected the chat to stay open after deployment")
	}
	if result.Draft.Agent.Name != "" || len(result.Draft.Products) != 0 {
		t.Fatalf("expected draft reset for the next creation, got %+v", result.Draft)
	}
	if result.Phase != PhaseAgentInfo {
		t.Fatalf("expected phase reset, got %q", result.Phase)
	}
}

func TestConverse_EarlyConfirmationDoesNotDeploy(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":    "Creating it!",
		"is_complete": true,
	})}
	dir := &fakeDirectory{createdID: uuid.New()}
	svc := newTestService(gen, dir, &fakeCatalog{}, &fakeTrainer{})

	result, err := svc.Converse(context.Background(), ConverseParams{
		OwnerID: uuid.New(),
		Message: "create it",
		Draft:   Draft{Agent: AgentDraft{Name: "Sales Bot"}}, // required fields missing
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dir.created) != 0 {
		t.Fatal("expected no deployment with required fields missing")
	}
	if result.IsComplete {
		t.Fatal("expected completion suppressed")
	}
}

func TestConverse_CloneCopiesAgentAndProducts(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":         "Cloning!",
		"intent":           "clone_agent",
		"clone_agent_name": "tech buddy",
	})}
	price := Price(10)
	dir := &fakeDirectory{agents: []AgentRecord{
		{ID: uuid.New(), Name: "Other Bot"},
		{ID: uuid.New(), Name: "Tech Buddy", CompanyName: "TechCorp", GreetingMessage: "Hi!"},
	}}
	cat := &fakeCatalog{products: []ProductDraft{{Name: "Widget", Price: &price}}}
	svc := newTestService(gen, dir, cat, &fakeTrainer{})

	result, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "clone tech buddy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Draft.Agent.Name != "Tech Buddy Clone" {
		t.Fatalf("expected clone suffix, got %q", result.Draft.Agent.Name)
	}
	if result.Draft.Agent.CompanyName != "TechCorp" || result.Draft.Agent.GreetingMessage != "Hi!" {
		t.Fatalf("expected agent fields copied, got %+v", result.Draft.Agent)
	}
	if len(result.Draft.Products) != 1 || result.Draft.Products[0].Name != "Widget" {
		t.Fatalf("expected products copied, got %+v", result.Draft.Products)
	}
	if result.Phase != PhaseProducts {
		t.Fatalf("expected products phase after clone, got %q", result.Phase)
	}
}

func TestConverse_CloneUnknownAgent(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":         "Cloning!",
		"clone_agent_name": "ghost",
	})}
	svc := newTestService(gen, &fakeDirectory{}, &fakeCatalog{}, &fakeTrainer{})

	result, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "clone ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Draft.Agent.Name != "" {
		t.Fatal("expected draft untouched for unknown clone target")
	}
}

func TestConverse_EditUpdatesWhitelistedField(t *testing.T) {
	agentID := uuid.New()
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":   "Updating!",
		"intent":     "edit_agent",
		"agent_name": "Tech Buddy",
		"edit_field": "tone",
		"edit_value": "professional",
	})}
	dir := &fakeDirectory{agents: []AgentRecord{{ID: agentID, Name: "Tech Buddy"}}}
	svc := newTestService(gen, dir, &fakeCatalog{}, &fakeTrainer{})

	if _, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "make tech buddy professional"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dir.updates) != 1 || dir.updates[0] != (fieldUpdate{agentID: agentID, field: "tone", value: "professional"}) {
		t.Fatalf("unexpected updates %+v", dir.updates)
	}
}

func TestConverse_EditRejectsUnknownField(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":   "Updating!",
		"intent":     "edit_agent",
		"agent_name": "Tech Buddy",
		"edit_field": "owner_id",
		"edit_value": "nope",
	})}
	dir := &fakeDirectory{agents: []AgentRecord{{ID: uuid.New(), Name: "Tech Buddy"}}}
	svc := newTestService(gen, dir, &fakeCatalog{}, &fakeTrainer{})

	result, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "change owner"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir.updates) != 0 {
		t.Fatal("expected no update for a non-editable field")
	}
	if result.Response == "" {
		t.Fatal("expected a conversational refusal")
	}
}

func TestConverse_ShowAgentsReturnsList(t *testing.T) {
	gen := &fakeGen{raw: mustJSON(t, map[string]any{
		"response":         "Here they are.",
		"show_agents_list": true,
	})}
	dir := &fakeDirectory{agents: []AgentRecord{{ID: uuid.New(), Name: "Tech Buddy"}}}
	svc := newTestService(gen, dir, &fakeCatalog{}, &fakeTrainer{})

	result, err := svc.Converse(context.Background(), ConverseParams{OwnerID: uuid.New(), Message: "show my agents"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Agents) != 1 || result.Agents[0].Name != "Tech Buddy" {
		t.Fatalf("expected agents in result, got %+v", result.Agents)
	}
}

func TestStart_FallsBackToWelcome(t *testing.T) {
	gen := &fakeGen{err: errors.New("upstream down")}
	svc := newTestService(gen, &fakeDirectory{}, &fakeCatalog{}, &fakeTrainer{})

	result := svc.Start(context.Background())
	if result.Response != welcomeMessage {
		t.Fatalf("expected static welcome, got %q", result.Response)
	}
	if result.Phase != PhaseAgentInfo {
		t.Fatalf("expected agent_info phase, got %q", result.Phase)
	}
}

func TestBuildTurnMessages_WindowAndRoles(t *testing.T) {
	history := make([]Turn, 14)
	for i := range history {
		history[i] = Turn{Role: "user", Content: "old"}
	}
	history[13] = Turn{Role: "system", Content: "sneaky"}

	messages := buildTurnMessages(history, "now")

	if len(messages) != historyContextWindow+1 {
		t.Fatalf("expected %d messages, got %d", historyContextWindow+1, len(messages))
	}
	if last := messages[len(messages)-1]; last.Role != "user" || last.Content != "now" {
		t.Fatalf("expected current message last, got %+v", last)
	}
	if messages[len(messages)-2].Role != "user" {
		t.Fatal("expected non-assistant roles coerced to user")
	}
}
