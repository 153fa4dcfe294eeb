package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"convosell_backend/platform/logger"
)

type generatorCall struct {
	messages []Message
	opts     Options
}

type fakeGenerator struct {
	response  string
	err       error
	jsonReply string
	calls     []generatorCall
}

func (g *fakeGenerator) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	g.calls = append(g.calls, generatorCall{messages: messages, opts: opts})
	if opts.JSONMode {
		return g.jsonReply, nil
	}
	return g.response, g.err
}

type fakeRetriever struct {
	matches []Match
	err     error
	topK    int
}

func (r *fakeRetriever) Search(ctx context.Context, namespace, query string, topK int) ([]Match, error) {
	r.topK = topK
	return r.matches, r.err
}

func newTestPipeline(gen Generator, ret Retriever) *Pipeline {
	return New(gen, ret, DefaultConfig(), logger.New("test"))
}

func history(turns int) []Message {
	msgs := make([]Message, 0, turns)
	for i := 0; i < turns; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs = append(msgs, Message{Role: role, Content: "turn"})
	}
	return msgs
}

func TestProcess_FirstTurnIsGreeting(t *testing.T) {
	gen := &fakeGenerator{response: "Hello there!"}
	p := newTestPipeline(gen, nil)

	result := p.Process(context.Background(), Input{
		AgentID:        "agent-1",
		CurrentMessage: "how much does it cost?",
	})

	if result.Intent != IntentGreeting {
		t.Fatalf("expected greeting intent on first turn, got %q", result.Intent)
	}
	if result.Response != "Hello there!" {
		t.Fatalf("expected generated response, got %q", result.Response)
	}
}

func TestProcess_KeywordIntentAfterFirstTurn(t *testing.T) {
	gen := &fakeGenerator{response: "Our plans start at $10."}
	p := newTestPipeline(gen, nil)

	result := p.Process(context.Background(), Input{
		AgentID:        "agent-1",
		History:        history(4),
		CurrentMessage: "what is the price of the premium plan?",
	})

	if result.Intent != IntentPricing {
		t.Fatalf("expected pricing intent, got %q", result.Intent)
	}
}

func TestProcess_GenerationFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	p := newTestPipeline(gen, nil)

	result := p.Process(context.Background(), Input{
		AgentID:        "agent-1",
		CurrentMessage: "hello",
	})

	if result.Response != generationFallback {
		t.Fatalf("expected generation fallback, got %q", result.Response)
	}
}

func TestProcess_BlankGenerationFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "   "}
	p := newTestPipeline(gen, nil)

	result := p.Process(context.Background(), Input{CurrentMessage: "hi"})

	if result.Response != generationFallback {
		t.Fatalf("expected fallback for blank response, got %q", result.Response)
	}
}

func TestProcess_RetrievedContextFlagsResult(t *testing.T) {
	gen := &fakeGenerator{response: "answer"}
	ret := &fakeRetriever{matches: []Match{
		{Score: 0.91, Text: "Our warranty lasts two years."},
		{Score: 0.85, Text: "Returns are free within 30 days."},
	}}
	p := newTestPipeline(gen, ret)

	result := p.Process(context.Background(), Input{
		AgentID:        "agent-1",
		History:        history(2),
		CurrentMessage: "tell me about the warranty",
	})

	if !result.ContextUsed {
		t.Fatal("expected ContextUsed to be true when matches were found")
	}
	if ret.topK != DefaultConfig().TopK {
		t.Fatalf("expected topK %d, got %d", DefaultConfig().TopK, ret.topK)
	}
}

func TestProcess_RetrieverErrorDegradesGracefully(t *testing.T) {
	gen := &fakeGenerator{response: "answer"}
	ret := &fakeRetriever{err: errors.New("vector store down")}
	p := newTestPipeline(gen, ret)

	result := p.Process(context.Background(), Input{
		AgentID:        "agent-1",
		History:        history(2),
		CurrentMessage: "hello",
	})

	if result.ContextUsed {
		t.Fatal("expected no context after retriever failure")
	}
	if result.Response != "answer" {
		t.Fatalf("expected generation to proceed, got %q", result.Response)
	}
}

func TestProcess_LeadExtractionGatedOnHistoryLength(t *testing.T) {
	gen := &fakeGenerator{response: "answer", jsonReply: `{"name": "Jane", "interest_level": "high"}`}
	p := newTestPipeline(gen, nil)

	result := p.Process(context.Background(), Input{
		History:        history(2),
		CurrentMessage: "my name is Jane",
	})
	if result.Lead != nil {
		t.Fatal("expected no lead extraction on short history")
	}

	result = p.Process(context.Background(), Input{
		History:        history(6),
		CurrentMessage: "my name is Jane",
	})
	if result.Lead == nil {
		t.Fatal("expected lead extraction on long history")
	}
	if result.Lead.Name != "Jane" || result.Lead.InterestLevel != "high" {
		t.Fatalf("unexpected lead %+v", result.Lead)
	}
}

func TestProcess_HistoryWindowTrimsGenerationInput(t *testing.T) {
	gen := &fakeGenerator{response: "answer"}
	p := New(gen, nil, Config{HistoryWindow: 2, TopK: 3, RetrievalTimeout: DefaultConfig().RetrievalTimeout}, logger.New("test"))

	p.Process(context.Background(), Input{
		History: []Message{
			{Role: "user", Content: "one"},
			{Role: "assistant", Content: "two"},
			{Role: "user", Content: "three"},
			{Role: "assistant", Content: "four"},
			{Role: "user", Content: "five"},
			{Role: "assistant", Content: "six"},
		},
		CurrentMessage: "latest",
	})

	// First call is the generation call; history window plus the current turn.
	if len(gen.calls) == 0 {
		t.Fatal("expected at least one generator call")
	}
	generation := gen.calls[0]
	if generation.opts.JSONMode {
		t.Fatal("expected the first call to be the generation call")
	}
	got := generation.messages
	if len(got) != 3 {
		t.Fatalf("expected 2 windowed turns plus the current message, got %d", len(got))
	}
	if got[0].Content != "five" || got[1].Content != "six" {
		t.Fatalf("expected the trailing history window, got %q and %q", got[0].Content, got[1].Content)
	}
	if got[2].Role != "user" || got[2].Content != "latest" {
		t.Fatalf("expected the current message last, got %+v", got[2])
	}
}

type panickyGenerator struct{}

func (panickyGenerator) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	panic("boom")
}

func TestProcess_PanicYieldsErrorFallback(t *testing.T) {
	p := newTestPipeline(panickyGenerator{}, nil)

	result := p.Process(context.Background(), Input{CurrentMessage: "hi"})

	if result.Response != errorFallback {
		t.Fatalf("expected error fallback after panic, got %q", result.Response)
	}
}

func TestRetrieveContext_FormatsMatchesWithScores(t *testing.T) {
	gen := &fakeGenerator{response: "answer"}
	ret := &fakeRetriever{matches: []Match{{Score: 0.9, Text: "fact one"}, {Score: 0.8, Text: "fact two"}}}
	p := newTestPipeline(gen, ret)

	st := p.retrieveContext(context.Background(), Input{AgentID: "a", CurrentMessage: "q"})

	if !strings.Contains(st.retrievedContext, "[Relevance: 0.90]") {
		t.Fatalf("expected relevance header, got %q", st.retrievedContext)
	}
	if !strings.Contains(st.retrievedContext, "fact two") {
		t.Fatalf("expected second match in context, got %q", st.retrievedContext)
	}
}
