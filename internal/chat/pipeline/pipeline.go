package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"convosell_backend/platform/logger"
)

// Fallback responses. The generation fallback covers a failed model call;
// the error fallback covers a failure anywhere else in the pipeline.
const (
	generationFallback = "I apologize, but I'm having trouble responding right now. Please try again."
	errorFallback      = "I apologize, but I encountered an error. Please try again."
)

// Pipeline orchestrates the five conversation stages. It holds no per-session
// state and is safe for concurrent use across sessions; concurrent calls for
// the same session may race on history and must be serialized by the caller.
type Pipeline struct {
	generator Generator
	retriever Retriever
	cfg       Config
	log       *logger.Logger
}

// New creates a pipeline. retriever may be nil when no vector store is
// configured; the retrieval stage then always yields no context.
func New(generator Generator, retriever Retriever, cfg Config, log *logger.Logger) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultConfig().HistoryWindow
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = DefaultConfig().RetrievalTimeout
	}
	return &Pipeline{generator: generator, retriever: retriever, cfg: cfg, log: log}
}

// Process runs one message through all five stages and always returns a
// well-formed result with a non-empty response. No error or panic escapes.
func (p *Pipeline) Process(ctx context.Context, input Input) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pipeline panicked", "agent_id", input.AgentID, "panic", fmt.Sprint(r))
			result = Result{Response: errorFallback}
		}
	}()

	var st state

	// Stage 1: greeting check. Pure predicate on history length.
	st = merge(st, p.greetingCheck(input))

	// Stage 2: intent classification. The greeting label from stage 1 wins
	// over keyword matches on the first turn; this short-circuit is
	// deliberate and load-bearing for greeting analytics.
	st = merge(st, p.classifyIntent(input, st))

	// Stage 3: context retrieval. Best-effort with its own timeout.
	st = merge(st, p.retrieveContext(ctx, input))

	// Stage 4: response generation. Falls back to a fixed apology.
	st = merge(st, p.generateResponse(ctx, input, st))

	// Stage 5: lead qualification. Best-effort, gated on history length.
	st = merge(st, p.qualifyLead(ctx, input))

	if st.response == "" {
		st.response = errorFallback
	}

	return Result{
		Response:    st.response,
		Intent:      st.intent,
		Lead:        st.lead,
		ContextUsed: st.retrievedContext != "",
	}
}

// merge folds a stage delta into the accumulated state. Zero-valued delta
// fields leave the existing state untouched.
func merge(prev, delta state) state {
	if delta.intent != "" {
		prev.intent = delta.intent
	}
	if delta.greetingDetected {
		prev.greetingDetected = true
	}
	if delta.retrievedContext != "" {
		prev.retrievedContext = delta.retrievedContext
	}
	if delta.response != "" {
		prev.response = delta.response
	}
	if delta.lead != nil {
		prev.lead = delta.lead
	}
	return prev
}

func (p *Pipeline) greetingCheck(input Input) state {
	if len(input.History) <= 1 {
		return state{intent: IntentGreeting, greetingDetected: true}
	}
	return state{}
}

func (p *Pipeline) classifyIntent(input Input, prev state) state {
	if prev.greetingDetected {
		return state{}
	}
	return state{intent: ClassifyIntent(input.CurrentMessage)}
}

func (p *Pipeline) retrieveContext(ctx context.Context, input Input) state {
	if p.retriever == nil {
		return state{}
	}

	start := time.Now()
	retrievalCtx, cancel := context.WithTimeout(ctx, p.cfg.RetrievalTimeout)
	defer cancel()

	matches, err := p.retriever.Search(retrievalCtx, input.AgentID, input.CurrentMessage, p.cfg.TopK)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		p.log.PipelineStage("context_retrieval", elapsed, true)
		return state{}
	}
	if len(matches) == 0 {
		p.log.PipelineStage("context_retrieval", elapsed, false)
		return state{}
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, fmt.Sprintf("[Relevance: %.2f]\n%s", m.Score, m.Text))
	}
	p.log.PipelineStage("context_retrieval", elapsed, false)
	return state{retrievedContext: strings.Join(parts, "\n\n")}
}

func (p *Pipeline) generateResponse(ctx context.Context, input Input, prev state) state {
	start := time.Now()

	systemPrompt := BuildSystemPrompt(input.Profile, prev.retrievedContext)

	history := input.History
	if len(history) > p.cfg.HistoryWindow {
		history = history[len(history)-p.cfg.HistoryWindow:]
	}
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: input.CurrentMessage})

	response, err := p.generator.Generate(ctx, messages, Options{SystemPrompt: systemPrompt})
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil || strings.TrimSpace(response) == "" {
		if err != nil {
			p.log.UpstreamError("llm", "generate response", err)
		}
		p.log.PipelineStage("response_generation", elapsed, true)
		return state{response: generationFallback}
	}

	p.log.PipelineStage("response_generation", elapsed, false)
	return state{response: response}
}

func (p *Pipeline) qualifyLead(ctx context.Context, input Input) state {
	if len(input.History) < leadHistoryThreshold {
		return state{}
	}

	start := time.Now()
	prompt := buildExtractionPrompt(input.History)
	raw, err := p.generator.Generate(ctx, []Message{{Role: "user", Content: prompt}}, Options{JSONMode: true})
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		p.log.UpstreamError("llm", "extract lead", err)
		p.log.PipelineStage("lead_qualification", elapsed, true)
		return state{}
	}

	lead := parseLeadInfo(raw)
	p.log.PipelineStage("lead_qualification", elapsed, lead == nil)
	return state{lead: lead}
}
