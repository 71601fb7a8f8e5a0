package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/Hammadullah2/StyleSync/internal/catalog"
	"github.com/Hammadullah2/StyleSync/internal/guardrails"
	"github.com/Hammadullah2/StyleSync/internal/llm"
	"github.com/Hammadullah2/StyleSync/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retriever fetches catalog items matching a query. In production this is
// the vector index; tests and offline runs use the keyword retriever.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]catalog.Product, error)
}

// Reply is the terminal outcome of one chat request. Blocked replies are
// normal outcomes, not errors.
type Reply struct {
	RequestID string
	Response  string
	Blocked   bool
	Products  []catalog.Product
	Details   map[string]any
}

// Orchestrator runs the chat pipeline: input guardrail, retrieval,
// generation, output guardrail — with metrics bookkeeping on every path.
type Orchestrator struct {
	input     *guardrails.InputGuardrails
	output    *guardrails.OutputGuardrails
	retriever Retriever
	generator llm.Generator
	metrics   *metrics.Registry
	logger    *zap.Logger
	model     string
	topK      int
}

// Config holds the orchestrator's injected collaborators.
type Config struct {
	Input     *guardrails.InputGuardrails
	Output    *guardrails.OutputGuardrails
	Retriever Retriever
	Generator llm.Generator
	Metrics   *metrics.Registry
	Logger    *zap.Logger
	Model     string
	TopK      int
}

// NewOrchestrator wires the pipeline together.
func NewOrchestrator(cfg Config) *Orchestrator {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Orchestrator{
		input:     cfg.Input,
		output:    cfg.Output,
		retriever: cfg.Retriever,
		generator: cfg.Generator,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		model:     cfg.Model,
		topK:      topK,
	}
}

// Chat handles one request end to end. A blocked query never reaches
// retrieval or generation; a blocked response is replaced before it leaves.
// EndRequest and the gauge decrement run on every exit path, including
// upstream failure and cancellation.
func (o *Orchestrator) Chat(ctx context.Context, query string) (reply *Reply, err error) {
	tracker := o.metrics.NewTracker("/chat", o.model)
	tracker.StartRequest()

	status := "success"
	defer func() {
		tracker.EndRequest(status)
	}()

	requestID := uuid.New().String()

	validation := o.input.Validate(query)
	tracker.TrackGuardrail("input", validation.Rule, validation.Valid)
	if !validation.Valid {
		o.logger.Warn("input blocked by guardrails",
			zap.String("request_id", requestID),
			zap.String("rule", validation.Rule),
		)
		return &Reply{
			RequestID: requestID,
			Response:  validation.Message,
			Blocked:   true,
			Details:   validation.Details(),
		}, nil
	}

	retrievalStart := time.Now()
	products, err := o.retriever.Retrieve(ctx, query, o.topK)
	tracker.TrackRetrieval(time.Since(retrievalStart).Seconds())
	if err != nil {
		status = "error"
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	generationStart := time.Now()
	generated, err := o.generator.Generate(ctx, query, products)
	if err != nil {
		status = "error"
		return nil, fmt.Errorf("generate: %w", err)
	}
	tracker.TrackGeneration(time.Since(generationStart).Seconds(),
		generated.InputTokens, generated.OutputTokens)

	moderation := o.output.Moderate(generated.Text, products)
	tracker.TrackGuardrail("output", moderation.Rule, moderation.Safe)
	if !moderation.Safe {
		o.logger.Warn("output moderated by guardrails",
			zap.String("request_id", requestID),
			zap.String("rule", moderation.Rule),
		)
		return &Reply{
			RequestID: requestID,
			Response:  moderation.Response,
			Blocked:   true,
			Products:  products,
			Details:   moderation.Details,
		}, nil
	}

	return &Reply{
		RequestID: requestID,
		Response:  moderation.Response,
		Blocked:   false,
		Products:  products,
		Details:   moderation.Details,
	}, nil
}
