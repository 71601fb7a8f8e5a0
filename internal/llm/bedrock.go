package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Hammadullah2/StyleSync/internal/catalog"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

const systemPrompt = "You are a fashion styling assistant. Recommend outfits " +
	"using only the catalog items provided. Keep answers short and friendly."

// BedrockGenerator produces styling advice via the AWS Bedrock runtime
// (Anthropic messages API). The response usage block feeds token and cost
// metrics.
type BedrockGenerator struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float64
}

// NewBedrockGenerator loads the default AWS config for the region and builds
// a Bedrock-backed generator.
func NewBedrockGenerator(ctx context.Context, region, modelID string) (*BedrockGenerator, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockGenerator{
		client:      bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		maxTokens:   512,
		temperature: 0.7,
	}, nil
}

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	System           string          `json:"system,omitempty"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (g *BedrockGenerator) Generate(ctx context.Context, query string, products []catalog.Product) (*Result, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		System:           systemPrompt,
		MaxTokens:        g.maxTokens,
		Temperature:      g.temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: buildPrompt(query, products)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal bedrock request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model %s: %w", g.modelID, err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("unmarshal bedrock response: %w", err)
	}

	var text string
	if len(response.Content) > 0 {
		text = response.Content[0].Text
	}

	return &Result{
		Text:         text,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

func buildPrompt(query string, products []catalog.Product) string {
	var b strings.Builder
	b.WriteString("Customer request: ")
	b.WriteString(query)
	if len(products) > 0 {
		b.WriteString("\n\nMatching catalog items:\n")
		for _, p := range products {
			b.WriteString("- ")
			b.WriteString(p.DisplayName)
			if p.BaseColour != "" {
				b.WriteString(" (")
				b.WriteString(p.BaseColour)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
