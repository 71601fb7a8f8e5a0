package guardrails

import (
	"strings"

	"github.com/Hammadullah2/StyleSync/internal/audit"
	"github.com/Hammadullah2/StyleSync/internal/catalog"
	"github.com/Hammadullah2/StyleSync/internal/rules"
)

// Generic domain terms that satisfy the grounding heuristic even when no
// retrieved product name appears verbatim in the response.
var fashionTerms = []string{
	"item", "product", "recommend", "suggest", "style", "outfit", "wear", "fashion",
}

// Hallucination check messages surfaced in moderation details.
const (
	msgGrounded     = "Response references retrieved products"
	msgNoProducts   = "No products to verify"
	msgHallucinated = "Response may contain hallucinated products"
)

// OutputGuardrails moderates generated responses before they reach the
// caller. Toxicity blocks by default; hallucination and off-topic are
// advisory telemetry unless the severity policy promotes them.
type OutputGuardrails struct {
	table *rules.Table
	audit *audit.Logger
}

// NewOutputGuardrails creates an output guardrail over the given rule table.
func NewOutputGuardrails(table *rules.Table, auditLog *audit.Logger) *OutputGuardrails {
	return &OutputGuardrails{table: table, audit: auditLog}
}

// Moderate checks toxicity first (the only default-blocking check), then the
// hallucination heuristic, then off-topic rules. A blocked response is
// replaced with a fixed substitute message; the original text never leaves
// the system. Advisory failures log a warning event and alter nothing.
func (g *OutputGuardrails) Moderate(response string, retrieved []catalog.Product) ModerationResult {
	if m, ok := g.table.FirstToxic(response); ok {
		details := map[string]any{"matched_word": m.Text}
		if g.table.Severity(rules.CategoryToxicity) == rules.SeverityBlock {
			g.audit.LogEvent(audit.EventOutputBlocked, RuleToxicity, response, details)
			return ModerationResult{
				Safe:     false,
				Response: MsgUnsafeResponse,
				Rule:     RuleToxicity,
				Details:  details,
			}
		}
		g.audit.LogEvent(audit.EventOutputWarning, RuleToxicity, response, details)
	}

	hallucinationMsg, grounded := checkGrounding(response, retrieved)
	if !grounded {
		details := map[string]any{"retrieved_products": productNames(retrieved, 3)}
		if g.table.Severity(rules.CategoryHallucination) == rules.SeverityBlock {
			g.audit.LogEvent(audit.EventOutputBlocked, RuleHallucination, response, details)
			return ModerationResult{
				Safe:     false,
				Response: MsgUnsafeResponse,
				Rule:     RuleHallucination,
				Details:  details,
			}
		}
		g.audit.LogEvent(audit.EventOutputWarning, RuleHallucination, response, details)
	}

	if m, ok := g.table.FirstOffTopic(response); ok {
		details := map[string]any{"matched_topic": m.Text}
		if g.table.Severity(rules.CategoryOffTopic) == rules.SeverityBlock {
			g.audit.LogEvent(audit.EventOutputBlocked, RuleOffTopic, response, details)
			return ModerationResult{
				Safe:     false,
				Response: MsgUnsafeResponse,
				Rule:     RuleOffTopic,
				Details:  details,
			}
		}
		g.audit.LogEvent(audit.EventOutputWarning, RuleOffTopic, response, details)
	}

	g.audit.LogEvent(audit.EventOutputPassed, RuleAllChecks, response, map[string]any{})
	return ModerationResult{
		Safe:     true,
		Response: response,
		Rule:     RuleAllChecks,
		Details: map[string]any{
			"toxicity":      "passed",
			"hallucination": hallucinationMsg,
		},
	}
}

// checkGrounding verifies the response textually references at least one
// retrieved product's display name (first three words, tokens longer than
// three characters, case-insensitive) or uses a generic fashion term.
// With nothing retrieved there is nothing to hallucinate against.
func checkGrounding(response string, retrieved []catalog.Product) (string, bool) {
	if len(retrieved) == 0 {
		return msgNoProducts, true
	}

	lower := strings.ToLower(response)

	for _, p := range retrieved {
		if p.DisplayName == "" {
			continue
		}
		words := strings.Fields(strings.ToLower(p.DisplayName))
		if len(words) > 3 {
			words = words[:3]
		}
		for _, w := range words {
			if len(w) > 3 && strings.Contains(lower, w) {
				return msgGrounded, true
			}
		}
	}

	for _, term := range fashionTerms {
		if strings.Contains(lower, term) {
			return msgGrounded, true
		}
	}

	return msgHallucinated, false
}

// productNames returns up to max display names for event details.
func productNames(products []catalog.Product, max int) []string {
	names := make([]string, 0, max)
	for _, p := range products {
		if len(names) == max {
			break
		}
		names = append(names, p.DisplayName)
	}
	return names
}
