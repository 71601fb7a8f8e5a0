package guardrails

import (
	"github.com/Hammadullah2/StyleSync/internal/audit"
	"github.com/Hammadullah2/StyleSync/internal/rules"
)

// InputGuardrails validates inbound queries before any retrieval or
// generation occurs. Pure computation over an injected rule table plus one
// audit write per verdict.
type InputGuardrails struct {
	table *rules.Table
	audit *audit.Logger
}

// NewInputGuardrails creates an input guardrail over the given rule table.
func NewInputGuardrails(table *rules.Table, auditLog *audit.Logger) *InputGuardrails {
	return &InputGuardrails{table: table, audit: auditLog}
}

// Validate checks a query against PII rules first, then prompt injection
// rules. Every branch emits exactly one audit event. An empty query is
// valid. Calling Validate twice with the same input yields the same verdict.
func (g *InputGuardrails) Validate(query string) ValidationResult {
	// PII first. All matching categories accumulate — multiple PII kinds can
	// co-occur in one query. A PII hit skips the injection check entirely.
	if matched := g.table.PIICategories(query); len(matched) > 0 {
		result := ValidationResult{
			Valid:    !g.anyBlocking(matched),
			Message:  MsgPIIBlocked,
			Rule:     RulePIIDetected,
			PIITypes: matched,
		}
		if result.Valid {
			// Policy demoted every matched category to warn.
			result.Message = MsgInputPassed
			g.audit.LogEvent(audit.EventInputWarning, RulePIIDetected, query, result.Details())
			return result
		}
		g.audit.LogEvent(audit.EventInputBlocked, RulePIIDetected, query, result.Details())
		return result
	}

	// Injection rules in declared order; first match wins.
	if m, ok := g.table.FirstInjection(query); ok {
		result := ValidationResult{
			Valid:          g.table.Severity(rules.CategoryInjection) != rules.SeverityBlock,
			Message:        MsgInjectionBlocked,
			Rule:           RuleInjection,
			MatchedPattern: m.Text,
		}
		if result.Valid {
			result.Message = MsgInputPassed
			g.audit.LogEvent(audit.EventInputWarning, RuleInjection, query, result.Details())
			return result
		}
		g.audit.LogEvent(audit.EventInputBlocked, RuleInjection, query, result.Details())
		return result
	}

	g.audit.LogEvent(audit.EventInputPassed, RuleAllChecks, query, map[string]any{})
	return ValidationResult{
		Valid:   true,
		Message: MsgInputPassed,
		Rule:    RuleAllChecks,
	}
}

// anyBlocking reports whether any matched PII category carries block severity.
func (g *InputGuardrails) anyBlocking(cats []rules.Category) bool {
	for _, c := range cats {
		if g.table.Severity(c) == rules.SeverityBlock {
			return true
		}
	}
	return false
}
