package guardrails

import (
	"github.com/Hammadullah2/StyleSync/internal/rules"
)

// Coarse rule identifiers recorded on audit events and metrics labels.
const (
	RulePIIDetected   = "PII_DETECTED"
	RuleInjection     = "PROMPT_INJECTION"
	RuleToxicity      = "TOXICITY"
	RuleHallucination = "HALLUCINATION"
	RuleOffTopic      = "OFF_TOPIC"
	RuleAllChecks     = "ALL_CHECKS"
)

// User-facing messages. Fixed and non-revealing: the offending PII,
// injection text, or toxic content is never echoed back to the caller.
const (
	MsgPIIBlocked       = "Query blocked: Personal information detected. Please remove sensitive data."
	MsgInjectionBlocked = "Query blocked: Potentially harmful prompt pattern detected."
	MsgInputPassed      = "Query passed all input validations"
	MsgUnsafeResponse   = "I apologize, but I cannot provide that response. Let me help you with fashion advice instead."
)

// ValidationResult is the input guardrail verdict.
type ValidationResult struct {
	Valid   bool
	Message string
	// Rule identifies which check decided the verdict (metrics label).
	Rule string
	// PIITypes lists the violated PII categories in detection order.
	// Set only when PII blocked the query.
	PIITypes []rules.Category
	// MatchedPattern is the injection substring that triggered the block.
	// Set only when the injection check blocked the query.
	MatchedPattern string
}

// Details returns the result's detail mapping for audit events and API
// responses.
func (r ValidationResult) Details() map[string]any {
	details := map[string]any{}
	if len(r.PIITypes) > 0 {
		details["pii_types"] = r.PIITypes
	}
	if r.MatchedPattern != "" {
		details["matched_pattern"] = r.MatchedPattern
	}
	return details
}

// ModerationResult is the output guardrail verdict. When unsafe, Response
// holds a fixed substitute message — never the original text.
type ModerationResult struct {
	Safe     bool
	Response string
	Rule     string
	Details  map[string]any
}
