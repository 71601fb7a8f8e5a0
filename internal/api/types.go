package api

import (
	"github.com/Hammadullah2/StyleSync/internal/catalog"
)

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the POST /chat reply. Blocked requests still answer 200 —
// a guardrail rejection is a normal terminal outcome, not a server error.
type ChatResponse struct {
	RequestID string            `json:"request_id"`
	Response  string            `json:"response"`
	Blocked   bool              `json:"blocked"`
	Products  []catalog.Product `json:"products,omitempty"`
	Details   map[string]any    `json:"details,omitempty"`
}

// ErrorResp is the JSON error body.
type ErrorResp struct {
	Detail string `json:"detail"`
}
