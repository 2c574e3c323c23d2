package calculator

import (
	"fmt"
	"time"

	"deskcalc/internal/engine"
)

// EventRequest is the JSON body for POST /calculator/sessions/{sessionID}/events.
// It describes exactly one event: a type plus the payload field that
// type takes ("digit" and "operator" carry one, the rest carry none).
type EventRequest struct {
	Type  string `json:"type"`            // digit, decimal, operator, equals, clear, backspace
	Digit *int   `json:"digit,omitempty"` // 0-9, required when type is "digit"
	Op    string `json:"op,omitempty"`    // add, subtract, multiply, divide, required when type is "operator"
}

// toEvent validates the request and builds the corresponding engine event.
func (req EventRequest) toEvent() (engine.Event, error) {
	switch req.Type {
	case "digit":
		if req.Digit == nil || *req.Digit < 0 || *req.Digit > 9 {
			return nil, fmt.Errorf("digit must be between 0 and 9")
		}
		return engine.Digit(*req.Digit), nil
	case "decimal":
		return engine.Decimal(), nil
	case "operator":
		op, ok := engine.ParseOp(req.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", req.Op)
		}
		return engine.Operator(op), nil
	case "equals":
		return engine.Equals(), nil
	case "clear":
		return engine.Clear(), nil
	case "backspace":
		return engine.Backspace(), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", req.Type)
	}
}

// KeysRequest is the JSON body for POST /calculator/sessions/{sessionID}/keys.
// Keys use the same names the keyboard produces ("7", ".", "+", "enter").
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// EvalRequest is the JSON body for POST /calculator/eval.
type EvalRequest struct {
	Keys []string `json:"keys"`
}

// SessionResponse is the JSON response for all session endpoints.
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	State     engine.State `json:"state"`
	Rendered  string       `json:"rendered"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// EvalResponse is the JSON response for POST /calculator/eval.
type EvalResponse struct {
	State    engine.State `json:"state"`
	Rendered string       `json:"rendered"`
}
