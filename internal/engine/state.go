// Package engine implements the calculator input/evaluation state machine.
//
// The engine is a pure reducer: every input event maps the current State to a
// new State value. It performs no I/O and holds no globals; shells (HTTP
// handlers, the terminal UI) own a State and feed events into Apply.
package engine

import "strconv"

// Op identifies a binary arithmetic operation. The zero value means no
// operation is pending.
type Op string

const (
	OpNone     Op = ""
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
	OpDivide   Op = "divide"

	// opEquals is the internal operator for the equals key. It is never
	// stored in State.Operation; equals terminates a chain instead of
	// extending it.
	opEquals Op = "="
)

// ParseOp maps a wire-level operation name to an Op.
func ParseOp(name string) (Op, bool) {
	switch Op(name) {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return Op(name), true
	}
	return OpNone, false
}

// Symbol returns the display glyph for the operation, for preview lines.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	}
	return ""
}

// ErrorDisplay is the terminal display value shown after a failed
// evaluation. It is distinct from every numeric literal; only Clear or a
// fresh digit/decimal entry leaves it.
const ErrorDisplay = "Error"

// State is the complete calculator state. States are values: Apply returns a
// new State and never mutates the receiver, so old states stay valid (and
// comparable) after further input.
type State struct {
	// Display is the literal text being typed: a numeric literal in
	// progress, or ErrorDisplay.
	Display string `json:"display"`

	// PreviousValue is the operand captured before the pending operator.
	// nil means no operator has been committed in the current chain.
	PreviousValue *float64 `json:"previous_value,omitempty"`

	// Operation is the operator awaiting its right operand. It is set and
	// cleared in lockstep with PreviousValue.
	Operation Op `json:"operation,omitempty"`

	// WaitingForOperand marks that the next digit starts a fresh entry
	// instead of appending to Display.
	WaitingForOperand bool `json:"waiting_for_operand"`
}

// New returns the initial state: display "0", no pending operand or
// operator. Clear resets to exactly this value from anywhere.
func New() State {
	return State{Display: "0"}
}

// IsError reports whether the state shows the terminal error display.
func (s State) IsError() bool {
	return s.Display == ErrorDisplay
}

// displayString renders an evaluation result as the raw display literal.
// Plain decimal notation keeps the digit-append and single-decimal-point
// rules closed over the representation; scientific presentation for extreme
// magnitudes is the display formatter's concern, not the engine's.
func displayString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
