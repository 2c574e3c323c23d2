package engine

// Event is one discrete calculator input. The variants form a closed set:
// digits, the decimal point, the four binary operators, equals, clear and
// backspace. Keyboard and pointer shells translate their raw input into these
// and nothing else, so equivalent logical events always take the same
// transition.
type Event interface {
	isEvent()
}

// DigitEvent enters a single digit 0–9.
type DigitEvent struct {
	Digit int
}

// DecimalEvent enters the decimal point.
type DecimalEvent struct{}

// OperatorEvent chooses one of the four binary operators.
type OperatorEvent struct {
	Op Op
}

// EqualsEvent commits the pending operation, terminating the chain.
type EqualsEvent struct{}

// ClearEvent resets to the initial state.
type ClearEvent struct{}

// BackspaceEvent removes the last typed character of the current entry.
type BackspaceEvent struct{}

func (DigitEvent) isEvent()     {}
func (DecimalEvent) isEvent()   {}
func (OperatorEvent) isEvent()  {}
func (EqualsEvent) isEvent()    {}
func (ClearEvent) isEvent()     {}
func (BackspaceEvent) isEvent() {}

// Digit returns the event for entering d.
func Digit(d int) Event { return DigitEvent{Digit: d} }

// Decimal returns the decimal-point event.
func Decimal() Event { return DecimalEvent{} }

// Operator returns the event for choosing op.
func Operator(op Op) Event { return OperatorEvent{Op: op} }

// Equals returns the equals event.
func Equals() Event { return EqualsEvent{} }

// Clear returns the clear event.
func Clear() Event { return ClearEvent{} }

// Backspace returns the backspace event.
func Backspace() Event { return BackspaceEvent{} }

// EventName returns the canonical name of an event kind, as used in wire
// payloads and metric attributes.
func EventName(ev Event) string {
	switch ev.(type) {
	case DigitEvent:
		return "digit"
	case DecimalEvent:
		return "decimal"
	case OperatorEvent:
		return "operator"
	case EqualsEvent:
		return "equals"
	case ClearEvent:
		return "clear"
	case BackspaceEvent:
		return "backspace"
	}
	return "unknown"
}
