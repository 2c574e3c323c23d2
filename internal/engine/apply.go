package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDivideByZero is returned by Evaluate when the right operand of a
// division is zero. The engine recovers from it internally by entering the
// error display state; it never escapes Apply.
var ErrDivideByZero = errors.New("divide by zero")

// Apply processes one input event and returns the resulting state. It is a
// pure function of (s, ev); the receiver is never modified.
func (s State) Apply(ev Event) State {
	switch ev := ev.(type) {
	case DigitEvent:
		return s.inputDigit(ev.Digit)
	case DecimalEvent:
		return s.inputDecimal()
	case OperatorEvent:
		return s.performOperation(ev.Op)
	case EqualsEvent:
		return s.performOperation(opEquals)
	case ClearEvent:
		return New()
	case BackspaceEvent:
		return s.backspace()
	}
	return s
}

// inputDigit appends or starts a digit entry. Out-of-range digits leave the
// state unchanged; shells validate before the engine sees them.
func (s State) inputDigit(d int) State {
	if d < 0 || d > 9 {
		return s
	}
	digit := strconv.Itoa(d)
	if s.WaitingForOperand {
		s.Display = digit
		s.WaitingForOperand = false
		return s
	}
	if s.Display == "0" {
		s.Display = digit
	} else {
		s.Display += digit
	}
	return s
}

func (s State) inputDecimal() State {
	if s.WaitingForOperand {
		s.Display = "0."
		s.WaitingForOperand = false
		return s
	}
	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

// backspace drops the last character of the current entry, bottoming out at
// "0". It never touches the pending operand or operator. The error display
// has no outbound backspace transition: chopping the marker would leave text
// that is neither a literal nor the marker.
func (s State) backspace() State {
	if s.IsError() {
		return s
	}
	if len(s.Display) > 1 {
		s.Display = s.Display[:len(s.Display)-1]
	} else {
		s.Display = "0"
	}
	return s
}

// performOperation handles the four operators and equals (as opEquals).
//
// Three cases, keyed on the pending operand:
//   - no pending operand: capture the current entry as the left operand;
//   - pending operand and a fresh entry typed: evaluate eagerly;
//   - pending operand but no fresh entry: override the pending operator
//     (equals does nothing here; there is nothing to evaluate yet).
func (s State) performOperation(op Op) State {
	if s.IsError() {
		return s
	}

	input, err := strconv.ParseFloat(s.Display, 64)
	if err != nil {
		// Unreachable while the display invariant holds; refuse the
		// event rather than operate on garbage.
		return s
	}

	switch {
	case s.PreviousValue == nil:
		prev := input
		s.PreviousValue = &prev
		if op == opEquals {
			s.Operation = OpNone
		} else {
			s.Operation = op
		}
		s.WaitingForOperand = op != opEquals
		return s

	case !s.WaitingForOperand:
		result, err := Evaluate(*s.PreviousValue, input, s.Operation)
		if err != nil {
			return State{Display: ErrorDisplay, WaitingForOperand: true}
		}
		s.Display = displayString(result)
		if op == opEquals {
			s.PreviousValue = nil
			s.Operation = OpNone
			s.WaitingForOperand = false
		} else {
			prev := result
			s.PreviousValue = &prev
			s.Operation = op
			s.WaitingForOperand = true
		}
		return s

	default:
		if op != opEquals {
			s.Operation = op
		}
		return s
	}
}

// Evaluate applies op to the operand pair. An unset (or unknown) operator is
// the identity on b; that branch is reachable when equals committed a left
// operand without an operator and a binary operator follows.
func Evaluate(a, b float64, op Op) (float64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivideByZero, a, b)
		}
		return a / b, nil
	}
	return b, nil
}
