package engine

import (
	"errors"
	"testing"
)

// run applies events to a fresh state and returns the result.
func run(evs ...Event) State {
	s := New()
	for _, ev := range evs {
		s = s.Apply(ev)
	}
	return s
}

func checkState(t *testing.T, got State, display string, prev *float64, op Op, waiting bool) {
	t.Helper()
	if got.Display != display {
		t.Fatalf("display = %q, want %q", got.Display, display)
	}
	switch {
	case prev == nil && got.PreviousValue != nil:
		t.Fatalf("previous value = %g, want none", *got.PreviousValue)
	case prev != nil && got.PreviousValue == nil:
		t.Fatalf("previous value = none, want %g", *prev)
	case prev != nil && *got.PreviousValue != *prev:
		t.Fatalf("previous value = %g, want %g", *got.PreviousValue, *prev)
	}
	if got.Operation != op {
		t.Fatalf("operation = %q, want %q", got.Operation, op)
	}
	if got.WaitingForOperand != waiting {
		t.Fatalf("waiting for operand = %t, want %t", got.WaitingForOperand, waiting)
	}
}

func prev(v float64) *float64 { return &v }

func TestNewIsInitialState(t *testing.T) {
	checkState(t, New(), "0", nil, OpNone, false)
}

func TestDigitEntry(t *testing.T) {
	tests := []struct {
		name string
		evs  []Event
		want string
	}{
		{name: "single digit", evs: []Event{Digit(7)}, want: "7"},
		{name: "appends digits", evs: []Event{Digit(1), Digit(2), Digit(3)}, want: "123"},
		{name: "leading zero suppressed", evs: []Event{Digit(0), Digit(0), Digit(5)}, want: "5"},
		{name: "zero alone stays zero", evs: []Event{Digit(0), Digit(0)}, want: "0"},
		{name: "zero then decimal keeps zero", evs: []Event{Digit(0), Decimal(), Digit(5)}, want: "0.5"},
		{name: "digit out of range ignored", evs: []Event{Digit(12), Digit(-1), Digit(3)}, want: "3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.evs...); got.Display != tc.want {
				t.Fatalf("display = %q, want %q", got.Display, tc.want)
			}
		})
	}
}

func TestDigitAfterOperatorStartsFreshEntry(t *testing.T) {
	got := run(Digit(5), Operator(OpAdd), Digit(3))
	checkState(t, got, "3", prev(5), OpAdd, false)
}

func TestDecimalEntry(t *testing.T) {
	tests := []struct {
		name string
		evs  []Event
		want string
	}{
		{name: "decimal on zero", evs: []Event{Decimal()}, want: "0."},
		{name: "decimal is idempotent per literal", evs: []Event{Decimal(), Decimal()}, want: "0."},
		{name: "second decimal ignored", evs: []Event{Digit(1), Decimal(), Digit(5), Decimal()}, want: "1.5"},
		{name: "decimal while waiting starts fresh", evs: []Event{Digit(5), Operator(OpAdd), Decimal()}, want: "0."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.evs...); got.Display != tc.want {
				t.Fatalf("display = %q, want %q", got.Display, tc.want)
			}
		})
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		name string
		evs  []Event
		want string
	}{
		{name: "drops last character", evs: []Event{Digit(1), Digit(2), Digit(3), Backspace()}, want: "12"},
		{name: "drops trailing decimal point", evs: []Event{Digit(1), Decimal(), Backspace()}, want: "1"},
		{name: "single character becomes zero", evs: []Event{Digit(5), Backspace()}, want: "0"},
		{name: "never empties the display", evs: []Event{Digit(5), Backspace(), Backspace(), Backspace()}, want: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.evs...); got.Display != tc.want {
				t.Fatalf("display = %q, want %q", got.Display, tc.want)
			}
		})
	}
}

func TestBackspaceKeepsPendingOperation(t *testing.T) {
	got := run(Digit(5), Operator(OpAdd), Digit(3), Digit(4), Backspace())
	checkState(t, got, "3", prev(5), OpAdd, false)
}

func TestClearResetsFromAnyState(t *testing.T) {
	states := map[string]State{
		"initial":          New(),
		"mid entry":        run(Digit(1), Digit(2), Decimal(), Digit(5)),
		"pending operator": run(Digit(5), Operator(OpMultiply)),
		"after equals":     run(Digit(5), Operator(OpAdd), Digit(3), Equals()),
		"error":            run(Digit(1), Operator(OpDivide), Digit(0), Equals()),
	}

	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			got := s.Apply(Clear())
			if got != New() {
				t.Fatalf("clear from %s = %+v, want initial state", name, got)
			}
		})
	}
}

func TestOperatorCapturesFirstOperand(t *testing.T) {
	got := run(Digit(5), Operator(OpAdd))
	checkState(t, got, "5", prev(5), OpAdd, true)
}

func TestEqualsWithoutOperatorCommitsOperandOnly(t *testing.T) {
	// Equals with nothing pending re-commits the entry as the previous
	// value without a visible change and without a pending operator.
	got := run(Digit(5), Equals())
	checkState(t, got, "5", prev(5), OpNone, false)
}

func TestChainedEvaluationIsEager(t *testing.T) {
	// 5 + 3 × 2 = evaluates left to right: 8 appears when × is pressed,
	// 16 when = is pressed.
	s := run(Digit(5), Operator(OpAdd), Digit(3), Operator(OpMultiply))
	checkState(t, s, "8", prev(8), OpMultiply, true)

	s = s.Apply(Digit(2)).Apply(Equals())
	checkState(t, s, "16", nil, OpNone, false)
}

func TestEqualsEvaluatesPendingOperation(t *testing.T) {
	tests := []struct {
		name string
		evs  []Event
		want string
	}{
		{name: "addition", evs: []Event{Digit(5), Operator(OpAdd), Digit(3), Equals()}, want: "8"},
		{name: "subtraction below zero", evs: []Event{Digit(3), Operator(OpSubtract), Digit(5), Equals()}, want: "-2"},
		{name: "division", evs: []Event{Digit(7), Operator(OpDivide), Digit(2), Equals()}, want: "3.5"},
		{name: "decimal operands", evs: []Event{Digit(1), Decimal(), Digit(5), Operator(OpAdd), Digit(2), Decimal(), Digit(5), Equals()}, want: "4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(tc.evs...)
			checkState(t, got, tc.want, nil, OpNone, false)
		})
	}
}

func TestResultStaysRawBinaryFloat(t *testing.T) {
	// The engine stores the exact result; rounding for presentation is the
	// display formatter's job.
	got := run(Digit(0), Decimal(), Digit(1), Operator(OpAdd), Digit(0), Decimal(), Digit(2), Equals())
	if got.Display != "0.30000000000000004" {
		t.Fatalf("display = %q, want %q", got.Display, "0.30000000000000004")
	}
}

func TestOperatorOverride(t *testing.T) {
	// A second operator before any digit replaces the pending one without
	// evaluating.
	got := run(Digit(5), Operator(OpAdd), Operator(OpMultiply))
	checkState(t, got, "5", prev(5), OpMultiply, true)
}

func TestEqualsWhileWaitingIsNoOp(t *testing.T) {
	before := run(Digit(5), Operator(OpAdd))
	after := before.Apply(Equals())
	checkState(t, after, "5", prev(5), OpAdd, true)
}

func TestOperatorAfterBareEqualsUsesIdentity(t *testing.T) {
	// 5 = + : equals committed 5 without an operator, so the following +
	// evaluates the identity on the current entry and then goes pending.
	got := run(Digit(5), Equals(), Operator(OpAdd))
	checkState(t, got, "5", prev(5), OpAdd, true)
}

func TestDigitAfterEqualsAppendsToResult(t *testing.T) {
	got := run(Digit(5), Operator(OpAdd), Digit(3), Equals(), Digit(7))
	checkState(t, got, "87", nil, OpNone, false)
}

func TestDivideByZeroEntersErrorState(t *testing.T) {
	tests := []struct {
		name string
		evs  []Event
	}{
		{name: "triggered by equals", evs: []Event{Digit(1), Digit(0), Operator(OpDivide), Digit(0), Equals()}},
		{name: "triggered by next operator", evs: []Event{Digit(1), Digit(0), Operator(OpDivide), Digit(0), Operator(OpDivide)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(tc.evs...)
			checkState(t, got, ErrorDisplay, nil, OpNone, true)
		})
	}
}

func TestZeroOverZeroEntersErrorState(t *testing.T) {
	got := run(Digit(0), Operator(OpDivide), Digit(0), Equals())
	checkState(t, got, ErrorDisplay, nil, OpNone, true)
}

func TestErrorStateIsTerminalForOperators(t *testing.T) {
	errState := run(Digit(1), Operator(OpDivide), Digit(0), Equals())

	for _, tc := range []struct {
		name string
		ev   Event
	}{
		{name: "operator", ev: Operator(OpAdd)},
		{name: "equals", ev: Equals()},
		{name: "backspace", ev: Backspace()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := errState.Apply(tc.ev)
			checkState(t, got, ErrorDisplay, nil, OpNone, true)
		})
	}
}

func TestDigitEntryLeavesErrorState(t *testing.T) {
	errState := run(Digit(1), Operator(OpDivide), Digit(0), Equals())

	got := errState.Apply(Digit(4))
	checkState(t, got, "4", nil, OpNone, false)

	got = errState.Apply(Decimal())
	checkState(t, got, "0.", nil, OpNone, false)
}

func TestErrorStateIsRecoverableIntoNewChain(t *testing.T) {
	got := run(
		Digit(1), Operator(OpDivide), Digit(0), Equals(), // Error
		Digit(6), Operator(OpMultiply), Digit(7), Equals(),
	)
	checkState(t, got, "42", nil, OpNone, false)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b float64
		want float64
	}{
		{name: "add", op: OpAdd, a: 2, b: 3, want: 5},
		{name: "subtract", op: OpSubtract, a: 2, b: 3, want: -1},
		{name: "multiply", op: OpMultiply, a: 2, b: 3, want: 6},
		{name: "divide", op: OpDivide, a: 3, b: 2, want: 1.5},
		{name: "none is identity", op: OpNone, a: 2, b: 3, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.a, tc.b, tc.op)
			if err != nil {
				t.Fatalf("Evaluate(%g, %g, %q): %v", tc.a, tc.b, tc.op, err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate(%g, %g, %q) = %g, want %g", tc.a, tc.b, tc.op, got, tc.want)
			}
		})
	}
}

func TestEvaluateDivideByZero(t *testing.T) {
	_, err := Evaluate(10, 0, OpDivide)
	if !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("error = %v, want ErrDivideByZero", err)
	}
	if got := err.Error(); got != "divide by zero: 10 / 0" {
		t.Fatalf("error = %q, want %q", got, "divide by zero: 10 / 0")
	}
}

func TestParseOp(t *testing.T) {
	for _, name := range []string{"add", "subtract", "multiply", "divide"} {
		op, ok := ParseOp(name)
		if !ok || string(op) != name {
			t.Fatalf("ParseOp(%q) = (%q, %t), want (%q, true)", name, op, ok, name)
		}
	}

	for _, name := range []string{"", "=", "modulo", "ADD"} {
		if _, ok := ParseOp(name); ok {
			t.Fatalf("ParseOp(%q) accepted, want rejection", name)
		}
	}
}
