// Package keymap translates key names into calculator events. Keyboard
// and pointer input share one event set, so equivalent keys must produce
// identical transitions.
package keymap

import "deskcalc/internal/engine"

// Translate maps a key name to its calculator event. Key names follow
// the usual terminal convention: single printable characters plus
// "enter", "esc" and "backspace". Unmapped keys return false.
func Translate(key string) (engine.Event, bool) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return engine.Digit(int(key[0] - '0')), true
	}

	switch key {
	case ".":
		return engine.Decimal(), true
	case "+":
		return engine.Operator(engine.OpAdd), true
	case "-":
		return engine.Operator(engine.OpSubtract), true
	case "*", "x", "×":
		return engine.Operator(engine.OpMultiply), true
	case "/", "÷":
		return engine.Operator(engine.OpDivide), true
	case "=", "enter":
		return engine.Equals(), true
	case "c", "C", "esc", "escape":
		return engine.Clear(), true
	case "backspace":
		return engine.Backspace(), true
	}

	return nil, false
}
