package main

import "strings"

// A keypad cell. label is what the cell shows; input is the key name
// fed through keymap.Translate when the cell is activated.
type padKey struct {
	label string
	input string
}

var keypadRows = [][]padKey{
	{{"C", "c"}, {"⌫", "backspace"}, {"÷", "÷"}, {"×", "×"}},
	{{"7", "7"}, {"8", "8"}, {"9", "9"}, {"−", "-"}},
	{{"4", "4"}, {"5", "5"}, {"6", "6"}, {"+", "+"}},
	{{"1", "1"}, {"2", "2"}, {"3", "3"}, {"=", "="}},
	{{"0", "0"}, {".", "."}},
}

// Keypad geometry. View and keyAt must agree on these, so keep them
// in one place. keypadTop counts the lines View emits above the pad.
const (
	keyWidth   = 5
	keyGap     = 1
	keypadLeft = 2
	keypadTop  = 5
)

// keypadWidth is the rendered width of a full four-key row.
const keypadWidth = 4*keyWidth + 3*keyGap

// keyAt maps terminal cell coordinates to the keypad cell under them.
// Gaps between cells and the margins around the pad are misses.
func keyAt(x, y int) (padKey, bool) {
	row := y - keypadTop
	if row < 0 || row >= len(keypadRows) {
		return padKey{}, false
	}

	x -= keypadLeft
	if x < 0 {
		return padKey{}, false
	}

	col := x / (keyWidth + keyGap)
	if x%(keyWidth+keyGap) >= keyWidth {
		return padKey{}, false
	}
	if col >= len(keypadRows[row]) {
		return padKey{}, false
	}

	return keypadRows[row][col], true
}

// cellFor finds the keypad cell a key name lights up. Aliases such as
// "enter" and "*" land on the cell that produces the same event.
func cellFor(name string) (padKey, bool) {
	switch name {
	case "enter":
		name = "="
	case "*", "x":
		name = "×"
	case "/":
		name = "÷"
	case "C", "esc", "escape":
		name = "c"
	}

	for _, row := range keypadRows {
		for _, k := range row {
			if k.input == name {
				return k, true
			}
		}
	}

	return padKey{}, false
}

func renderKeypad(pressed string) string {
	margin := strings.Repeat(" ", keypadLeft)
	gap := strings.Repeat(" ", keyGap)

	rows := make([]string, 0, len(keypadRows))
	for _, row := range keypadRows {
		cells := make([]string, 0, len(row))
		for _, k := range row {
			style := keyStyle
			if k.input == pressed {
				style = keyPressedStyle
			}
			cells = append(cells, style.Render(k.label))
		}
		rows = append(rows, margin+strings.Join(cells, gap))
	}

	return strings.Join(rows, "\n")
}
