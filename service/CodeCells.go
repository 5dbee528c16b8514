package service

import "doodh-waitlist/util"

// CodeLength is the number of single-digit cells in the code-entry view
const CodeLength = 6

// CodeCells models the six code inputs and which one has focus
type CodeCells struct {
	cells [CodeLength]string
	focus int
}

// Input applies the raw value of one cell and returns the new focus.
// A single digit is stored and focus moves to the following cell; a six-digit paste fills every
// cell; an empty value clears the cell. Anything else is ignored.
func (c *CodeCells) Input(index int, value string) int {
	if index < 0 || index >= CodeLength {
		return c.focus
	}

	if value == "" {
		c.cells[index] = ""
		c.focus = index
		return c.focus
	}

	if len(value) > 1 {
		c.Paste(value)
		return c.focus
	}

	if value[0] < '0' || value[0] > '9' {
		return c.focus
	}

	c.cells[index] = value
	c.focus = c.nextFocus(index)
	return c.focus
}

// Paste distributes a whole code across the cells and focuses the last one.
// It reports false, leaving the cells untouched, unless exactly six digits are found.
func (c *CodeCells) Paste(code string) bool {
	digits := util.DigitsOnly(code)
	if len(digits) != CodeLength {
		return false
	}
	for i := range c.cells {
		c.cells[i] = string(digits[i])
	}
	c.focus = CodeLength - 1
	return true
}

// Backspace on an empty cell moves focus to the previous one
func (c *CodeCells) Backspace(index int) int {
	if index < 0 || index >= CodeLength {
		return c.focus
	}
	if c.cells[index] == "" && index > 0 {
		c.focus = index - 1
	} else {
		c.focus = index
	}
	return c.focus
}

func (c *CodeCells) Complete() bool {
	for _, d := range c.cells {
		if d == "" {
			return false
		}
	}
	return true
}

// Code joins the cells; it is only meaningful when Complete
func (c *CodeCells) Code() string {
	code := ""
	for _, d := range c.cells {
		code += d
	}
	return code
}

func (c *CodeCells) Reset() {
	c.cells = [CodeLength]string{}
	c.focus = 0
}

func (c *CodeCells) Focus() int { return c.focus }

func (c *CodeCells) Cells() []string {
	out := make([]string, CodeLength)
	copy(out, c.cells[:])
	return out
}

func (c *CodeCells) nextFocus(index int) int {
	if index < CodeLength-1 {
		return index + 1
	}
	return index
}
