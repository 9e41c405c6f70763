package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// Choice is one of the four answer labels. Values are always canonical upper case.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the labels in presentation order.
var Choices = [4]Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// ParseChoice canonicalises raw input: surrounding space is trimmed, full-width
// forms are folded and the letter is upper-cased. Anything that is not a
// single A-D label is rejected.
func ParseChoice(raw string) (Choice, bool) {
	s := strings.ToUpper(width.Fold.String(strings.TrimSpace(raw)))
	c := Choice(s)
	if c.index() < 0 {
		return "", false
	}
	return c, true
}

// Valid reports whether c is one of the four labels.
func (c Choice) Valid() bool { return c.index() >= 0 }

func (c Choice) String() string { return string(c) }

func (c Choice) index() int {
	switch c {
	case ChoiceA:
		return 0
	case ChoiceB:
		return 1
	case ChoiceC:
		return 2
	case ChoiceD:
		return 3
	}
	return -1
}

// InvalidChoiceError is returned at the input boundary when raw is not a label.
func InvalidChoiceError(raw string) error {
	return &RangeError{What: "choice", Got: fmt.Sprintf("%q", raw), Want: "one of A, B, C, D"}
}
