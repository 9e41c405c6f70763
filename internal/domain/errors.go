package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by NotFoundError: a required source or identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFormat is matched by FormatError: a source exists but cannot be parsed.
	ErrFormat = errors.New("malformed content")
	// ErrValidation is matched by ValidationError: parsed content breaks a data-model rule.
	ErrValidation = errors.New("validation failed")
	// ErrRange is matched by RangeError: a caller-supplied index, selector or count is out of bounds.
	ErrRange = errors.New("out of range")
	// ErrState is matched by StateError: a session operation was invoked in the wrong state.
	ErrState = errors.New("invalid session state")
)

// NotFoundError reports a missing source, file or identifier.
type NotFoundError struct {
	Source string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: not found: %v", e.Source, e.Err)
	}
	return e.Source + ": not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Unwrap() error        { return e.Err }

// FormatError reports content that could not be decoded into the expected structure.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
func (e *FormatError) Unwrap() error        { return e.Err }

// ValidationError reports a broken data-model invariant. Item narrows the
// location inside the source ("question 3", "topic 1") and may be empty.
type ValidationError struct {
	Source string
	Item   string
	Rule   string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validate")
	if e.Source != "" {
		b.WriteString(" " + e.Source)
	}
	b.WriteString(": ")
	if e.Item != "" {
		b.WriteString(e.Item + ": ")
	}
	b.WriteString(e.Rule)
	return b.String()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RangeError reports a caller-supplied value outside its valid bounds.
type RangeError struct {
	What string
	Got  string
	Want string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s out of range: want %s", e.What, e.Got, e.Want)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// IndexRangeError builds a RangeError for an integer outside [lo, hi).
func IndexRangeError(what string, got, lo, hi int) *RangeError {
	return &RangeError{
		What: what,
		Got:  fmt.Sprint(got),
		Want: fmt.Sprintf("[%d, %d)", lo, hi),
	}
}

// StateError reports a session operation issued in the wrong lifecycle state.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: not allowed while session is %s", e.Op, e.State)
}

func (e *StateError) Is(target error) bool { return target == ErrState }

// Locate fills in the source and item of a ValidationError produced by a
// constructor that has no knowledge of where its input came from. Other
// errors are returned unchanged.
func Locate(err error, source, item string) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		located := *verr
		if located.Source == "" {
			located.Source = source
		}
		if located.Item == "" {
			located.Item = item
		}
		return &located
	}
	return err
}
