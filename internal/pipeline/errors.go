package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies fatal run errors. Each kind has its own exit code.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindResourceUnavailable
	KindDataCorruption
	KindImageLoad
	KindImageWrite
)

var kindNames = map[Kind]string{
	KindConfig:              "config",
	KindResourceUnavailable: "resource_unavailable",
	KindDataCorruption:      "data_corruption",
	KindImageLoad:           "image_load",
	KindImageWrite:          "image_write",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ExitCode maps the kind to the process exit status.
func (k Kind) ExitCode() int {
	switch k {
	case KindResourceUnavailable:
		return 2
	case KindDataCorruption:
		return 3
	case KindImageLoad:
		return 4
	case KindImageWrite:
		return 5
	default:
		return 1
	}
}

// Error is a fatal pipeline error tagged with its kind and failing step.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ExitCode returns the exit status for err: 0 for nil, the kind's code for
// pipeline errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind.ExitCode()
	}
	return 1
}
