package graph

import (
	"errors"
	"fmt"

	"github.com/vk/passgraph/internal/address"
)

var (
	ErrDuplicateName        = errors.New("duplicate pass name")
	ErrNotFound             = errors.New("not found")
	ErrMalformedAddress     = address.ErrMalformed
	ErrSameFields           = errors.New("edge connects a pass to itself")
	ErrFieldAlreadyBound    = errors.New("destination field already bound")
	ErrTypeMismatch         = errors.New("resource type mismatch")
	ErrInvalidReflection    = errors.New("invalid pass reflection")
	ErrCycleDetected        = errors.New("cycle detected")
	ErrUnsatisfiedInput     = errors.New("unsatisfied input")
	ErrEmptyOutputSet       = errors.New("graph has no outputs")
	ErrCompile              = errors.New("render graph compilation failed")
	ErrAllocationFailure    = errors.New("resource allocation failed")
	ErrPassExecutionFailure = errors.New("pass execution failed")
)

// GraphError carries one of the sentinel kinds above, a message naming the
// passes and fields involved, and optionally the underlying cause.
type GraphError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GraphError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind, cause error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// CompileError is returned by Compile and Execute when the graph could not
// be compiled. Log holds one line per problem.
type CompileError struct {
	Log   string
	Cause error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:\n%s", ErrCompile, e.Log)
}

func (e *CompileError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCompile}
	}
	return []error{ErrCompile, e.Cause}
}
