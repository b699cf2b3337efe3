package tools

import (
	"errors"
	"fmt"
)

// Result is the outcome of a tool invocation: either Text or Err.
type Result struct {
	Text string
	Err  error
}

// Ok returns a successful result.
func Ok(text string) Result {
	return Result{Text: text}
}

// Fail returns a failed result carrying err.
func Fail(err error) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result{Err: err}
}

// Failf returns a failed result with a formatted message.
func Failf(format string, args ...any) Result {
	return Result{Err: fmt.Errorf(format, args...)}
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// String renders the result as the single string handed back to the host.
func (r Result) String() string {
	if r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	return r.Text
}
