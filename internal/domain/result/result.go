// Package result holds the success-or-failure outcome returned by services
// for expected failures.
package result

import (
	"errors"
	"fmt"
)

// Result is either a success carrying a value or a failure carrying an error.
// The zero Result is a failure with ErrEmpty so an uninitialised value never
// passes for a success.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// ErrEmpty is reported by a zero Result.
var ErrEmpty = errors.New("empty result")

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail builds a failure. A nil err is replaced with ErrEmpty so a failure
// always describes itself.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = ErrEmpty
	}
	return Result[T]{err: err}
}

func Failf[T any](format string, args ...any) Result[T] {
	return Fail[T](fmt.Errorf(format, args...))
}

// From lifts a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// HasValue reports whether r is a success.
func (r Result[T]) HasValue() bool { return r.ok }

// Value returns the success value and true, or the zero T and false.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Err returns the failure error, or nil for a success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrEmpty
	}
	return r.err
}

// Unwrap converts r back into Go's (value, error) form.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.Err()
}

// Message is the failure text, empty for a success.
func (r Result[T]) Message() string {
	if err := r.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Map transforms the value of a success and passes failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Fail[U](r.Err())
	}
	return Ok(fn(r.value))
}
