package ui

import (
	"fmt"

	summonerr "github.com/summon-dev/summon/internal/errors"
)

// Result is a value or a user-level validation failure.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail returns a failed Result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether r holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Get returns the value and error.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// Or returns the value, or def if r failed.
func (r Result[T]) Or(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}

// ValidateRange checks min <= v <= max. Failures carry code E040.
func ValidateRange(v, min, max float64) Result[float64] {
	if v != v || v < min || v > max {
		return Fail[float64](summonerr.New("E040").
			WithDetail(fmt.Sprintf("%g is outside [%g, %g]", v, min, max)))
	}
	return Ok(v)
}
