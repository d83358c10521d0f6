package compose

import (
	"errors"
	"fmt"
	"runtime/debug"

	summonerr "github.com/summon-dev/summon/internal/errors"
)

// Sentinel errors. Typed errors returned by this package match them with
// errors.Is.
var (
	// ErrStructural is matched by every *StructuralError.
	ErrStructural = errors.New("compose: structural error")

	// ErrNoComposer is returned when a composition-only API runs outside a pass.
	ErrNoComposer = errors.New("compose: no active composer")

	// ErrMissingProvider is returned when a required local has no provider.
	ErrMissingProvider = errors.New("compose: missing provider")

	// ErrEffectFailed is matched by every *EffectError.
	ErrEffectFailed = errors.New("compose: effect failed")

	// ErrDisposed is returned by a Recomposer after Dispose.
	ErrDisposed = errors.New("compose: recomposer disposed")
)

// StructuralError reports a bracket or slot-kind violation. It is raised as
// a panic at the offending call and returned by the pass that contained it.
type StructuralError struct {
	Op        string
	Depth     int
	SlotIndex int
	Detail    string

	err *summonerr.SummonError
}

func newStructuralError(code, op string, depth, slot int, format string, args ...any) *StructuralError {
	detail := fmt.Sprintf(format, args...)
	return &StructuralError{
		Op:        op,
		Depth:     depth,
		SlotIndex: slot,
		Detail:    detail,
		err:       summonerr.New(code),
	}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s (op=%s depth=%d slot=%d): %s", e.err.Error(), e.Op, e.Depth, e.SlotIndex, e.Detail)
}

// Code returns the registered error code.
func (e *StructuralError) Code() string { return e.err.Code }

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

func (e *StructuralError) Unwrap() error { return e.err }

// ProviderError is raised by Local.Current and returned by Local.Lookup.
type ProviderError struct {
	Local string

	sentinel error
	err      *summonerr.SummonError
}

func noComposer(op string) *ProviderError {
	return &ProviderError{
		Local:    op,
		sentinel: ErrNoComposer,
		err:      summonerr.New("E010"),
	}
}

func missingProvider(name string) *ProviderError {
	return &ProviderError{
		Local:    name,
		sentinel: ErrMissingProvider,
		err: summonerr.New("E011").
			WithSuggestion(fmt.Sprintf("Wrap the content in %s.Provide(c, value, ...).", name)),
	}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.err.Error(), e.Local)
}

func (e *ProviderError) Is(target error) bool { return target == e.sentinel }

func (e *ProviderError) Unwrap() error { return e.err }

// EffectError reports a panic in an effect setup, cleanup or launched body.
type EffectError struct {
	Phase  string
	SiteID uint64
	Value  any

	err *summonerr.SummonError
}

func newEffectError(code, phase string, site uint64, value any) *EffectError {
	return &EffectError{
		Phase:  phase,
		SiteID: site,
		Value:  value,
		err:    summonerr.New(code),
	}
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("%s (site %d, %s): %v", e.err.Error(), e.SiteID, e.Phase, e.Value)
}

func (e *EffectError) Is(target error) bool { return target == ErrEffectFailed }

func (e *EffectError) Unwrap() error { return e.err }

// PanicError carries a non-error panic value raised by composable code.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", summonerr.New("E030").Error(), e.Value)
}

// recovered converts a recovered panic value into an error. Errors raised on
// purpose (structural, provider) are returned unchanged.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}
