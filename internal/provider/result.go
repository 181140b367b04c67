// Package provider wraps each external generative API behind an adapter
// that absorbs failures at its own boundary. Adapters never return errors
// to callers; a degraded provider yields the Unavailable variant and the
// caller renders it as an absent field.
package provider

// Result carries an adapter outcome: a value, or Unavailable when the
// provider is unreachable, unconfigured, or returned nothing usable.
type Result[T any] struct {
	value T
	ok    bool
}

// Ok wraps a successful provider value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v, ok: true} }

// Unavailable is the degraded variant.
func Unavailable[T any]() Result[T] { return Result[T]{} }

// Get returns the value and whether the provider produced one.
func (r Result[T]) Get() (T, bool) { return r.value, r.ok }

// Available reports whether the provider produced a value.
func (r Result[T]) Available() bool { return r.ok }
