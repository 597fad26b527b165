package argbind

import "reflect"

type wrapperKind int

const (
	wrapperOptional wrapperKind = iota
	wrapperPresence
)

// valueWrapper is implemented by Optional[T] and ArgValue[T] so the binder
// can detect wrapper targets reflectively, resolve the inner type, and
// rebuild the wrapper around the bound result. Wrappers may not be nested;
// binding a wrapper directly inside another wrapper is unsupported.
type valueWrapper interface {
	wrapperKind() wrapperKind
	wrapperElem() reflect.Type
	wrapBound(v any, provided bool) any
}

var wrapperIface = reflect.TypeOf((*valueWrapper)(nil)).Elem()

// wrapperFor returns the wrapper view of t when t is a wrapper target type.
func wrapperFor(t reflect.Type) (valueWrapper, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(wrapperIface) {
		return nil, false
	}
	w, ok := reflect.Zero(t).Interface().(valueWrapper)
	return w, ok
}

// coerceAs converts a bound result to T, falling back to a reflect conversion
// for values that are convertible but not assignable.
func coerceAs[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	rt := reflect.TypeOf((*T)(nil)).Elem()
	rv := reflect.ValueOf(v)
	if rv.Type().ConvertibleTo(rt) {
		if cv, ok := rv.Convert(rt).Interface().(T); ok {
			return cv, true
		}
	}
	return zero, false
}

// Optional is a nullable binding target: it holds a present value or nothing.
// Unlike ArgValue it never distinguishes an omitted argument from an explicit
// null; both bind to the empty Optional.
type Optional[T any] struct {
	value   T
	present bool
}

// OptionalOf returns an Optional holding v.
func OptionalOf[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// EmptyOptional returns the absent Optional.
func EmptyOptional[T any]() Optional[T] { return Optional[T]{} }

// Get returns the held value and whether one is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool { return o.present }

// OrElse returns the held value or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

func (Optional[T]) wrapperKind() wrapperKind { return wrapperOptional }

func (Optional[T]) wrapperElem() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (Optional[T]) wrapBound(v any, _ bool) any {
	tv, ok := coerceAs[T](v)
	if !ok {
		return Optional[T]{}
	}
	return Optional[T]{value: tv, present: true}
}

// ArgValue is a presence-aware binding target distinguishing three states:
// the argument was omitted, provided as an explicit null, or provided with a
// value.
type ArgValue[T any] struct {
	value    T
	provided bool
	hasValue bool
}

// OmittedArgValue returns the sentinel for an argument that was not provided.
func OmittedArgValue[T any]() ArgValue[T] { return ArgValue[T]{} }

// NullArgValue returns an ArgValue for an explicitly null argument.
func NullArgValue[T any]() ArgValue[T] { return ArgValue[T]{provided: true} }

// ArgValueOf returns an ArgValue holding v.
func ArgValueOf[T any](v T) ArgValue[T] {
	return ArgValue[T]{value: v, provided: true, hasValue: true}
}

// IsOmitted reports whether the argument was absent from the input.
func (a ArgValue[T]) IsOmitted() bool { return !a.provided }

// IsPresent reports whether a non-null value is held.
func (a ArgValue[T]) IsPresent() bool { return a.hasValue }

// Value returns the held value and whether a non-null value is present.
func (a ArgValue[T]) Value() (T, bool) { return a.value, a.hasValue }

func (ArgValue[T]) wrapperKind() wrapperKind { return wrapperPresence }

func (ArgValue[T]) wrapperElem() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (ArgValue[T]) wrapBound(v any, provided bool) any {
	if !provided {
		return ArgValue[T]{}
	}
	tv, ok := coerceAs[T](v)
	if !ok {
		return ArgValue[T]{provided: true}
	}
	return ArgValue[T]{value: tv, provided: true, hasValue: true}
}
