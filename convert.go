package argbind

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Converter coerces a raw scalar into the target concrete type. Conversion
// failures must be reported as *ConversionError so the binder can record the
// code alongside the rejected value.
type Converter interface {
	Convert(v any, target reflect.Type) (any, error)
}

// ConversionError is the typed mismatch signal produced when a scalar cannot
// be coerced.
type ConversionError struct {
	Code  string
	Value any
	Type  reflect.Type
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("argbind: cannot convert value of type %T to %s", e.Value, e.Type)
}

type convFunc func(v any) (any, error)

// defaultConverter memoizes one conversion function per target type in an
// unsynchronized map, so it is NOT safe for concurrent use. Callers sharing a
// Binder across goroutines must supply their own thread-safe Converter via
// WithConverter, or give each goroutine its own Binder.
type defaultConverter struct {
	funcs map[reflect.Type]convFunc
}

// NewDefaultConverter returns the converter a Binder falls back to when built
// without WithConverter. See defaultConverter for the concurrency caveat.
func NewDefaultConverter() Converter {
	return &defaultConverter{funcs: make(map[reflect.Type]convFunc)}
}

func (c *defaultConverter) Convert(v any, target reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if rt := reflect.TypeOf(v); rt.AssignableTo(target) {
		return v, nil
	}
	fn := c.funcs[target]
	if fn == nil {
		fn = conversionFor(target)
		c.funcs[target] = fn
	}
	return fn(v)
}

func conversionFor(target reflect.Type) convFunc {
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v any) (any, error) {
			n, ok := toInt64(v)
			if !ok {
				return nil, mismatch(v, target)
			}
			rv := reflect.New(target).Elem()
			if rv.OverflowInt(n) {
				return nil, mismatch(v, target)
			}
			rv.SetInt(n)
			return rv.Interface(), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(v any) (any, error) {
			n, ok := toInt64(v)
			if !ok || n < 0 {
				return nil, mismatch(v, target)
			}
			rv := reflect.New(target).Elem()
			if rv.OverflowUint(uint64(n)) {
				return nil, mismatch(v, target)
			}
			rv.SetUint(uint64(n))
			return rv.Interface(), nil
		}
	case reflect.Float32, reflect.Float64:
		return func(v any) (any, error) {
			f, ok := toFloat64(v)
			if !ok {
				return nil, mismatch(v, target)
			}
			rv := reflect.New(target).Elem()
			if rv.OverflowFloat(f) {
				return nil, mismatch(v, target)
			}
			rv.SetFloat(f)
			return rv.Interface(), nil
		}
	case reflect.Bool:
		return func(v any) (any, error) {
			switch t := v.(type) {
			case bool:
				return t, nil
			case string:
				b, err := strconv.ParseBool(t)
				if err != nil {
					return nil, mismatch(v, target)
				}
				return b, nil
			default:
				return nil, mismatch(v, target)
			}
		}
	case reflect.String:
		return func(v any) (any, error) {
			s, ok := toString(v)
			if !ok {
				return nil, mismatch(v, target)
			}
			if target == reflect.TypeOf("") {
				return s, nil
			}
			return reflect.ValueOf(s).Convert(target).Interface(), nil
		}
	default:
		return func(v any) (any, error) {
			rv := reflect.ValueOf(v)
			if rv.IsValid() && rv.Type().ConvertibleTo(target) {
				return rv.Convert(target).Interface(), nil
			}
			return nil, mismatch(v, target)
		}
	}
}

func mismatch(v any, target reflect.Type) error {
	return &ConversionError{Code: CodeTypeMismatch, Value: v, Type: target}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return n, true
		}
		return floatToInt64(parseFloat(t.String()))
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		return floatToInt64(parseFloat(t))
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case rv.CanFloat():
		return floatToInt64(rv.Float(), true)
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// floatToInt64 accepts only integral floats; 3.0 converts, 3.5 does not.
func floatToInt64(f float64, ok bool) (int64, bool) {
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		return parseFloat(t.String())
	case string:
		return parseFloat(t)
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		return rv.String(), true
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), true
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), true
	case rv.CanFloat():
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}
