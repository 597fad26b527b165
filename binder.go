package argbind

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Binder binds argument Value trees onto statically-typed Go targets,
// recursively, accumulating every recoverable defect instead of stopping at
// the first. A Binder holds no per-call state and may be shared across
// goroutines only when built with a thread-safe Converter; the default
// converter is not (see NewDefaultConverter).
type Binder struct {
	converter    Converter
	introspector TypeIntrospector
}

// Option configures a Binder.
type Option func(*Binder)

// WithConverter supplies the scalar conversion capability.
func WithConverter(c Converter) Option {
	return func(b *Binder) { b.converter = c }
}

// WithIntrospector supplies the type introspection capability, typically a
// Registry with constructors registered.
func WithIntrospector(ti TypeIntrospector) Option {
	return func(b *Binder) { b.introspector = ti }
}

// New builds a Binder. Without options it uses an empty Registry (property
// strategy only) and the default converter.
func New(opts ...Option) *Binder {
	b := &Binder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.converter == nil {
		b.converter = NewDefaultConverter()
	}
	if b.introspector == nil {
		b.introspector = NewRegistry()
	}
	return b
}

// Bind binds the member of source named name, or the whole source map when
// name is empty, onto a value of the target type. A missing member binds as
// omitted, which only presence-aware targets (ArgValue) can observe.
//
// Recoverable mismatches never abort the pass: they are recorded and binding
// continues with placeholders so one call surfaces every independent defect.
// When any were recorded the returned error is the ordered FieldErrors
// aggregate. Errors from the collaborators themselves (an unconstructible
// type, a failing constructor with a clean report) propagate unmodified.
func (b *Binder) Bind(ctx context.Context, source Value, name string, target reflect.Type) (any, error) {
	raw := source
	provided := true
	if name != "" {
		raw, provided = source.Member(name)
	}
	return b.BindValue(ctx, raw, provided, target)
}

// BindValue binds a single raw value onto the target type. provided reports
// whether the value was present in the input at all, as opposed to an
// explicit null.
func (b *Binder) BindValue(ctx context.Context, raw Value, provided bool, target reflect.Type) (any, error) {
	report := newBindingReport()
	v, err := b.bindRawValue(ctx, "$", raw, provided, target, report)
	if err != nil {
		return nil, err
	}
	if report.hasErrors() {
		return nil, report.errs
	}
	return v, nil
}

// Bind binds through b and asserts the result to T. A nil result yields the
// zero value of T.
func Bind[T any](ctx context.Context, b *Binder, source Value, name string) (T, error) {
	var zero T
	v, err := b.Bind(ctx, source, name, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	tv, ok := coerceAs[T](v)
	if !ok {
		return zero, fmt.Errorf("argbind: bound value of type %T does not satisfy %T", v, zero)
	}
	return tv, nil
}

// bindRawValue dispatches on the shapes of the raw value and the target type.
// The returned error is reserved for fatal collaborator defects; everything
// recoverable lands in the report. name carries the path segment for this
// value and may be indexed ("items[2]").
func (b *Binder) bindRawValue(ctx context.Context, name string, raw Value, provided bool, target reflect.Type, report *bindingReport) (any, error) {
	// Wrapper targets unwrap exactly one generic level; the wrapper is
	// rebuilt around the bound inner result.
	if w, ok := wrapperFor(target); ok {
		inner, err := b.bindRawValue(ctx, name, raw, provided, w.wrapperElem(), report)
		if err != nil {
			return nil, err
		}
		return w.wrapBound(inner, provided), nil
	}

	if raw.IsNull() || target == anyType {
		return raw.Interface(), nil
	}

	switch raw.Kind() {
	case KindList:
		return b.bindList(ctx, name, raw, target, report)
	case KindMap:
		return b.bindMap(ctx, name, raw, target, report)
	default:
		sv := raw.Scalar()
		if rt := reflect.TypeOf(sv); rt != nil && rt.AssignableTo(target) {
			return sv, nil
		}
		return b.convertScalar(name, sv, target, report), nil
	}
}

// bindList binds list elements in source order into a slice of the target's
// element type, extending the path with a 0-based index per element.
func (b *Binder) bindList(ctx context.Context, name string, raw Value, target reflect.Type, report *bindingReport) (any, error) {
	if target.Kind() != reflect.Slice {
		// Keep going, report as many errors as we can.
		report.rejectValue(nil, CodeUnknownType, "Unknown collection element type")
		return []any{}, nil
	}
	elemType := target.Elem()
	out := reflect.MakeSlice(target, 0, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		indexed := fmt.Sprintf("%s[%d]", name, i)
		v, err := b.bindRawValue(ctx, indexed, raw.Index(i), true, elemType, report)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, valueForSlot(v, elemType))
	}
	return out.Interface(), nil
}

// bindMap routes map-shaped input: generic string-keyed map targets bind
// entry-wise, anything else binds as an object.
func (b *Binder) bindMap(ctx context.Context, name string, raw Value, target reflect.Type, report *bindingReport) (any, error) {
	if target.Kind() == reflect.Map {
		return b.bindMapToMap(ctx, name, raw, target, report)
	}
	return b.bindObject(ctx, name, raw, target, report)
}

func (b *Binder) bindMapToMap(ctx context.Context, name string, raw Value, target reflect.Type, report *bindingReport) (any, error) {
	if target.Key().Kind() != reflect.String {
		// Keep going, report as many errors as we can.
		report.rejectValue(nil, CodeUnknownType, "Unknown map value type")
		return map[string]any{}, nil
	}
	valType := target.Elem()
	out := reflect.MakeMapWithSize(target, raw.Len())
	for _, key := range raw.Keys() {
		entry, _ := raw.Member(key)
		indexed := name + "[" + key + "]"
		v, err := b.bindRawValue(ctx, indexed, entry, true, valType, report)
		if err != nil {
			return nil, err
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(target.Key()), valueForSlot(v, valType))
	}
	return out.Interface(), nil
}

// bindObject binds a map-shaped input onto a structured target through one of
// the two construction strategies. name is pushed onto the path for the
// duration of the call and popped on every exit.
func (b *Binder) bindObject(ctx context.Context, name string, raw Value, target reflect.Type, report *bindingReport) (any, error) {
	report.pushNestedPath(name)
	defer report.popNestedPath()

	desc, err := b.introspector.Describe(target)
	if err != nil {
		if report.hasErrors() {
			// The recorded errors explain the state; don't mask them.
			return nil, nil
		}
		return nil, err
	}

	var obj any
	if ctor := desc.Constructor(); ctor != nil && len(ctor.Params) > 0 {
		obj, err = b.bindViaConstructor(ctx, raw, ctor, report)
	} else {
		obj, err = b.bindViaProperties(ctx, raw, desc, target, report)
	}
	if err != nil || obj == nil {
		return nil, err
	}
	if target.Kind() == reflect.Pointer && reflect.TypeOf(obj) == target.Elem() {
		pv := reflect.New(target.Elem())
		pv.Elem().Set(reflect.ValueOf(obj))
		obj = pv.Interface()
	}
	return obj, nil
}

// bindViaConstructor binds one argument per constructor parameter, in
// declaration order, matching source entries by parameter name.
func (b *Binder) bindViaConstructor(ctx context.Context, raw Value, ctor *ConstructorSignature, report *bindingReport) (any, error) {
	args := make([]any, len(ctor.Params))
	for i, p := range ctor.Params {
		entry, ok := raw.Member(p.Name)
		v, err := b.bindRawValue(ctx, p.Name, entry, ok, p.Type, report)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	obj, err := ctor.New(args)
	if err != nil {
		if report.hasErrors() {
			// Ignore: we had binding errors to begin with.
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// bindViaProperties default-constructs the target and binds source entries to
// matching properties. Unknown keys and unwritable properties are silently
// ignored; other write failures are recorded.
func (b *Binder) bindViaProperties(ctx context.Context, raw Value, desc *ObjectDescriptor, target reflect.Type, report *bindingReport) (any, error) {
	inst := desc.NewInstance()
	if ctor := desc.Constructor(); ctor != nil {
		v, err := ctor.New(nil)
		if err != nil {
			if report.hasErrors() {
				return nil, nil
			}
			return nil, err
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		}
		if rv.IsValid() && rv.Type() == inst.Type() {
			inst.Set(rv)
		}
	}

	for _, key := range raw.Keys() {
		prop, ok := desc.Property(key)
		if !ok {
			continue // unknown input keys are not an error
		}
		entry, _ := raw.Member(key)
		v, err := b.bindRawValue(ctx, key, entry, true, prop.Type, report)
		if err != nil {
			return nil, err
		}
		if v == nil || !prop.Writable {
			continue
		}
		if err := desc.SetProperty(inst, prop, v); err != nil {
			report.rejectValue(v, CodeInvalidPropertyValue, "Failed to set property value")
		}
	}

	if target.Kind() == reflect.Pointer {
		ptr := reflect.New(inst.Type())
		ptr.Elem().Set(inst)
		return ptr.Interface(), nil
	}
	return inst.Interface(), nil
}

// convertScalar coerces a raw scalar through the configured Converter. A
// failure is recorded at the argument's own path and yields nil so that
// sibling bindings proceed.
func (b *Binder) convertScalar(name string, v any, target reflect.Type, report *bindingReport) any {
	out, err := b.converter.Convert(v, target)
	if err != nil {
		code := CodeTypeMismatch
		var ce *ConversionError
		if errors.As(err, &ce) && ce.Code != "" {
			code = ce.Code
		}
		report.pushNestedPath(name)
		report.rejectValue(v, code, "Failed to convert argument value")
		report.popNestedPath()
		return nil
	}
	return out
}
