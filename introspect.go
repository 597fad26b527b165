package argbind

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// TypeIntrospector resolves how a target type is constructed and populated:
// either through a canonical constructor whose parameters are matched by
// name, or through default construction plus per-key property writes. The
// binder never inspects descriptors beyond names, types, and writability.
type TypeIntrospector interface {
	Describe(t reflect.Type) (*ObjectDescriptor, error)
}

// Param describes one constructor parameter.
type Param struct {
	Name string
	Type reflect.Type
}

// ConstructorSignature is the canonical constructor of a type: its parameters
// in declaration order and the function that instantiates it.
type ConstructorSignature struct {
	Params []Param
	fn     reflect.Value
}

// New invokes the constructor with the given argument values in declaration
// order. Nil placeholders become the parameter's zero value. An error return
// from the registered function is reported as an instantiation failure.
func (c *ConstructorSignature) New(args []any) (any, error) {
	in := make([]reflect.Value, len(c.Params))
	for i, p := range c.Params {
		in[i] = valueForSlot(args[i], p.Type)
	}
	out := c.fn.Call(in)
	if len(out) == 2 {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// Property describes one settable member of a property-strategy target.
type Property struct {
	Name     string
	Type     reflect.Type
	Writable bool
	index    []int
}

// ObjectDescriptor describes how one concrete type binds: via its registered
// constructor, or via default construction and properties.
type ObjectDescriptor struct {
	Type  reflect.Type
	ctor  *ConstructorSignature
	props map[string]Property
}

// Constructor returns the canonical constructor, or nil when the type binds
// through default construction and properties.
func (d *ObjectDescriptor) Constructor() *ConstructorSignature { return d.ctor }

// Property resolves a property by input key.
func (d *ObjectDescriptor) Property(key string) (Property, bool) {
	p, ok := d.props[key]
	return p, ok
}

// NewInstance default-constructs an addressable value of the underlying
// struct type.
func (d *ObjectDescriptor) NewInstance() reflect.Value {
	base := d.Type
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	return reflect.New(base).Elem()
}

// SetProperty writes a bound value into the property of target. Writability
// is decided by the caller through Property.Writable; a type mismatch here is
// a write failure.
func (d *ObjectDescriptor) SetProperty(target reflect.Value, p Property, v any) error {
	fv := target.FieldByIndex(p.index)
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("argbind: value of type %T is not assignable to property %s (%s)", v, p.Name, fv.Type())
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Registry is the default TypeIntrospector: constructors registered as plain
// Go functions keyed by their result type, with exported struct fields as the
// property-strategy fallback. Descriptors are derived fresh per Describe call;
// no type metadata is cached.
type Registry struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]*ConstructorSignature
}

// NewRegistry returns an empty Registry. With no registered constructors every
// struct type binds through the property strategy.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[reflect.Type]*ConstructorSignature)}
}

// RegisterConstructor registers fn as the canonical constructor for its
// result type. fn must be a non-variadic func returning T or (T, error);
// names label its parameters in declaration order and are matched against
// input map keys.
func RegisterConstructor(r *Registry, fn any, names ...string) error {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if !fv.IsValid() || ft.Kind() != reflect.Func {
		return fmt.Errorf("argbind: constructor must be a func, got %T", fn)
	}
	if ft.IsVariadic() {
		return fmt.Errorf("argbind: variadic constructors are not supported")
	}
	if ft.NumOut() < 1 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errType) {
		return fmt.Errorf("argbind: constructor must return T or (T, error)")
	}
	if len(names) != ft.NumIn() {
		return fmt.Errorf("argbind: constructor takes %d parameters, %d names given", ft.NumIn(), len(names))
	}
	params := make([]Param, ft.NumIn())
	for i := range params {
		params[i] = Param{Name: names[i], Type: ft.In(i)}
	}
	r.mu.Lock()
	r.ctors[ft.Out(0)] = &ConstructorSignature{Params: params, fn: fv}
	r.mu.Unlock()
	return nil
}

// MustRegisterConstructor is RegisterConstructor panicking on error, for use
// in package init.
func MustRegisterConstructor(r *Registry, fn any, names ...string) {
	if err := RegisterConstructor(r, fn, names...); err != nil {
		panic(err)
	}
}

// Describe implements TypeIntrospector. Pointer targets resolve through their
// element type. A type with neither a registered constructor nor struct
// fields is unconstructible and yields an error.
func (r *Registry) Describe(t reflect.Type) (*ObjectDescriptor, error) {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	r.mu.RLock()
	ctor := r.ctors[t]
	if ctor == nil && base != t {
		ctor = r.ctors[base]
	}
	r.mu.RUnlock()

	d := &ObjectDescriptor{Type: t, ctor: ctor}
	if base.Kind() == reflect.Struct {
		d.props = structProperties(base)
	}
	if d.ctor == nil && d.props == nil {
		return nil, fmt.Errorf("argbind: no usable constructor for %s", t)
	}
	return d, nil
}

func structProperties(t reflect.Type) map[string]Property {
	props := make(map[string]Property, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := resolveFieldKey(sf)
		if key == "" || key == "-" {
			continue
		}
		props[key] = Property{Name: key, Type: sf.Type, Writable: sf.IsExported(), index: sf.Index}
	}
	return props
}

// resolveFieldKey applies the repository-wide rule to resolve a struct
// field's input key. Priority: argbind tag > json tag name > field name with
// its first rune lowered; "-" disables the field.
func resolveFieldKey(sf reflect.StructField) string {
	if at := sf.Tag.Get("argbind"); at != "" {
		if i := strings.IndexByte(at, ','); i >= 0 {
			return at[:i]
		}
		return at
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
		} else {
			return jt
		}
	}
	return lowerFirst(sf.Name)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// valueForSlot adapts a bound result (possibly nil) to a concrete slot type.
func valueForSlot(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return reflect.Zero(t)
}
