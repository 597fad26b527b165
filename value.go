package argbind

import "sort"

// ValueKind discriminates the shape of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindScalar
	KindList
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the dynamically-typed argument tree produced by a query-style API:
// null, an opaque scalar, an ordered list, or a string-keyed map whose entry
// order is preserved. Values are immutable once built.
type Value struct {
	kind   ValueKind
	scalar any
	list   []Value
	keys   []string
	fields map[string]Value
}

// Null returns the null Value. The zero Value is null as well.
func Null() Value { return Value{} }

// Scalar wraps an opaque scalar value. Scalar(nil) is the null Value.
func Scalar(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindScalar, scalar: v}
}

// List builds an ordered list Value from the given elements.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// MapEntry is one key/value pair of a map Value.
type MapEntry struct {
	Key   string
	Value Value
}

// Entry pairs a key with a value for Map construction.
func Entry(key string, v Value) MapEntry { return MapEntry{Key: key, Value: v} }

// Map builds a string-keyed map Value preserving the given entry order.
// A later duplicate key overwrites the earlier value but keeps its position.
func Map(entries ...MapEntry) Value {
	keys := make([]string, 0, len(entries))
	fields := make(map[string]Value, len(entries))
	for _, e := range entries {
		if _, dup := fields[e.Key]; !dup {
			keys = append(keys, e.Key)
		}
		fields[e.Key] = e.Value
	}
	return Value{kind: KindMap, keys: keys, fields: fields}
}

// ValueOf converts a plain Go value (as decoded by encoding/json and friends)
// into a Value tree. Map keys are sorted so that trees built from Go maps are
// deterministic; use Map or a Source driver to control entry order.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = ValueOf(e)
		}
		return List(elems...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]MapEntry, len(keys))
		for i, k := range keys {
			entries[i] = Entry(k, ValueOf(t[k]))
		}
		return Map(entries...)
	default:
		return Scalar(v)
	}
}

// Kind reports the shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Scalar returns the opaque scalar payload, or nil for non-scalar values.
func (v Value) Scalar() any { return v.scalar }

// Len returns the element count of a list or the entry count of a map.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th element of a list value, or null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}
	}
	return v.list[i]
}

// Keys returns the map keys in entry order. The slice is a copy.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Member looks up a map entry by key. The second result reports whether the
// key was present, distinguishing an omitted entry from an explicit null.
func (v Value) Member(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	m, ok := v.fields[key]
	return m, ok
}

// Interface converts the value back into a plain Go tree: nil, the scalar
// payload, []any, or map[string]any. Map entry order is not representable in
// the result.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindScalar:
		return v.scalar
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	default:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].Interface()
		}
		return out
	}
}
