package argbind_test

import (
	"reflect"
	"testing"

	argbind "github.com/motoki-dev/argbind"
)

func TestValue_ZeroValueIsNull(t *testing.T) {
	var v argbind.Value
	if !v.IsNull() || v.Kind() != argbind.KindNull {
		t.Fatalf("zero Value must be null, got kind %v", v.Kind())
	}
	if argbind.Scalar(nil).Kind() != argbind.KindNull {
		t.Fatalf("Scalar(nil) must be null")
	}
}

func TestValue_MapPreservesEntryOrder(t *testing.T) {
	m := argbind.Map(
		argbind.Entry("z", argbind.Scalar(1)),
		argbind.Entry("a", argbind.Scalar(2)),
		argbind.Entry("z", argbind.Scalar(3)), // duplicate keeps first position
	)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
	if v, ok := m.Member("z"); !ok || v.Scalar() != 3 {
		t.Fatalf("duplicate key must keep the last value, got %v", v.Scalar())
	}
}

func TestValue_MemberDistinguishesOmission(t *testing.T) {
	m := argbind.Map(argbind.Entry("present", argbind.Null()))
	if _, ok := m.Member("present"); !ok {
		t.Fatalf("explicit null entry must report present")
	}
	if _, ok := m.Member("absent"); ok {
		t.Fatalf("missing entry must report absent")
	}
	if _, ok := argbind.Scalar(1).Member("x"); ok {
		t.Fatalf("non-map values have no members")
	}
}

func TestValueOf_RoundTrip(t *testing.T) {
	in := map[string]any{
		"s":    "a",
		"n":    3,
		"list": []any{1, nil, "x"},
		"m":    map[string]any{"k": true},
	}
	v := argbind.ValueOf(in)
	if v.Kind() != argbind.KindMap {
		t.Fatalf("expected map, got %v", v.Kind())
	}
	if !reflect.DeepEqual(v.Interface(), in) {
		t.Fatalf("round trip mismatch: %v", v.Interface())
	}
	// Keys are sorted for determinism when built from a Go map.
	if got := v.Keys(); !reflect.DeepEqual(got, []string{"list", "m", "n", "s"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
}

func TestValue_ListAccessors(t *testing.T) {
	l := argbind.List(argbind.Scalar("a"), argbind.Scalar("b"))
	if l.Len() != 2 {
		t.Fatalf("unexpected length: %d", l.Len())
	}
	if l.Index(1).Scalar() != "b" {
		t.Fatalf("unexpected element: %v", l.Index(1).Scalar())
	}
	if !l.Index(5).IsNull() {
		t.Fatalf("out-of-range index must be null")
	}
}
