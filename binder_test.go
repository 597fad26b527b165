package argbind_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	argbind "github.com/motoki-dev/argbind"
)

type point struct {
	X, Y int
}

func newPoint(x, y int) point { return point{X: x, Y: y} }

func pointBinder(t *testing.T) *argbind.Binder {
	t.Helper()
	reg := argbind.NewRegistry()
	argbind.MustRegisterConstructor(reg, newPoint, "x", "y")
	return argbind.New(argbind.WithIntrospector(reg))
}

// TestBind_ConstructorStrategy_AccumulatesConversionError covers the
// two-argument constructor path: one bad argument yields exactly one error at
// its own path while the sibling still binds.
func TestBind_ConstructorStrategy_AccumulatesConversionError(t *testing.T) {
	ctx := context.Background()
	b := pointBinder(t)

	args := argbind.Map(
		argbind.Entry("x", argbind.Scalar(3)),
		argbind.Entry("y", argbind.Scalar("bad")),
	)
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(point{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected FieldErrors, got: %v", err)
	}
	if len(fe) != 1 {
		t.Fatalf("expected exactly one error, got: %v", fe)
	}
	if fe[0].Path != "$.y" {
		t.Fatalf("expected path $.y, got %q", fe[0].Path)
	}
	if fe[0].Code != argbind.CodeTypeMismatch {
		t.Fatalf("expected code %q, got %q", argbind.CodeTypeMismatch, fe[0].Code)
	}
	if fe[0].RejectedValue != "bad" {
		t.Fatalf("expected rejected value %q, got %v", "bad", fe[0].RejectedValue)
	}
}

func TestBind_ConstructorStrategy_Success(t *testing.T) {
	ctx := context.Background()
	b := pointBinder(t)

	args := argbind.Map(
		argbind.Entry("y", argbind.Scalar(4)),
		argbind.Entry("x", argbind.Scalar(3)),
	)
	p, err := argbind.Bind[point](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (point{X: 3, Y: 4}) {
		t.Fatalf("unexpected result: %+v", p)
	}
}

// TestBind_ConstructorStrategy_DeclarationOrder checks that parameters bind in
// declaration order regardless of input key order, observed through the order
// of accumulated errors.
func TestBind_ConstructorStrategy_DeclarationOrder(t *testing.T) {
	ctx := context.Background()
	type triple struct{ A, B, C int }
	reg := argbind.NewRegistry()
	argbind.MustRegisterConstructor(reg, func(a, b, c int) triple {
		return triple{A: a, B: b, C: c}
	}, "a", "b", "c")
	b := argbind.New(argbind.WithIntrospector(reg))

	args := argbind.Map(
		argbind.Entry("c", argbind.Scalar("z")),
		argbind.Entry("b", argbind.Scalar("y")),
		argbind.Entry("a", argbind.Scalar("x")),
	)
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(triple{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 3 {
		t.Fatalf("expected three errors, got: %v", err)
	}
	for i, want := range []string{"$.a", "$.b", "$.c"} {
		if fe[i].Path != want {
			t.Fatalf("error %d: expected path %s, got %s", i, want, fe[i].Path)
		}
	}
}

// TestBind_ConstructorStrategy_OmittedParameterBindsZero: a missing entry
// binds as omitted and the parameter receives its zero value.
func TestBind_ConstructorStrategy_OmittedParameterBindsZero(t *testing.T) {
	ctx := context.Background()
	b := pointBinder(t)

	args := argbind.Map(argbind.Entry("x", argbind.Scalar(7)))
	p, err := argbind.Bind[point](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (point{X: 7}) {
		t.Fatalf("unexpected result: %+v", p)
	}
}

type profile struct {
	Name string
	note string // unexported: visible as a key, never writable
}

func TestBind_PropertyStrategy_IgnoresUnknownKeys(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.Map(
		argbind.Entry("name", argbind.Scalar("x")),
		argbind.Entry("extra", argbind.Scalar(1)),
	)
	p, err := argbind.Bind[profile](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "x" {
		t.Fatalf("expected name %q, got %q", "x", p.Name)
	}
}

func TestBind_PropertyStrategy_UnwritablePropertyIgnored(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.Map(argbind.Entry("note", argbind.Scalar("secret")))
	p, err := argbind.Bind[profile](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.note != "" {
		t.Fatalf("unexported field must stay zero, got %q", p.note)
	}
}

func TestBind_PropertyStrategy_NestedErrorPath(t *testing.T) {
	ctx := context.Background()
	type item struct {
		Name string
		Qty  int
	}
	type order struct {
		Items []item
	}
	b := argbind.New()

	args := argbind.Map(argbind.Entry("items", argbind.List(
		argbind.Map(argbind.Entry("name", argbind.Scalar("a")), argbind.Entry("qty", argbind.Scalar(1))),
		argbind.Map(argbind.Entry("name", argbind.Scalar("b")), argbind.Entry("qty", argbind.Scalar(2))),
		argbind.Map(argbind.Entry("name", argbind.Scalar("c")), argbind.Entry("qty", argbind.Scalar("bad"))),
	)))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(order{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 1 {
		t.Fatalf("expected exactly one error, got: %v", err)
	}
	if fe[0].Path != "$.items[2].qty" {
		t.Fatalf("expected path $.items[2].qty, got %q", fe[0].Path)
	}
}

func TestBind_List_PreservesLengthAndOrder(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.List(argbind.Scalar("a"), argbind.Scalar("b"), argbind.Scalar("c"))
	got, err := argbind.Bind[[]string](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestBind_List_DuplicatesKept(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.List(argbind.Scalar("a"), argbind.Scalar("a"))
	got, err := argbind.Bind[[]string](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected duplicates preserved, got %v", got)
	}
}

func TestBind_ListTarget_UnknownElementType(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.List(argbind.Scalar(1))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(0))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 1 {
		t.Fatalf("expected one error, got: %v", err)
	}
	if fe[0].Code != argbind.CodeUnknownType {
		t.Fatalf("expected code %q, got %q", argbind.CodeUnknownType, fe[0].Code)
	}
	if fe[0].Path != "$" {
		t.Fatalf("expected path $, got %q", fe[0].Path)
	}
}

func TestBind_MapToMap_SameKeySetAndPaths(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.Map(
		argbind.Entry("a", argbind.Scalar(1)),
		argbind.Entry("b", argbind.Scalar(2)),
	)
	got, err := argbind.Bind[map[string]int](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]int{"a": 1, "b": 2}) {
		t.Fatalf("unexpected result: %v", got)
	}

	args = argbind.Map(
		argbind.Entry("a", argbind.Scalar(1)),
		argbind.Entry("b", argbind.Scalar("bad")),
	)
	_, err = b.Bind(ctx, args, "", reflect.TypeOf(map[string]int{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 1 {
		t.Fatalf("expected one error, got: %v", err)
	}
	if fe[0].Path != "$[b]" {
		t.Fatalf("expected path $[b], got %q", fe[0].Path)
	}
}

func TestBind_NullAndAnyTargetPassThrough(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	v, err := b.Bind(ctx, argbind.Null(), "", reflect.TypeOf(point{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("null must bind to nil, got %v", v)
	}

	raw := argbind.Map(argbind.Entry("k", argbind.Scalar(1)))
	got, err := argbind.Bind[any](ctx, b, raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"k": 1}) {
		t.Fatalf("unexpected passthrough value: %v", got)
	}
}

type widget struct{ N int }

func TestBind_ConstructorFailure_PropagatesWithCleanReport(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	reg := argbind.NewRegistry()
	argbind.MustRegisterConstructor(reg, func(n int) (widget, error) {
		return widget{}, boom
	}, "n")
	b := argbind.New(argbind.WithIntrospector(reg))

	args := argbind.Map(argbind.Entry("n", argbind.Scalar(1)))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(widget{}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected constructor error to propagate, got: %v", err)
	}
}

// A constructor failure with prior field errors is suppressed: the recorded
// errors already explain the state. This mirrors the documented policy even
// though it can hide an unrelated instantiation defect.
func TestBind_ConstructorFailure_SwallowedAfterFieldErrors(t *testing.T) {
	ctx := context.Background()
	reg := argbind.NewRegistry()
	argbind.MustRegisterConstructor(reg, func(n int) (widget, error) {
		return widget{}, errors.New("boom")
	}, "n")
	b := argbind.New(argbind.WithIntrospector(reg))

	args := argbind.Map(argbind.Entry("n", argbind.Scalar("bad")))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(widget{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 1 {
		t.Fatalf("expected only the conversion error, got: %v", err)
	}
	if fe[0].Path != "$.n" || fe[0].Code != argbind.CodeTypeMismatch {
		t.Fatalf("unexpected error entry: %+v", fe[0])
	}
}

func TestBind_UnconstructibleTarget_Fatal(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.Map(argbind.Entry("k", argbind.Scalar(1)))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(0))
	if err == nil {
		t.Fatalf("expected a fatal error for an unconstructible target")
	}
	if _, ok := argbind.AsFieldErrors(err); ok {
		t.Fatalf("collaborator defect must not surface as FieldErrors: %v", err)
	}
}

func TestBind_NamedArgumentLookup(t *testing.T) {
	ctx := context.Background()
	b := pointBinder(t)

	args := argbind.Map(argbind.Entry("p", argbind.Map(
		argbind.Entry("x", argbind.Scalar(1)),
		argbind.Entry("y", argbind.Scalar(2)),
	)))
	p, err := argbind.Bind[point](ctx, b, args, "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (point{X: 1, Y: 2}) {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func TestBind_PointerTarget(t *testing.T) {
	ctx := context.Background()
	b := argbind.New()

	args := argbind.Map(argbind.Entry("name", argbind.Scalar("x")))
	p, err := argbind.Bind[*profile](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.Name != "x" {
		t.Fatalf("unexpected result: %+v", p)
	}
}

// stringingConverter returns a string no matter the target, forcing a
// property write failure.
type stringingConverter struct{}

func (stringingConverter) Convert(v any, _ reflect.Type) (any, error) { return "oops", nil }

func TestBind_PropertyWriteFailureRecorded(t *testing.T) {
	ctx := context.Background()
	type counted struct{ Qty int }
	b := argbind.New(argbind.WithConverter(stringingConverter{}))

	args := argbind.Map(argbind.Entry("qty", argbind.Scalar(1.5)))
	_, err := b.Bind(ctx, args, "", reflect.TypeOf(counted{}))
	fe, ok := argbind.AsFieldErrors(err)
	if !ok || len(fe) != 1 {
		t.Fatalf("expected one error, got: %v", err)
	}
	if fe[0].Code != argbind.CodeInvalidPropertyValue {
		t.Fatalf("expected code %q, got %q", argbind.CodeInvalidPropertyValue, fe[0].Code)
	}
	if fe[0].RejectedValue != "oops" {
		t.Fatalf("expected the rejected bound value attached, got %v", fe[0].RejectedValue)
	}
}
