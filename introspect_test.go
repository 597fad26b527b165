package argbind_test

import (
	"context"
	"testing"

	argbind "github.com/motoki-dev/argbind"
)

func TestRegisterConstructor_Validation(t *testing.T) {
	reg := argbind.NewRegistry()

	if err := argbind.RegisterConstructor(reg, 42, "n"); err == nil {
		t.Fatalf("non-func must be rejected")
	}
	if err := argbind.RegisterConstructor(reg, func(xs ...int) point { return point{} }, "xs"); err == nil {
		t.Fatalf("variadic constructors must be rejected")
	}
	if err := argbind.RegisterConstructor(reg, func() (point, int) { return point{}, 0 }); err == nil {
		t.Fatalf("second result must be error")
	}
	if err := argbind.RegisterConstructor(reg, newPoint, "x"); err == nil {
		t.Fatalf("name count must match parameter count")
	}
	if err := argbind.RegisterConstructor(reg, newPoint, "x", "y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPropertyStrategy_TagResolution(t *testing.T) {
	ctx := context.Background()
	type tagged struct {
		A string `argbind:"alpha"`
		B string `json:"beta,omitempty"`
		C string `json:"-"`
		D string
	}
	b := argbind.New()

	args := argbind.Map(
		argbind.Entry("alpha", argbind.Scalar("1")),
		argbind.Entry("beta", argbind.Scalar("2")),
		argbind.Entry("c", argbind.Scalar("3")),
		argbind.Entry("d", argbind.Scalar("4")),
	)
	got, err := argbind.Bind[tagged](ctx, b, args, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.A != "1" || got.B != "2" || got.D != "4" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.C != "" {
		t.Fatalf("json:\"-\" must disable the field, got %q", got.C)
	}
}

func TestPropertyStrategy_ZeroParamConstructorSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	type settings struct {
		Level string
		Limit int
	}
	reg := argbind.NewRegistry()
	argbind.MustRegisterConstructor(reg, func() settings {
		return settings{Level: "info", Limit: 10}
	})
	b := argbind.New(argbind.WithIntrospector(reg))

	got, err := argbind.Bind[settings](ctx, b, argbind.Map(argbind.Entry("limit", argbind.Scalar(99))), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Level != "info" || got.Limit != 99 {
		t.Fatalf("defaults must seed the instance before property writes: %+v", got)
	}
}
