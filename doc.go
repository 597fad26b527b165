package argbind

// Package argbind binds a dynamically-typed argument tree, as produced by a
// query-style API, onto statically-typed Go targets:
//
// - Recursive binding over nulls, scalars, ordered lists, and string-keyed maps
// - Two object strategies: registered constructors matched by parameter name,
//   or default construction with property writes over struct fields
// - A stable error model via FieldErrors (path, rejected value, code, message)
//   that accumulates every defect in one pass instead of stopping at the first
// - Optional[T] and ArgValue[T] wrapper targets; ArgValue distinguishes an
//   omitted argument from an explicit null
// - Pluggable input Sources (encoding/json, go-json, YAML) building
//   order-preserving Value trees
//
// Design policy:
// - Keep only public APIs in the root package; put the token SPI under internal/.
// - Place source drivers under source/; blank-import source to promote go-json
//   to the default JSON driver.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := argbind.NewRegistry()
//	argbind.MustRegisterConstructor(reg, NewPoint, "x", "y")
//	b := argbind.New(argbind.WithIntrospector(reg))
//
//	args, err := argbind.DecodeValue(argbind.JSONBytes(data))
//	p, err := argbind.Bind[Point](ctx, b, args, "point")
