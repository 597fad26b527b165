package gojson_test

import (
	"reflect"
	"testing"

	argbind "github.com/motoki-dev/argbind"
	"github.com/motoki-dev/argbind/source/gojson"
)

func TestDriver_MatchesDefaultDriver(t *testing.T) {
	doc := []byte(`{"b":1,"a":{"y":null,"x":[true,"s",2.5]}}`)

	want, err := argbind.DecodeValue(argbind.JSONBytes(doc))
	if err != nil {
		t.Fatalf("unexpected error from default driver: %v", err)
	}
	got, err := argbind.DecodeValue(gojson.Driver().NewBytes(doc))
	if err != nil {
		t.Fatalf("unexpected error from go-json driver: %v", err)
	}
	if !reflect.DeepEqual(got.Interface(), want.Interface()) {
		t.Fatalf("driver trees diverge:\n got %#v\nwant %#v", got.Interface(), want.Interface())
	}
	if !reflect.DeepEqual(got.Keys(), want.Keys()) {
		t.Fatalf("key order diverges: %v vs %v", got.Keys(), want.Keys())
	}
}

func TestDriver_Name(t *testing.T) {
	if gojson.Driver().Name() != "go-json" {
		t.Fatalf("unexpected driver name %q", gojson.Driver().Name())
	}
}
