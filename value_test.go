package goserde_test

import (
	"testing"

	"github.com/goserde/goserde"
)

func TestParseValue_PreservesOrderAndNumeralText(t *testing.T) {
	input := `{"b":1.50,"a":"x","c":[true,null]}`
	v, err := goserde.ParseValue([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := v.(*goserde.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", v)
	}
	keys := obj.Keys()
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Fatalf("entry order must be preserved: %v", keys)
	}
	b, _ := obj.Get("b")
	if p, ok := b.(goserde.Primitive); !ok || p.Content != "1.50" || p.IsString {
		t.Fatalf("numeral text must survive untouched: %#v", b)
	}

	out, err := goserde.WriteValue(v)
	if err != nil || string(out) != input {
		t.Fatalf("tree round trip must be exact: %s %v", out, err)
	}
}

func TestParseValue_LastWriteWinsKeepsPosition(t *testing.T) {
	v, err := goserde.ParseValue([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj := v.(*goserde.Object)
	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("repeated key must keep its original position: %v", keys)
	}
	a, _ := obj.Get("a")
	if p := a.(goserde.Primitive); p.Content != "3" {
		t.Fatalf("last write must win: %#v", a)
	}
}

func TestValuesEqual(t *testing.T) {
	if goserde.ValuesEqual(goserde.StringValue("5"), goserde.IntValue(5)) {
		t.Fatalf("string \"5\" must differ from number 5")
	}
	if !goserde.ValuesEqual(goserde.Null{}, goserde.Null{}) {
		t.Fatalf("nulls must compare equal")
	}
	a := goserde.NewObject().Set("x", goserde.IntValue(1)).Set("y", goserde.IntValue(2))
	b := goserde.NewObject().Set("y", goserde.IntValue(2)).Set("x", goserde.IntValue(1))
	if goserde.ValuesEqual(a, b) {
		t.Fatalf("entry order participates in tree equality")
	}
}

func TestValueSerializer_EmbeddedTree(t *testing.T) {
	// A dynamic sub-document inside a typed decode.
	sz := goserde.ValueSerializer()
	v, err := goserde.Parse(sz, []byte(`{"meta":{"x":[1,2]},"n":7}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := goserde.Write(sz, v)
	if err != nil || string(out) != `{"meta":{"x":[1,2]},"n":7}` {
		t.Fatalf("unexpected round trip: %s %v", out, err)
	}
}

func TestWriteValue_PrettyPrint(t *testing.T) {
	v := goserde.NewObject().
		Set("a", goserde.IntValue(1)).
		Set("b", goserde.Array{goserde.BoolValue(true)})
	cfg := goserde.DefaultConfig()
	cfg.PrettyPrint = true
	cfg.Indent = "  "
	out, err := goserde.WriteValue(v, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}"
	if string(out) != want {
		t.Fatalf("unexpected pretty output:\n%s", out)
	}
}

func TestParseValue_StringEscapes(t *testing.T) {
	v, err := goserde.ParseValue([]byte(`"aé\n\t😀"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := v.(goserde.Primitive)
	if p.Content != "aé\n\t😀" || !p.IsString {
		t.Fatalf("unexpected content: %q", p.Content)
	}
}
