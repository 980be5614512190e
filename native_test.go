package goserde_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goserde/goserde"
)

func TestDecodeFromNative_Class(t *testing.T) {
	root := map[string]any{
		"name":  "ada",
		"age":   json.Number("36"),
		"email": nil,
		"tags":  []any{"x", "y"},
	}
	out, err := goserde.DecodeFromNative(newUserSz(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := user{Name: "ada", Age: 36, Email: nil, Tags: []string{"x", "y"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestDecodeFromNative_GoScalars(t *testing.T) {
	root := map[string]any{"name": "ada", "age": 36, "email": "a@b.c"}
	out, err := goserde.DecodeFromNative(newUserSz(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Age != 36 || out.Email == nil || *out.Email != "a@b.c" {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestDecodeFromNative_SafeIntegerBound(t *testing.T) {
	if _, err := goserde.DecodeFromNative(goserde.Int64Serializer(), json.Number("9007199254740992")); err == nil {
		t.Fatalf("expected precision_loss")
	}
	if _, err := goserde.DecodeFromNative(goserde.Int64Serializer(), float64(10.5)); err == nil {
		t.Fatalf("expected precision_loss for fractional double")
	}
	v, err := goserde.DecodeFromNative(goserde.Int64Serializer(), float64(100))
	if err != nil || v != 100 {
		t.Fatalf("unexpected: %v %v", v, err)
	}
}

func TestDecodeFromNative_MapKeyReparse(t *testing.T) {
	sz := goserde.MapSerializer(goserde.Int64Serializer(), goserde.Int64Serializer())
	out, err := goserde.DecodeFromNative(sz, map[string]any{"1": json.Number("2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, map[int64]int64{1: 2}) {
		t.Fatalf("unexpected value: %v", out)
	}
	iss := mustIssues(t, func() error {
		_, err := goserde.DecodeFromNative(sz, map[string]any{"x": json.Number("2")})
		return err
	}(), goserde.CodeTypeMismatch)
	if iss[0].Offset != -1 {
		t.Fatalf("native issues carry no byte offset, got %d", iss[0].Offset)
	}
}

func TestDecodeFromNative_ValueTreeInput(t *testing.T) {
	tree, err := goserde.ParseValue([]byte(`{"name":"ada","email":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := goserde.DecodeFromNative(newUserSz(), tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "ada" || out.Email != nil {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestDecodeFromNative_UnknownKeys(t *testing.T) {
	root := map[string]any{"name": "ada", "email": nil, "hobby": "chess"}
	if _, err := goserde.DecodeFromNative(newUserSz(), root); err != nil {
		t.Fatalf("unknown keys are skipped by default: %v", err)
	}
	cfg := goserde.DefaultConfig()
	cfg.IgnoreUnknownKeys = false
	iss := mustIssues(t, func() error {
		_, err := goserde.DecodeFromNative(newUserSz(), root, cfg)
		return err
	}(), goserde.CodeUnknownKey)
	if iss[0].Path != "/hobby" {
		t.Fatalf("want path /hobby, got %q", iss[0].Path)
	}
}

func TestDecodeFromNative_ExplicitNullsSynthesis(t *testing.T) {
	cfg := goserde.DefaultConfig()
	cfg.ExplicitNulls = false
	out, err := goserde.DecodeFromNative(newUserSz(), map[string]any{"name": "ada"}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Email != nil {
		t.Fatalf("missing nullable element must synthesize null")
	}
}

func TestDecodeFromNative_Coercion(t *testing.T) {
	cfg := goserde.DefaultConfig()
	cfg.CoerceInputValues = true
	out, err := goserde.DecodeFromNative(newPaletteSz(), map[string]any{"primary": "MAGENTA"}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Primary != red {
		t.Fatalf("unexpected value: %+v", out)
	}
	if _, err := goserde.DecodeFromNative(newPaletteSz(), map[string]any{"primary": "MAGENTA"}); err == nil {
		t.Fatalf("expected unknown_enum_value without coercion")
	}
}

func TestDecodeFromNative_Polymorphism(t *testing.T) {
	sz := newShapeSz()
	out, err := goserde.DecodeFromNative(sz, map[string]any{"type": "circle", "r": 2.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != (circle{R: 2.5}) {
		t.Fatalf("unexpected value: %+v", out)
	}

	cfg := goserde.DefaultConfig()
	cfg.UseArrayPolymorphism = true
	out, err = goserde.DecodeFromNative(sz, []any{"rect", map[string]any{"w": 1, "h": 2}}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != (rect{W: 1, H: 2}) {
		t.Fatalf("unexpected value: %+v", out)
	}

	mustIssues(t, func() error {
		_, err := goserde.DecodeFromNative(sz, map[string]any{"r": 2.5})
		return err
	}(), goserde.CodeMissingValue)
}

func TestDecodeFromNative_ShapeMismatch(t *testing.T) {
	iss := mustIssues(t, func() error {
		_, err := goserde.DecodeFromNative(newUserSz(), map[string]any{
			"name": "ada", "email": nil, "tags": "not-a-list",
		})
		return err
	}(), goserde.CodeUnexpectedStructure)
	if iss[0].Path != "/tags" {
		t.Fatalf("want path /tags, got %q", iss[0].Path)
	}
}

func TestDecodeFromNative_ScalarRoot(t *testing.T) {
	v, err := goserde.DecodeFromNative(goserde.StringSerializer(), "plain")
	if err != nil || v != "plain" {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	b, err := goserde.DecodeFromNative(goserde.BoolSerializer(), true)
	if err != nil || !b {
		t.Fatalf("unexpected: %v %v", b, err)
	}
}
