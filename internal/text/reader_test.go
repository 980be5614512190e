package text

import (
	"io"
	"testing"

	"github.com/goserde/goserde/internal/engine"
)

func readAll(t *testing.T, input string, opts Options) ([]engine.Token, error) {
	t.Helper()
	r := NewReader([]byte(input), opts)
	var out []engine.Token
	for {
		tok, err := r.NextToken()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

func kindsOf(toks []engine.Token) []engine.Kind {
	out := make([]engine.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestReader_TokenStream(t *testing.T) {
	toks, err := readAll(t, `{"a":1,"b":[true,null]}`, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []engine.Kind{
		engine.KindBeginObject,
		engine.KindKey, engine.KindNumber,
		engine.KindKey, engine.KindBeginArray,
		engine.KindBool, engine.KindNull,
		engine.KindEndArray, engine.KindEndObject,
	}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want %v, got %v", i, want[i], got[i])
		}
	}
	if toks[1].String != "a" || toks[3].String != "b" {
		t.Fatalf("key text: %+v %+v", toks[1], toks[3])
	}
}

func TestReader_GrammarErrors(t *testing.T) {
	cases := []string{
		`{"a" 1}`,        // missing colon
		`{"a":1 "b":2}`,  // missing comma
		`[1 2]`,          // missing comma
		`{"a":}`,         // missing value
		`{1:2}`,          // non-string key in strict mode
		`[1,2`,           // unterminated array
		`{"a":1,}`,       // trailing comma without the option
		`[1,]`,           // trailing comma without the option
		`1 1`,            // trailing content
		``,               // no value at all
		`}`,              // close without open
	}
	for _, input := range cases {
		if _, err := readAll(t, input, Options{}); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestReader_TrailingCommaOption(t *testing.T) {
	opts := Options{AllowTrailingComma: true}
	if _, err := readAll(t, `[1,]`, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := readAll(t, `{"a":1,}`, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A lone comma is not a trailing comma.
	if _, err := readAll(t, `[,]`, opts); err == nil {
		t.Fatalf("expected error for bare comma")
	}
}

func TestReader_LenientKeys(t *testing.T) {
	toks, err := readAll(t, `{a: 1, 2: 3, true: 4}`, Options{Lenient: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := []string{}
	for _, tk := range toks {
		if tk.Kind == engine.KindKey {
			keys = append(keys, tk.String)
		}
	}
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "2" || keys[2] != "true" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestReader_EOFAfterRootOnly(t *testing.T) {
	r := NewReader([]byte(`42`), Options{})
	tok, err := r.NextToken()
	if err != nil || tok.Kind != engine.KindNumber || tok.Number != "42" {
		t.Fatalf("unexpected: %+v %v", tok, err)
	}
	if _, err := r.NextToken(); err != io.EOF {
		t.Fatalf("want io.EOF after root, got %v", err)
	}
}

func TestWriter_Basics(t *testing.T) {
	w := NewWriter(false, "")
	w.BeginObject()
	w.Key("s")
	w.String("a\"b\n")
	w.Key("arr")
	w.BeginArray()
	w.Number("1")
	w.Bool(false)
	w.Null()
	w.EndArray()
	w.EndObject()
	want := `{"s":"a\"b\n","arr":[1,false,null]}`
	if got := string(w.Bytes()); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestWriter_ControlCharacterEscapes(t *testing.T) {
	w := NewWriter(false, "")
	w.String("\x01\t")
	if got := string(w.Bytes()); got != `"\u0001\t"` {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestFormatFloat_RoundTrips(t *testing.T) {
	if FormatFloat(2.5, 64) != "2.5" {
		t.Fatalf("unexpected: %s", FormatFloat(2.5, 64))
	}
	if FormatFloat(0.1, 32) != "0.1" {
		t.Fatalf("unexpected: %s", FormatFloat(0.1, 32))
	}
}
