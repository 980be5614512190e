package text

import (
	"testing"
)

func lexAll(t *testing.T, input string, opts Options) []lexToken {
	t.Helper()
	lx := newLexer([]byte(input), opts)
	var out []lexToken
	for {
		tk, err := lx.next()
		if err != nil {
			t.Fatalf("unexpected error lexing %q: %v", input, err)
		}
		out = append(out, tk)
		if tk.kind == lxEOF {
			return out
		}
	}
}

func TestLexer_StrictTokens(t *testing.T) {
	toks := lexAll(t, ` {"a": [1, -2.5e3, true, false, null]} `, Options{})
	kinds := []lexKind{lxBeginObject, lxString, lxColon, lxBeginArray, lxNumber, lxComma,
		lxNumber, lxComma, lxTrue, lxComma, lxFalse, lxComma, lxNull, lxEndArray, lxEndObject, lxEOF}
	if len(toks) != len(kinds) {
		t.Fatalf("want %d tokens, got %d", len(kinds), len(toks))
	}
	for i, k := range kinds {
		if toks[i].kind != k {
			t.Fatalf("token %d: want kind %d, got %d", i, k, toks[i].kind)
		}
	}
	if toks[6].text != "-2.5e3" {
		t.Fatalf("numeral text must be preserved: %q", toks[6].text)
	}
	if !toks[1].quoted || toks[1].text != "a" {
		t.Fatalf("unexpected string token: %+v", toks[1])
	}
}

func TestLexer_StrictRejections(t *testing.T) {
	for _, input := range []string{`'a'`, `nul`, `01`, `1.`, `.5`, `+1`, `"a`, "\"a\nb\"", `"\x"`, `"\'"`} {
		lx := newLexer([]byte(input), Options{})
		if _, err := lx.next(); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestLexer_LenientBareChunks(t *testing.T) {
	opts := Options{Lenient: true}
	toks := lexAll(t, `hello TRUE Null 1. .5 12ab`, opts)
	if toks[0].kind != lxString || toks[0].text != "hello" || toks[0].quoted {
		t.Fatalf("bare string: %+v", toks[0])
	}
	if toks[1].kind != lxTrue || toks[2].kind != lxNull {
		t.Fatalf("literals must match case-insensitively: %+v %+v", toks[1], toks[2])
	}
	if toks[3].kind != lxNumber || toks[4].kind != lxNumber {
		t.Fatalf("leading/trailing dot numbers must lex in lenient mode: %+v %+v", toks[3], toks[4])
	}
	// An unclassifiable chunk falls back to an unquoted string.
	if toks[5].kind != lxString || toks[5].text != "12ab" {
		t.Fatalf("unexpected: %+v", toks[5])
	}
}

func TestLexer_SingleQuotes(t *testing.T) {
	toks := lexAll(t, `'it\'s'`, Options{Lenient: true})
	if toks[0].kind != lxString || toks[0].text != "it's" {
		t.Fatalf("unexpected: %+v", toks[0])
	}
	// The quote escape also works in lenient double-quoted strings.
	toks = lexAll(t, `"\'"`, Options{Lenient: true})
	if toks[0].text != "'" {
		t.Fatalf("unexpected: %+v", toks[0])
	}
}

func TestLexer_Comments(t *testing.T) {
	input := "// head\n[1, /* mid */ 2]"
	toks := lexAll(t, input, Options{AllowComments: true})
	if toks[0].kind != lxBeginArray || toks[1].text != "1" || toks[3].text != "2" {
		t.Fatalf("comments must be skipped: %+v", toks)
	}

	lx := newLexer([]byte(input), Options{})
	if _, err := lx.next(); err == nil {
		t.Fatalf("comments must be rejected when not enabled")
	}

	lx = newLexer([]byte("/* open"), Options{AllowComments: true})
	if _, err := lx.next(); err == nil {
		t.Fatalf("unterminated block comment must fail")
	}
}

func TestLexer_SpecialFloats(t *testing.T) {
	toks := lexAll(t, `NaN`, Options{AllowSpecialFloats: true})
	if toks[0].kind != lxNumber || toks[0].text != "NaN" {
		t.Fatalf("unexpected: %+v", toks[0])
	}
	toks = lexAll(t, `-Infinity`, Options{AllowSpecialFloats: true})
	if toks[0].kind != lxNumber || toks[0].text != "-Infinity" {
		t.Fatalf("unexpected: %+v", toks[0])
	}
	lx := newLexer([]byte(`Infinity`), Options{})
	if _, err := lx.next(); err == nil {
		t.Fatalf("special floats must be rejected when not enabled")
	}
}

func TestLexer_UnicodeEscapes(t *testing.T) {
	toks := lexAll(t, `"\u0041\ud83d\ude00"`, Options{})
	if toks[0].text != "A😀" {
		t.Fatalf("surrogate pair must decode: %q", toks[0].text)
	}
	// Unpaired surrogate degrades to the replacement rune.
	toks = lexAll(t, `"\ud83d"`, Options{})
	if toks[0].text != "�" {
		t.Fatalf("unexpected: %q", toks[0].text)
	}
}

func TestLexer_Offsets(t *testing.T) {
	toks := lexAll(t, `  {"a":1}`, Options{})
	if toks[0].offset != 2 || toks[1].offset != 3 {
		t.Fatalf("offsets must point at token starts: %+v", toks[:2])
	}
}
