// Package text implements the JSON grammar engine: a lexer with strict and
// lenient token paths, a recursive-descent reader producing the structural
// token stream, and a writer emitting strict JSON text.
package text

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// SyntaxError reports a lexical or grammatical failure with its byte offset.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json: %s at offset %d", e.Msg, e.Offset)
}

// Options mirror the grammar-relevant configuration flags.
type Options struct {
	Lenient            bool
	AllowComments      bool
	AllowTrailingComma bool
	AllowSpecialFloats bool
}

type lexKind int

const (
	lxBeginObject lexKind = iota
	lxEndObject
	lxBeginArray
	lxEndArray
	lxColon
	lxComma
	lxString
	lxNumber
	lxTrue
	lxFalse
	lxNull
	lxEOF
)

type lexToken struct {
	kind   lexKind
	text   string // string content (unescaped), numeral text, or literal text
	quoted bool
	offset int64
}

type lexer struct {
	data []byte
	pos  int
	opts Options
	// skip is selected at construction: the comment-aware variant is a
	// distinct code path, not a post-filter over the input bytes.
	skip func(*lexer) error
}

func newLexer(data []byte, opts Options) *lexer {
	l := &lexer{data: data, opts: opts}
	if opts.AllowComments {
		l.skip = (*lexer).skipSpaceAndComments
	} else {
		l.skip = (*lexer).skipSpace
	}
	return l
}

func (l *lexer) errf(offset int64, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func (l *lexer) skipSpace() error {
	for l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
	return nil
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpace(c) {
			l.pos++
			continue
		}
		if c != '/' || l.pos+1 >= len(l.data) {
			return nil
		}
		switch l.data[l.pos+1] {
		case '/':
			l.pos += 2
			for l.pos < len(l.data) && l.data[l.pos] != '\n' {
				l.pos++
			}
		case '*':
			start := int64(l.pos)
			l.pos += 2
			for {
				if l.pos+1 >= len(l.data) {
					return l.errf(start, "unterminated block comment")
				}
				if l.data[l.pos] == '*' && l.data[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (lexToken, error) {
	if err := l.skip(l); err != nil {
		return lexToken{}, err
	}
	off := int64(l.pos)
	if l.pos >= len(l.data) {
		return lexToken{kind: lxEOF, offset: off}, nil
	}
	c := l.data[l.pos]
	switch c {
	case '{':
		l.pos++
		return lexToken{kind: lxBeginObject, offset: off}, nil
	case '}':
		l.pos++
		return lexToken{kind: lxEndObject, offset: off}, nil
	case '[':
		l.pos++
		return lexToken{kind: lxBeginArray, offset: off}, nil
	case ']':
		l.pos++
		return lexToken{kind: lxEndArray, offset: off}, nil
	case ':':
		l.pos++
		return lexToken{kind: lxColon, offset: off}, nil
	case ',':
		l.pos++
		return lexToken{kind: lxComma, offset: off}, nil
	case '"':
		return l.scanQuoted('"', off)
	case '\'':
		if l.opts.Lenient {
			return l.scanQuoted('\'', off)
		}
		return lexToken{}, l.errf(off, "single-quoted strings require lenient mode")
	}
	if l.opts.Lenient {
		return l.scanBare(off)
	}
	if c == '-' || (c >= '0' && c <= '9') {
		return l.scanNumber(off)
	}
	if isWordChar(c) {
		return l.scanWord(off)
	}
	return lexToken{}, l.errf(off, "unexpected character %q", rune(c))
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// bare-chunk delimiters for lenient scanning
func (l *lexer) isDelimiter(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ':', ',', '"', '\'':
		return true
	case '/':
		return l.opts.AllowComments
	}
	return isSpace(c)
}

// scanBare handles the lenient value path: an unquoted chunk is classified as
// a literal (case-insensitive), a number, a special float, or a bare string.
func (l *lexer) scanBare(off int64) (lexToken, error) {
	start := l.pos
	for l.pos < len(l.data) && !l.isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	chunk := string(l.data[start:l.pos])
	if chunk == "" {
		return lexToken{}, l.errf(off, "unexpected character %q", rune(l.data[l.pos]))
	}
	switch strings.ToLower(chunk) {
	case "true":
		return lexToken{kind: lxTrue, text: chunk, offset: off}, nil
	case "false":
		return lexToken{kind: lxFalse, text: chunk, offset: off}, nil
	case "null":
		return lexToken{kind: lxNull, text: chunk, offset: off}, nil
	}
	if l.opts.AllowSpecialFloats && isSpecialFloat(chunk) {
		return lexToken{kind: lxNumber, text: chunk, offset: off}, nil
	}
	if validNumber(chunk, true) {
		return lexToken{kind: lxNumber, text: chunk, offset: off}, nil
	}
	return lexToken{kind: lxString, text: chunk, offset: off}, nil
}

func isSpecialFloat(s string) bool {
	return s == "NaN" || s == "Infinity" || s == "-Infinity" || s == "+Infinity"
}

// scanWord handles the strict path for identifier-looking input: only the
// exact literals (and special floats when enabled) are legal.
func (l *lexer) scanWord(off int64) (lexToken, error) {
	start := l.pos
	for l.pos < len(l.data) && isWordChar(l.data[l.pos]) {
		l.pos++
	}
	word := string(l.data[start:l.pos])
	switch word {
	case "true":
		return lexToken{kind: lxTrue, text: word, offset: off}, nil
	case "false":
		return lexToken{kind: lxFalse, text: word, offset: off}, nil
	case "null":
		return lexToken{kind: lxNull, text: word, offset: off}, nil
	}
	if l.opts.AllowSpecialFloats && isSpecialFloat(word) {
		return lexToken{kind: lxNumber, text: word, offset: off}, nil
	}
	return lexToken{}, l.errf(off, "unexpected literal %q", word)
}

func (l *lexer) scanNumber(off int64) (lexToken, error) {
	start := l.pos
	if l.data[l.pos] == '-' {
		l.pos++
		if l.opts.AllowSpecialFloats && l.matchWordAt("Infinity") {
			return lexToken{kind: lxNumber, text: "-Infinity", offset: off}, nil
		}
	}
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			l.pos++
			continue
		}
		break
	}
	text := string(l.data[start:l.pos])
	if !validNumber(text, l.opts.Lenient) {
		return lexToken{}, l.errf(off, "malformed number %q", text)
	}
	return lexToken{kind: lxNumber, text: text, offset: off}, nil
}

func (l *lexer) matchWordAt(word string) bool {
	if l.pos+len(word) > len(l.data) || string(l.data[l.pos:l.pos+len(word)]) != word {
		return false
	}
	l.pos += len(word)
	return true
}

// validNumber checks the JSON number grammar: optional '-', integer part,
// optional fraction, optional exponent. Lenient mode additionally accepts a
// leading or trailing dot.
func validNumber(s string, lenient bool) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '-' {
		i++
		if i == len(s) {
			return false
		}
	}
	sawIntDigits := false
	switch {
	case s[i] == '.':
		if !lenient {
			return false
		}
	case s[i] == '0':
		i++
		sawIntDigits = true
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		sawIntDigits = true
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == fracStart && (!lenient || !sawIntDigits) {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *lexer) scanQuoted(quote byte, off int64) (lexToken, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.data) {
			return lexToken{}, l.errf(off, "unterminated string")
		}
		c := l.data[l.pos]
		switch {
		case c == quote:
			l.pos++
			return lexToken{kind: lxString, text: b.String(), quoted: true, offset: off}, nil
		case c == '\\':
			if err := l.scanEscape(&b); err != nil {
				return lexToken{}, err
			}
		case c < 0x20:
			return lexToken{}, l.errf(int64(l.pos), "control character in string")
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

func (l *lexer) scanEscape(b *strings.Builder) error {
	off := int64(l.pos)
	l.pos++ // backslash
	if l.pos >= len(l.data) {
		return l.errf(off, "unterminated escape")
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case '\'':
		// Only meaningful inside lenient single-quoted strings.
		if !l.opts.Lenient {
			return l.errf(off, "invalid escape '\\%c'", c)
		}
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := l.scanHex4(off)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			if l.pos+1 < len(l.data) && l.data[l.pos] == '\\' && l.data[l.pos+1] == 'u' {
				l.pos += 2
				r2, err := l.scanHex4(off)
				if err != nil {
					return err
				}
				if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
					b.WriteRune(dec)
					return nil
				}
				b.WriteRune(utf8.RuneError)
				b.WriteRune(utf8.RuneError)
				return nil
			}
			b.WriteRune(utf8.RuneError)
			return nil
		}
		b.WriteRune(r)
	default:
		return l.errf(off, "invalid escape '\\%c'", c)
	}
	return nil
}

func (l *lexer) scanHex4(off int64) (rune, error) {
	if l.pos+4 > len(l.data) {
		return 0, l.errf(off, "truncated unicode escape")
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := l.data[l.pos+i]
		var v rune
		switch {
		case c >= '0' && c <= '9':
			v = rune(c - '0')
		case c >= 'a' && c <= 'f':
			v = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = rune(c-'A') + 10
		default:
			return 0, l.errf(off, "invalid unicode escape")
		}
		r = r<<4 | v
	}
	l.pos += 4
	return r, nil
}
