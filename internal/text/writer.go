package text

import (
	"bytes"
	"strconv"
)

// Writer emits strict JSON text: always-quoted keys and strings, no trailing
// commas, no bare literals. Pretty-printing inserts whitespace only and never
// affects the emitted value.
type Writer struct {
	buf    bytes.Buffer
	pretty bool
	indent string
	stack  []wframe
}

type wframe struct {
	isObject   bool
	n          int  // values (array) or members (object) written
	awaitValue bool // object: a key has been written, its value has not
}

// NewWriter builds a writer. indent is used only when pretty is set.
func NewWriter(pretty bool, indent string) *Writer {
	return &Writer{pretty: pretty, indent: indent}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) newline() {
	w.buf.WriteByte('\n')
	for i := 0; i < len(w.stack); i++ {
		w.buf.WriteString(w.indent)
	}
}

// beforeValue positions the cursor for a value: separators inside arrays,
// nothing after a pending object key.
func (w *Writer) beforeValue() {
	if n := len(w.stack); n > 0 {
		top := &w.stack[n-1]
		if top.isObject {
			top.awaitValue = false
			return
		}
		if top.n > 0 {
			w.buf.WriteByte(',')
		}
		if w.pretty {
			w.newline()
		}
		top.n++
	}
}

// Key writes an object member name and its separator.
func (w *Writer) Key(name string) {
	top := &w.stack[len(w.stack)-1]
	if top.n > 0 {
		w.buf.WriteByte(',')
	}
	if w.pretty {
		w.newline()
	}
	top.n++
	top.awaitValue = true
	w.writeQuoted(name)
	w.buf.WriteByte(':')
	if w.pretty {
		w.buf.WriteByte(' ')
	}
}

func (w *Writer) BeginObject() {
	w.beforeValue()
	w.buf.WriteByte('{')
	w.stack = append(w.stack, wframe{isObject: true})
}

func (w *Writer) EndObject() {
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if w.pretty && top.n > 0 {
		w.newline()
	}
	w.buf.WriteByte('}')
}

func (w *Writer) BeginArray() {
	w.beforeValue()
	w.buf.WriteByte('[')
	w.stack = append(w.stack, wframe{isObject: false})
}

func (w *Writer) EndArray() {
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if w.pretty && top.n > 0 {
		w.newline()
	}
	w.buf.WriteByte(']')
}

func (w *Writer) String(s string) {
	w.beforeValue()
	w.writeQuoted(s)
}

// Number writes raw numeral text (including NaN/Infinity when the caller
// allows special floats).
func (w *Writer) Number(text string) {
	w.beforeValue()
	w.buf.WriteString(text)
}

func (w *Writer) Bool(v bool) {
	w.beforeValue()
	if v {
		w.buf.WriteString("true")
	} else {
		w.buf.WriteString("false")
	}
}

func (w *Writer) Null() {
	w.beforeValue()
	w.buf.WriteString("null")
}

const hexDigits = "0123456789abcdef"

func (w *Writer) writeQuoted(s string) {
	w.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		w.buf.WriteString(s[start:i])
		switch c {
		case '"':
			w.buf.WriteString(`\"`)
		case '\\':
			w.buf.WriteString(`\\`)
		case '\b':
			w.buf.WriteString(`\b`)
		case '\f':
			w.buf.WriteString(`\f`)
		case '\n':
			w.buf.WriteString(`\n`)
		case '\r':
			w.buf.WriteString(`\r`)
		case '\t':
			w.buf.WriteString(`\t`)
		default:
			w.buf.WriteString(`\u00`)
			w.buf.WriteByte(hexDigits[c>>4])
			w.buf.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	w.buf.WriteString(s[start:])
	w.buf.WriteByte('"')
}

// FormatFloat renders a float the shortest way that round-trips.
func FormatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}
