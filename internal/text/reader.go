package text

import (
	"io"

	"github.com/goserde/goserde/internal/engine"
)

type rstate int

const (
	sValue    rstate = iota // expecting a value (root or after '[' / array comma)
	sObjFirst               // '{' just opened: key or '}'
	sObjKey                 // after ',': key, or '}' when trailing commas allowed
	sObjColon               // after key: ':'
	sObjValue               // after ':': a value
	sObjNext                // after a member: ',' or '}'
	sArrValue               // after ',': value, or ']' when trailing commas allowed
	sArrNext                // after an element: ',' or ']'
	sEnd                    // root value consumed: EOF only
)

type rframe struct {
	isObject bool
	state    rstate
}

// Reader turns JSON text into the structural token stream, enforcing the
// grammar (member separators, key/colon pairing, trailing-comma policy) as it
// goes. It implements engine.TokenSource; NextToken returns io.EOF after the
// root value has been fully consumed.
type Reader struct {
	lx      *lexer
	opts    Options
	stack   []rframe
	root    rstate
	lastOff int64
}

// NewReader builds a grammar reader over a complete text buffer.
func NewReader(data []byte, opts Options) *Reader {
	return &Reader{lx: newLexer(data, opts), opts: opts, root: sValue}
}

func (r *Reader) Location() int64 { return r.lastOff }

func (r *Reader) curState() rstate {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1].state
	}
	return r.root
}

func (r *Reader) setState(s rstate) {
	if n := len(r.stack); n > 0 {
		r.stack[n-1].state = s
		return
	}
	r.root = s
}

func (r *Reader) fail(off int64, msg string) (engine.Token, error) {
	return engine.Token{}, &SyntaxError{Offset: off, Msg: msg}
}

func (r *Reader) NextToken() (engine.Token, error) {
	for {
		tk, err := r.lx.next()
		if err != nil {
			return engine.Token{}, err
		}
		r.lastOff = tk.offset

		switch r.curState() {
		case sEnd:
			if tk.kind == lxEOF {
				return engine.Token{}, io.EOF
			}
			return r.fail(tk.offset, "unexpected trailing content")

		case sValue, sArrValue:
			if tk.kind == lxEndArray && len(r.stack) > 0 && !r.stack[len(r.stack)-1].isObject {
				if r.curState() == sValue || r.opts.AllowTrailingComma {
					return r.closeFrame(tk)
				}
				return r.fail(tk.offset, "trailing comma before ']'")
			}
			return r.emitValue(tk)

		case sObjValue:
			return r.emitValue(tk)

		case sObjFirst, sObjKey:
			if tk.kind == lxEndObject {
				if r.curState() == sObjFirst || r.opts.AllowTrailingComma {
					return r.closeFrame(tk)
				}
				return r.fail(tk.offset, "trailing comma before '}'")
			}
			key, ok := r.keyText(tk)
			if !ok {
				return r.fail(tk.offset, "expected property name")
			}
			r.setState(sObjColon)
			return engine.Token{Kind: engine.KindKey, String: key, Offset: tk.offset}, nil

		case sObjColon:
			if tk.kind != lxColon {
				return r.fail(tk.offset, "expected ':' after property name")
			}
			r.setState(sObjValue)

		case sObjNext:
			switch tk.kind {
			case lxComma:
				r.setState(sObjKey)
			case lxEndObject:
				return r.closeFrame(tk)
			default:
				return r.fail(tk.offset, "expected ',' or '}'")
			}

		case sArrNext:
			switch tk.kind {
			case lxComma:
				r.setState(sArrValue)
			case lxEndArray:
				return r.closeFrame(tk)
			default:
				return r.fail(tk.offset, "expected ',' or ']'")
			}
		}
	}
}

// keyText accepts a property-name token. Strict mode requires a quoted
// string; lenient mode also takes bare strings, numbers, and literals.
func (r *Reader) keyText(tk lexToken) (string, bool) {
	switch tk.kind {
	case lxString:
		if tk.quoted || r.opts.Lenient {
			return tk.text, true
		}
	case lxNumber, lxTrue, lxFalse, lxNull:
		if r.opts.Lenient {
			return tk.text, true
		}
	}
	return "", false
}

// advance marks the value at the current level as consumed.
func (r *Reader) advance() {
	if n := len(r.stack); n > 0 {
		if r.stack[n-1].isObject {
			r.stack[n-1].state = sObjNext
		} else {
			r.stack[n-1].state = sArrNext
		}
		return
	}
	r.root = sEnd
}

func (r *Reader) emitValue(tk lexToken) (engine.Token, error) {
	switch tk.kind {
	case lxBeginObject:
		r.advance()
		r.stack = append(r.stack, rframe{isObject: true, state: sObjFirst})
		return engine.Token{Kind: engine.KindBeginObject, Offset: tk.offset}, nil
	case lxBeginArray:
		r.advance()
		r.stack = append(r.stack, rframe{isObject: false, state: sValue})
		return engine.Token{Kind: engine.KindBeginArray, Offset: tk.offset}, nil
	case lxString:
		r.advance()
		return engine.Token{Kind: engine.KindString, String: tk.text, Offset: tk.offset}, nil
	case lxNumber:
		r.advance()
		return engine.Token{Kind: engine.KindNumber, Number: tk.text, Offset: tk.offset}, nil
	case lxTrue:
		r.advance()
		return engine.Token{Kind: engine.KindBool, Bool: true, Offset: tk.offset}, nil
	case lxFalse:
		r.advance()
		return engine.Token{Kind: engine.KindBool, Bool: false, Offset: tk.offset}, nil
	case lxNull:
		r.advance()
		return engine.Token{Kind: engine.KindNull, Offset: tk.offset}, nil
	case lxEOF:
		return r.fail(tk.offset, "unexpected end of input")
	default:
		return r.fail(tk.offset, "unexpected token")
	}
}

func (r *Reader) closeFrame(tk lexToken) (engine.Token, error) {
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	if top.isObject {
		return engine.Token{Kind: engine.KindEndObject, Offset: tk.offset}, nil
	}
	return engine.Token{Kind: engine.KindEndArray, Offset: tk.offset}, nil
}
