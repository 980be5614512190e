package goserde

import (
	"strconv"
	"strings"

	"github.com/goserde/goserde/internal/engine"
)

// tokenCursor adds single-token lookahead over a token source. One cursor is
// shared by a whole decode call tree; per-structure element cursors live in
// the streamDecoder instances.
type tokenCursor struct {
	src    engine.TokenSource
	peeked *engine.Token
}

func (c *tokenCursor) peek() (engine.Token, error) {
	if c.peeked == nil {
		tok, err := c.src.NextToken()
		if err != nil {
			return engine.Token{}, err
		}
		c.peeked = &tok
	}
	return *c.peeked, nil
}

func (c *tokenCursor) next() (engine.Token, error) {
	if c.peeked != nil {
		tok := *c.peeked
		c.peeked = nil
		return tok, nil
	}
	return c.src.NextToken()
}

func (c *tokenCursor) location() int64 {
	if c.peeked != nil {
		return c.peeked.Offset
	}
	return c.src.Location()
}

type decShape int

const (
	shpRoot decShape = iota
	shpObject
	shpList
	shpMap
)

// streamDecoder drives the codec protocol directly off the token stream
// without materializing a tree. Each nested BeginStructure allocates an
// independent decoder with its own element cursor; the token cursor itself is
// shared down the call tree.
type streamDecoder struct {
	cur   *tokenCursor
	cfg   Config
	names *nameCache

	shape  decShape
	parent *streamDecoder
	tag    string // path segment of this structure in its parent

	idx        int    // element cursor
	curTag     string // currently-addressed element
	seen       []bool
	exhausted  bool
	synthIdx   int
	forcedNull bool // next value read is a synthesized null
}

var jsonPointerEscape = strings.NewReplacer("~", "~0", "/", "~1")

func (s *streamDecoder) structPath() string {
	if s.parent == nil {
		return ""
	}
	p := s.parent.structPath()
	if s.tag == "" {
		return p
	}
	return p + "/" + jsonPointerEscape.Replace(s.tag)
}

func (s *streamDecoder) curPath() string {
	base := s.structPath()
	if s.curTag != "" {
		return base + "/" + jsonPointerEscape.Replace(s.curTag)
	}
	if base == "" {
		return "/"
	}
	return base
}

func (s *streamDecoder) read() (engine.Token, error) {
	tok, err := s.cur.next()
	if err != nil {
		return engine.Token{}, toIssues(err)
	}
	return tok, nil
}

func (s *streamDecoder) peekToken() (engine.Token, error) {
	tok, err := s.cur.peek()
	if err != nil {
		return engine.Token{}, toIssues(err)
	}
	return tok, nil
}

// ---- element traversal ----

func (s *streamDecoder) DecodeElementIndex(d Descriptor) (int, error) {
	switch s.shape {
	case shpObject:
		return s.objectElementIndex(d)
	case shpList:
		tok, err := s.peekToken()
		if err != nil {
			return 0, err
		}
		if tok.Kind == engine.KindEndArray {
			return DecodeDone, nil
		}
		i := s.idx
		s.idx++
		s.curTag = strconv.Itoa(i)
		return i, nil
	case shpMap:
		tok, err := s.peekToken()
		if err != nil {
			return 0, err
		}
		if tok.Kind == engine.KindEndObject {
			return DecodeDone, nil
		}
		i := s.idx
		s.idx++
		s.curTag = strconv.Itoa(i)
		return i, nil
	default:
		return 0, issuef(CodeUnexpectedStructure, s.curPath(), s.cur.location(),
			"DecodeElementIndex requires an open structure")
	}
}

func (s *streamDecoder) objectElementIndex(d Descriptor) (int, error) {
	if s.seen == nil {
		s.seen = make([]bool, d.NumElements())
	}
	for {
		if s.exhausted {
			return s.nextSynthesized(d)
		}
		tok, err := s.peekToken()
		if err != nil {
			return 0, err
		}
		if tok.Kind == engine.KindEndObject {
			s.exhausted = true
			return s.nextSynthesized(d)
		}
		if tok.Kind != engine.KindKey {
			return 0, issuef(CodeMalformedInput, s.curPath(), tok.Offset, "expected object key")
		}
		if _, err := s.read(); err != nil {
			return 0, err
		}
		idx, err := s.names.resolve(d, tok.String)
		if err != nil {
			return 0, err
		}
		if idx >= 0 {
			if s.cfg.CoerceInputValues {
				coerce, err := s.shouldCoerce(d, idx)
				if err != nil {
					return 0, err
				}
				if coerce {
					if err := s.skipValue(); err != nil {
						return 0, err
					}
					continue
				}
			}
			s.seen[idx] = true
			s.curTag = tok.String
			return idx, nil
		}
		if !s.cfg.IgnoreUnknownKeys {
			return 0, issuef(CodeUnknownKey,
				s.structPath()+"/"+jsonPointerEscape.Replace(tok.String), tok.Offset,
				"unknown key %q in %s", tok.String, d.SerialName())
		}
		if err := s.skipValue(); err != nil {
			return 0, err
		}
	}
}

// nextSynthesized yields indexes for missing non-optional nullable elements
// when explicit nulls are disabled; the corresponding value reads observe a
// forced null.
func (s *streamDecoder) nextSynthesized(d Descriptor) (int, error) {
	if s.cfg.ExplicitNulls {
		return DecodeDone, nil
	}
	for ; s.synthIdx < d.NumElements(); s.synthIdx++ {
		i := s.synthIdx
		if s.seen[i] || d.IsElementOptional(i) || !d.ElementDescriptor(i).IsNullable() {
			continue
		}
		s.synthIdx++
		s.seen[i] = true
		s.forcedNull = true
		s.curTag = d.ElementName(i)
		return i, nil
	}
	return DecodeDone, nil
}

// shouldCoerce peeks at the pending value and decides whether the coercion
// policy downgrades it to "absent": a null for a non-nullable element with a
// default, or an unresolvable enum string for an enum element with a default.
func (s *streamDecoder) shouldCoerce(d Descriptor, idx int) (bool, error) {
	if !d.IsElementOptional(idx) {
		return false, nil
	}
	elem := d.ElementDescriptor(idx)
	tok, err := s.peekToken()
	if err != nil {
		return false, err
	}
	if tok.Kind == engine.KindNull && !elem.IsNullable() {
		return true, nil
	}
	if elem.Kind() == KindEnum && tok.Kind == engine.KindString {
		if resolveEnumIndex(elem, tok.String, s.cfg) < 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *streamDecoder) skipValue() error {
	depth := 0
	for {
		tok, err := s.read()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case engine.KindBeginObject, engine.KindBeginArray:
			depth++
		case engine.KindEndObject, engine.KindEndArray:
			depth--
		}
		if depth <= 0 {
			return nil
		}
	}
}

// ---- structure nesting ----

func (s *streamDecoder) BeginStructure(d Descriptor) (Decoder, error) {
	if s.forcedNull {
		return nil, issuef(CodeUnexpectedStructure, s.curPath(), -1,
			"synthesized null cannot be decoded as %s", d.SerialName())
	}
	if d.Kind() == KindPolymorphic {
		// Polymorphic payloads are buffered as a tree so the discriminator
		// can be inspected before the payload is re-decoded.
		v, err := s.decodeTree()
		if err != nil {
			return nil, err
		}
		nd := &nativeDecoder{cfg: s.cfg, names: s.names,
			node: v, nodeSet: true, tag: s.curTag, basePath: s.structPath()}
		return nd.BeginStructure(d)
	}
	tok, err := s.read()
	if err != nil {
		return nil, err
	}
	var shape decShape
	switch d.Kind() {
	case KindList:
		if tok.Kind != engine.KindBeginArray {
			return nil, issuef(CodeUnexpectedStructure, s.curPath(), tok.Offset,
				"expected array for %s, found %s", d.SerialName(), tok.Kind)
		}
		shape = shpList
	case KindMap:
		if tok.Kind != engine.KindBeginObject {
			return nil, issuef(CodeUnexpectedStructure, s.curPath(), tok.Offset,
				"expected object for %s, found %s", d.SerialName(), tok.Kind)
		}
		shape = shpMap
	default:
		if tok.Kind != engine.KindBeginObject {
			return nil, issuef(CodeUnexpectedStructure, s.curPath(), tok.Offset,
				"expected object for %s, found %s", d.SerialName(), tok.Kind)
		}
		shape = shpObject
	}
	return &streamDecoder{cur: s.cur, cfg: s.cfg, names: s.names,
		shape: shape, parent: s, tag: s.curTag}, nil
}

// EndStructure consumes the closing bracket, skipping any members the
// deserializer chose not to read.
func (s *streamDecoder) EndStructure(Descriptor) error {
	depth := 0
	for {
		tok, err := s.read()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case engine.KindBeginObject, engine.KindBeginArray:
			depth++
		case engine.KindEndObject, engine.KindEndArray:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// ---- scalar reads ----

// valueToken consumes the next scalar-position token. Map keys arrive as
// KindKey and are re-parsed from their string form by the typed reads.
func (s *streamDecoder) valueToken() (engine.Token, error) {
	if s.forcedNull {
		return engine.Token{}, issuef(CodeTypeMismatch, s.curPath(), -1,
			"synthesized null has no value")
	}
	tok, err := s.read()
	if err != nil {
		return engine.Token{}, err
	}
	switch tok.Kind {
	case engine.KindBeginObject, engine.KindBeginArray,
		engine.KindEndObject, engine.KindEndArray:
		return engine.Token{}, issuef(CodeUnexpectedStructure, s.curPath(), tok.Offset,
			"expected a scalar, found %s", tok.Kind)
	}
	return tok, nil
}

func (s *streamDecoder) mismatch(tok engine.Token, want string) error {
	return issuef(CodeTypeMismatch, s.curPath(), tok.Offset,
		"expected %s, found %s", want, tok.Kind)
}

func (s *streamDecoder) wrapConv(cerr *convErr, off int64) error {
	return issuef(cerr.code, s.curPath(), off, "%s", cerr.msg)
}

func (s *streamDecoder) DecodeNotNullMark() (bool, error) {
	if s.forcedNull {
		return false, nil
	}
	tok, err := s.peekToken()
	if err != nil {
		return false, err
	}
	return tok.Kind != engine.KindNull, nil
}

func (s *streamDecoder) DecodeNull() error {
	if s.forcedNull {
		s.forcedNull = false
		return nil
	}
	tok, err := s.read()
	if err != nil {
		return err
	}
	if tok.Kind != engine.KindNull {
		return s.mismatch(tok, "null")
	}
	return nil
}

func (s *streamDecoder) DecodeBool() (bool, error) {
	tok, err := s.valueToken()
	if err != nil {
		return false, err
	}
	switch tok.Kind {
	case engine.KindBool:
		return tok.Bool, nil
	case engine.KindKey:
		v, perr := strconv.ParseBool(tok.String)
		if perr != nil {
			return false, issuef(CodeTypeMismatch, s.curPath(), tok.Offset,
				"map key %q is not a boolean", tok.String)
		}
		return v, nil
	case engine.KindString:
		if s.cfg.Lenient {
			if v, perr := strconv.ParseBool(tok.String); perr == nil {
				return v, nil
			}
		}
	}
	return false, s.mismatch(tok, "boolean")
}

// numericText extracts the numeral text of a scalar token. Map keys always
// re-parse; quoted numbers are admitted only in lenient mode.
func (s *streamDecoder) numericText(tok engine.Token) (string, error) {
	switch tok.Kind {
	case engine.KindNumber:
		return tok.Number, nil
	case engine.KindKey:
		return tok.String, nil
	case engine.KindString:
		if s.cfg.Lenient {
			return tok.String, nil
		}
	}
	return "", s.mismatch(tok, "number")
}

func (s *streamDecoder) decodeInt64() (int64, int64, error) {
	tok, err := s.valueToken()
	if err != nil {
		return 0, 0, err
	}
	text, err := s.numericText(tok)
	if err != nil {
		return 0, 0, err
	}
	v, cerr := int64FromText(text)
	if cerr != nil {
		if tok.Kind == engine.KindKey && cerr.code == CodeTypeMismatch {
			return 0, 0, issuef(CodeTypeMismatch, s.curPath(), tok.Offset,
				"map key %q is not a number", text)
		}
		return 0, 0, s.wrapConv(cerr, tok.Offset)
	}
	return v, tok.Offset, nil
}

func (s *streamDecoder) DecodeInt64() (int64, error) {
	v, _, err := s.decodeInt64()
	return v, err
}

func (s *streamDecoder) DecodeInt8() (int8, error) {
	v, off, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -128, 127, "int8")
	if cerr != nil {
		return 0, s.wrapConv(cerr, off)
	}
	return int8(n), nil
}

func (s *streamDecoder) DecodeInt16() (int16, error) {
	v, off, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -32768, 32767, "int16")
	if cerr != nil {
		return 0, s.wrapConv(cerr, off)
	}
	return int16(n), nil
}

func (s *streamDecoder) DecodeInt32() (int32, error) {
	v, off, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -2147483648, 2147483647, "int32")
	if cerr != nil {
		return 0, s.wrapConv(cerr, off)
	}
	return int32(n), nil
}

func (s *streamDecoder) DecodeFloat64() (float64, error) {
	tok, err := s.valueToken()
	if err != nil {
		return 0, err
	}
	text, err := s.numericText(tok)
	if err != nil {
		return 0, err
	}
	f, cerr := float64FromText(text)
	if cerr != nil {
		if tok.Kind == engine.KindKey {
			return 0, issuef(CodeTypeMismatch, s.curPath(), tok.Offset,
				"map key %q is not a number", text)
		}
		return 0, s.wrapConv(cerr, tok.Offset)
	}
	return f, nil
}

func (s *streamDecoder) DecodeFloat32() (float32, error) {
	f, err := s.DecodeFloat64()
	return float32(f), err
}

func (s *streamDecoder) DecodeChar() (rune, error) {
	tok, err := s.valueToken()
	if err != nil {
		return 0, err
	}
	var cerr *convErr
	var r rune
	switch tok.Kind {
	case engine.KindString, engine.KindKey:
		r, cerr = charFromText(tok.String)
	case engine.KindNumber:
		r, cerr = charFromCode(tok.Number)
	default:
		return 0, s.mismatch(tok, "character")
	}
	if cerr != nil {
		return 0, s.wrapConv(cerr, tok.Offset)
	}
	return r, nil
}

func (s *streamDecoder) DecodeString() (string, error) {
	tok, err := s.valueToken()
	if err != nil {
		return "", err
	}
	switch tok.Kind {
	case engine.KindString, engine.KindKey:
		return tok.String, nil
	case engine.KindNumber:
		if s.cfg.Lenient {
			return tok.Number, nil
		}
	case engine.KindBool:
		if s.cfg.Lenient {
			return strconv.FormatBool(tok.Bool), nil
		}
	}
	return "", s.mismatch(tok, "string")
}

func (s *streamDecoder) DecodeEnum(enum Descriptor) (int, error) {
	tok, err := s.valueToken()
	if err != nil {
		return 0, err
	}
	if tok.Kind != engine.KindString && tok.Kind != engine.KindKey {
		return 0, s.mismatch(tok, "enum string")
	}
	idx := resolveEnumIndex(enum, tok.String, s.cfg)
	if idx < 0 {
		return 0, issuef(CodeUnknownEnumValue, s.curPath(), tok.Offset,
			"%q is not an entry of %s", tok.String, enum.SerialName())
	}
	return idx, nil
}

// ---- tree materialization ----

func (s *streamDecoder) DecodeValue() (Value, error) {
	return s.decodeTree()
}

func (s *streamDecoder) decodeTree() (Value, error) {
	if s.forcedNull {
		s.forcedNull = false
		return Null{}, nil
	}
	tok, err := s.read()
	if err != nil {
		return nil, err
	}
	return s.buildValue(tok)
}

func (s *streamDecoder) buildValue(tok engine.Token) (Value, error) {
	switch tok.Kind {
	case engine.KindBeginObject:
		obj := NewObject()
		for {
			kt, err := s.read()
			if err != nil {
				return nil, err
			}
			if kt.Kind == engine.KindEndObject {
				return obj, nil
			}
			if kt.Kind != engine.KindKey {
				return nil, issuef(CodeMalformedInput, s.curPath(), kt.Offset, "expected object key")
			}
			vt, err := s.read()
			if err != nil {
				return nil, err
			}
			v, err := s.buildValue(vt)
			if err != nil {
				return nil, err
			}
			obj.Set(kt.String, v)
		}
	case engine.KindBeginArray:
		arr := Array{}
		for {
			et, err := s.read()
			if err != nil {
				return nil, err
			}
			if et.Kind == engine.KindEndArray {
				return arr, nil
			}
			v, err := s.buildValue(et)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case engine.KindString, engine.KindKey:
		return StringValue(tok.String), nil
	case engine.KindNumber:
		return NumberValue(tok.Number), nil
	case engine.KindBool:
		return BoolValue(tok.Bool), nil
	case engine.KindNull:
		return Null{}, nil
	default:
		return nil, issuef(CodeMalformedInput, s.curPath(), tok.Offset, "unexpected token")
	}
}
