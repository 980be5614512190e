package goserde

import (
	"math"
	"strconv"

	"github.com/goserde/goserde/internal/text"
)

type eshape int

const (
	eRoot eshape = iota
	eObject
	eList
	eMap
	ePolyObject
)

// streamEncoder drives a text.Writer from the codec protocol. Object member
// names are buffered rather than written eagerly so that a null member can be
// dropped in full when explicit nulls are off.
type streamEncoder struct {
	w      *text.Writer
	cfg    Config
	shape  eshape
	parent *streamEncoder
	tag    string

	pendingKey string
	hasKey     bool
	keyPos     bool // map cursor is on a key
	idx        int

	payloadNext bool // object polymorphism: next structure inlines
	inline      bool // this structure shares its parent's braces
}

func newStreamEncoder(cfg Config) *streamEncoder {
	return &streamEncoder{w: text.NewWriter(cfg.PrettyPrint, cfg.Indent), cfg: cfg, shape: eRoot}
}

func (s *streamEncoder) structPath() string {
	if s.parent == nil {
		return ""
	}
	p := s.parent.structPath()
	if s.tag == "" {
		return p
	}
	return p + "/" + jsonPointerEscape.Replace(s.tag)
}

func (s *streamEncoder) curPath() string {
	base := s.structPath()
	if s.hasKey {
		return base + "/" + jsonPointerEscape.Replace(s.pendingKey)
	}
	if base == "" {
		return "/"
	}
	return base
}

func (s *streamEncoder) failf(code, format string, args ...any) error {
	return issuef(code, s.curPath(), -1, format, args...)
}

// ---- element addressing ----

func (s *streamEncoder) EncodeElement(d Descriptor, i int) error {
	switch s.shape {
	case eObject:
		s.pendingKey = serializedElementName(d, i, s.cfg)
		s.hasKey = true
	case eMap:
		s.keyPos = i%2 == 0
	case ePolyObject:
		switch i {
		case 0:
			s.pendingKey = s.cfg.ClassDiscriminator
			s.hasKey = true
			s.payloadNext = false
		case 1:
			s.hasKey = false
			s.payloadNext = true
		}
	}
	s.idx = i
	return nil
}

// ---- structure nesting ----

func (s *streamEncoder) BeginStructure(d Descriptor) (Encoder, error) {
	if s.shape == ePolyObject && s.payloadNext {
		return s.beginInlinePayload(d)
	}
	if s.keyPos {
		return nil, s.failf(CodeUnexpectedStructure,
			"structure %s cannot be a map key", d.SerialName())
	}
	child := &streamEncoder{w: s.w, cfg: s.cfg, parent: s, tag: s.childTag()}
	s.flushKey()
	switch d.Kind() {
	case KindList:
		s.w.BeginArray()
		child.shape = eList
	case KindMap:
		s.w.BeginObject()
		child.shape = eMap
	case KindPolymorphic:
		if s.cfg.UseArrayPolymorphism {
			s.w.BeginArray()
			child.shape = eList
		} else {
			s.w.BeginObject()
			child.shape = ePolyObject
		}
	default:
		s.w.BeginObject()
		child.shape = eObject
	}
	return child, nil
}

// beginInlinePayload opens the payload of an object-polymorphic value inside
// the already-open discriminated object.
func (s *streamEncoder) beginInlinePayload(d Descriptor) (Encoder, error) {
	s.payloadNext = false
	child := &streamEncoder{w: s.w, cfg: s.cfg, parent: s, inline: true}
	switch d.Kind() {
	case KindList:
		return nil, s.failf(CodeUnexpectedStructure,
			"array-shaped payload %s cannot carry a class discriminator; use array polymorphism",
			d.SerialName())
	case KindMap:
		child.shape = eMap
	default:
		child.shape = eObject
	}
	return child, nil
}

func (s *streamEncoder) EndStructure(Descriptor) error {
	if s.inline {
		return nil
	}
	switch s.shape {
	case eObject, eMap, ePolyObject:
		s.w.EndObject()
	case eList:
		s.w.EndArray()
	}
	return nil
}

func (s *streamEncoder) childTag() string {
	switch s.shape {
	case eObject, eMap, ePolyObject:
		return s.pendingKey
	case eList:
		return strconv.Itoa(s.idx)
	default:
		return ""
	}
}

func (s *streamEncoder) flushKey() {
	if s.hasKey {
		s.w.Key(s.pendingKey)
		s.hasKey = false
	}
}

// scalar writes one rendered primitive, routing map keys into the buffered
// key slot.
func (s *streamEncoder) scalar(write func(), keyText string) error {
	if s.keyPos {
		s.pendingKey = keyText
		s.hasKey = true
		s.keyPos = false
		return nil
	}
	s.flushKey()
	write()
	return nil
}

// ---- primitives ----

func (s *streamEncoder) EncodeNull() error {
	if s.keyPos {
		s.pendingKey = "null"
		s.hasKey = true
		s.keyPos = false
		return nil
	}
	if !s.cfg.ExplicitNulls && (s.shape == eObject || s.shape == eMap || s.shape == ePolyObject) {
		// Drop the whole member, key included.
		s.hasKey = false
		return nil
	}
	s.flushKey()
	s.w.Null()
	return nil
}

func (s *streamEncoder) EncodeBool(v bool) error {
	return s.scalar(func() { s.w.Bool(v) }, strconv.FormatBool(v))
}

func (s *streamEncoder) encodeInt(v int64) error {
	t := strconv.FormatInt(v, 10)
	return s.scalar(func() { s.w.Number(t) }, t)
}

func (s *streamEncoder) EncodeInt8(v int8) error   { return s.encodeInt(int64(v)) }
func (s *streamEncoder) EncodeInt16(v int16) error { return s.encodeInt(int64(v)) }
func (s *streamEncoder) EncodeInt32(v int32) error { return s.encodeInt(int64(v)) }
func (s *streamEncoder) EncodeInt64(v int64) error { return s.encodeInt(v) }

func (s *streamEncoder) encodeFloat(f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if !s.cfg.AllowSpecialFloats {
			return s.failf(CodeTypeMismatch,
				"non-finite value %s cannot be written; enable AllowSpecialFloats",
				strconv.FormatFloat(f, 'g', -1, bits))
		}
		var t string
		switch {
		case math.IsNaN(f):
			t = "NaN"
		case f > 0:
			t = "Infinity"
		default:
			t = "-Infinity"
		}
		return s.scalar(func() { s.w.Number(t) }, t)
	}
	t := text.FormatFloat(f, bits)
	return s.scalar(func() { s.w.Number(t) }, t)
}

func (s *streamEncoder) EncodeFloat32(v float32) error { return s.encodeFloat(float64(v), 32) }
func (s *streamEncoder) EncodeFloat64(v float64) error { return s.encodeFloat(v, 64) }

func (s *streamEncoder) EncodeChar(v rune) error {
	t := string(v)
	return s.scalar(func() { s.w.String(t) }, t)
}

func (s *streamEncoder) EncodeString(v string) error {
	return s.scalar(func() { s.w.String(v) }, v)
}

func (s *streamEncoder) EncodeEnum(enum Descriptor, index int) error {
	if index < 0 || index >= enum.NumElements() {
		return s.failf(CodeUnknownEnumValue,
			"index %d is not an entry of %s", index, enum.SerialName())
	}
	name := enum.ElementName(index)
	return s.scalar(func() { s.w.String(name) }, name)
}

// EncodeValue writes a JSON tree verbatim. Primitive content is trusted as
// written, so trees built through the Value constructors round-trip exactly.
func (s *streamEncoder) EncodeValue(v Value) error {
	if s.keyPos {
		p, ok := v.(Primitive)
		if !ok {
			return s.failf(CodeUnexpectedStructure, "map key must be a primitive value")
		}
		s.pendingKey = p.Content
		s.hasKey = true
		s.keyPos = false
		return nil
	}
	s.flushKey()
	writeTree(s.w, v)
	return nil
}

func writeTree(w *text.Writer, v Value) {
	switch t := v.(type) {
	case Null:
		w.Null()
	case Primitive:
		if t.IsString {
			w.String(t.Content)
		} else {
			w.Number(t.Content)
		}
	case Array:
		w.BeginArray()
		for _, e := range t {
			writeTree(w, e)
		}
		w.EndArray()
	case *Object:
		w.BeginObject()
		t.Range(func(key string, e Value) bool {
			w.Key(key)
			writeTree(w, e)
			return true
		})
		w.EndObject()
	}
}
