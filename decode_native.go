package goserde

import (
	"encoding/json"
	"sort"
	"strconv"
)

// The dynamic tree adapter decodes a pre-existing untyped object graph
// through the same codec protocol as the text engine. Presence is tested by
// key lookup rather than token scanning, so unknown keys are never even
// visited. Nodes are observed through a small capability surface (classify /
// keys / get / length / item) instead of host reflection.

type nodeKind int

const (
	nodeNull nodeKind = iota
	nodeBool
	nodeNumber
	nodeText
	nodeSeq
	nodeMap
	nodeOther
)

func classifyNode(v any) nodeKind {
	switch t := v.(type) {
	case nil, Null:
		return nodeNull
	case bool:
		return nodeBool
	case string:
		return nodeText
	case json.Number, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return nodeNumber
	case []any, Array:
		return nodeSeq
	case map[string]any, *Object:
		return nodeMap
	case Primitive:
		if t.IsString {
			return nodeText
		}
		return nodeNumber
	default:
		return nodeOther
	}
}

// mappingKeys returns the keys of a mapping node: insertion order for tree
// objects, sorted for Go maps (which have no intrinsic order).
func mappingKeys(v any) []string {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case *Object:
		return t.Keys()
	default:
		return nil
	}
}

func mappingGet(v any, key string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		val, ok := t[key]
		return val, ok
	case *Object:
		val, ok := t.Get(key)
		return val, ok
	default:
		return nil, false
	}
}

func seqLen(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case Array:
		return len(t)
	default:
		return 0
	}
}

func seqAt(v any, i int) any {
	switch t := v.(type) {
	case []any:
		return t[i]
	case Array:
		return t[i]
	default:
		return nil
	}
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Primitive:
		return t.Content
	default:
		return ""
	}
}

func boolOf(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case Primitive:
		if t.IsString {
			return false, false
		}
		b, err := strconv.ParseBool(t.Content)
		return b, err == nil
	default:
		return false, false
	}
}

// numberText renders a numeric node as numeral text for the shared exactness
// checks. Doubles stay doubles: int64FromFloat polices them separately.
func numberText(v any) (string, bool) {
	switch t := v.(type) {
	case json.Number:
		return string(t), false
	case Primitive:
		return t.Content, false
	case int:
		return strconv.FormatInt(int64(t), 10), false
	case int8:
		return strconv.FormatInt(int64(t), 10), false
	case int16:
		return strconv.FormatInt(int64(t), 10), false
	case int32:
		return strconv.FormatInt(int64(t), 10), false
	case int64:
		return strconv.FormatInt(t, 10), false
	case uint:
		return strconv.FormatUint(uint64(t), 10), false
	case uint8:
		return strconv.FormatUint(uint64(t), 10), false
	case uint16:
		return strconv.FormatUint(uint64(t), 10), false
	case uint32:
		return strconv.FormatUint(uint64(t), 10), false
	case uint64:
		return strconv.FormatUint(t, 10), false
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return "", false
	}
}

type nshape int

const (
	nRoot nshape = iota
	nObject
	nList
	nMap
	nPolyList
	nPolyObject
)

type nativeDecoder struct {
	cfg   Config
	names *nameCache

	shape    nshape
	node     any // structure node; at nRoot the pending root value
	nodeSet  bool
	parent   *nativeDecoder
	tag      string
	basePath string // non-empty when this decoder was spawned mid-stream

	idx        int
	curTag     string
	cur        any
	curSet     bool
	forcedNull bool
	keyMode    bool
	keyText    string

	keys    []string // nMap
	skipKey string   // discriminator key exempt from unknown-key checks
}

func (s *nativeDecoder) structPath() string {
	var p string
	if s.parent != nil {
		p = s.parent.structPath()
	} else {
		p = s.basePath
	}
	if s.tag == "" {
		return p
	}
	return p + "/" + jsonPointerEscape.Replace(s.tag)
}

func (s *nativeDecoder) curPath() string {
	base := s.structPath()
	if s.curTag != "" {
		return base + "/" + jsonPointerEscape.Replace(s.curTag)
	}
	if base == "" {
		return "/"
	}
	return base
}

func (s *nativeDecoder) failf(code, format string, args ...any) error {
	return issuef(code, s.curPath(), -1, format, args...)
}

// pending returns the value currently addressed by the cursor.
func (s *nativeDecoder) pending() (any, error) {
	if s.forcedNull {
		return nil, s.failf(CodeTypeMismatch, "synthesized null has no value")
	}
	if s.shape == nRoot {
		return s.node, nil
	}
	if !s.curSet {
		return nil, s.failf(CodeUnexpectedStructure, "no element is addressed; call DecodeElementIndex first")
	}
	return s.cur, nil
}

// ---- element traversal ----

func (s *nativeDecoder) DecodeElementIndex(d Descriptor) (int, error) {
	switch s.shape {
	case nObject:
		return s.objectElementIndex(d)
	case nList:
		if s.idx >= seqLen(s.node) {
			return DecodeDone, nil
		}
		i := s.idx
		s.idx++
		s.setCurrent(strconv.Itoa(i), seqAt(s.node, i))
		return i, nil
	case nMap:
		if s.idx >= 2*len(s.keys) {
			return DecodeDone, nil
		}
		i := s.idx
		s.idx++
		key := s.keys[i/2]
		if i%2 == 0 {
			s.curTag = key
			s.keyMode = true
			s.keyText = key
			s.curSet = true
			return i, nil
		}
		s.keyMode = false
		v, _ := mappingGet(s.node, key)
		s.setCurrent(key, v)
		return i, nil
	case nPolyList:
		if s.idx >= 2 || s.idx >= seqLen(s.node) {
			return DecodeDone, nil
		}
		i := s.idx
		s.idx++
		s.setCurrent(strconv.Itoa(i), seqAt(s.node, i))
		return i, nil
	case nPolyObject:
		switch s.idx {
		case 0:
			s.idx++
			tag, ok := mappingGet(s.node, s.cfg.ClassDiscriminator)
			if !ok {
				return 0, s.failf(CodeMissingValue,
					"class discriminator %q is missing", s.cfg.ClassDiscriminator)
			}
			s.setCurrent(s.cfg.ClassDiscriminator, tag)
			return 0, nil
		case 1:
			s.idx++
			s.setCurrent("", s.node)
			return 1, nil
		default:
			return DecodeDone, nil
		}
	default:
		return 0, s.failf(CodeUnexpectedStructure, "DecodeElementIndex requires an open structure")
	}
}

func (s *nativeDecoder) setCurrent(tag string, v any) {
	s.curTag = tag
	s.cur = v
	s.curSet = true
	s.keyMode = false
}

func (s *nativeDecoder) objectElementIndex(d Descriptor) (int, error) {
	n := d.NumElements()
	for s.idx < n {
		i := s.idx
		name, v, ok := s.lookupElement(d, i)
		if ok {
			if s.cfg.CoerceInputValues && d.IsElementOptional(i) && s.coercible(d, i, v) {
				s.idx++
				continue
			}
			s.idx++
			s.setCurrent(name, v)
			return i, nil
		}
		if !s.cfg.ExplicitNulls && !d.IsElementOptional(i) && d.ElementDescriptor(i).IsNullable() {
			s.idx++
			s.forcedNull = true
			s.curTag = name
			return i, nil
		}
		s.idx++
	}
	return DecodeDone, nil
}

// lookupElement probes the mapping under the element's serialized name, then
// its alternates.
func (s *nativeDecoder) lookupElement(d Descriptor, i int) (string, any, bool) {
	name := serializedElementName(d, i, s.cfg)
	if v, ok := mappingGet(s.node, name); ok {
		return name, v, true
	}
	if s.cfg.UseAlternativeNames {
		for _, alt := range AlternateNames(d.ElementAnnotations(i)) {
			if v, ok := mappingGet(s.node, alt); ok {
				return alt, v, true
			}
		}
	}
	return name, nil, false
}

func (s *nativeDecoder) coercible(d Descriptor, i int, v any) bool {
	elem := d.ElementDescriptor(i)
	switch classifyNode(v) {
	case nodeNull:
		return !elem.IsNullable()
	case nodeText:
		return elem.Kind() == KindEnum && resolveEnumIndex(elem, textOf(v), s.cfg) < 0
	}
	return false
}

// ---- structure nesting ----

func (s *nativeDecoder) BeginStructure(d Descriptor) (Decoder, error) {
	v, err := s.pending()
	if err != nil {
		return nil, err
	}
	child := &nativeDecoder{cfg: s.cfg, names: s.names, node: v, parent: s, tag: s.curTag}
	if s.parent == nil && s.tag == "" {
		child.basePath = s.basePath
		child.parent = nil
	}
	if s.shape == nPolyObject {
		child.skipKey = s.cfg.ClassDiscriminator
	}
	kind := classifyNode(v)
	switch d.Kind() {
	case KindList:
		if kind != nodeSeq {
			return nil, s.failf(CodeUnexpectedStructure,
				"expected array for %s, found %s", d.SerialName(), nodeKindName(kind))
		}
		child.shape = nList
	case KindMap:
		if kind != nodeMap {
			return nil, s.failf(CodeUnexpectedStructure,
				"expected object for %s, found %s", d.SerialName(), nodeKindName(kind))
		}
		child.shape = nMap
		child.keys = mappingKeys(v)
	case KindPolymorphic:
		if s.cfg.UseArrayPolymorphism {
			if kind != nodeSeq {
				return nil, s.failf(CodeUnexpectedStructure,
					"expected [type, payload] array for %s, found %s", d.SerialName(), nodeKindName(kind))
			}
			child.shape = nPolyList
		} else {
			if kind != nodeMap {
				return nil, s.failf(CodeUnexpectedStructure,
					"expected discriminated object for %s, found %s", d.SerialName(), nodeKindName(kind))
			}
			child.shape = nPolyObject
		}
	default:
		if kind != nodeMap {
			return nil, s.failf(CodeUnexpectedStructure,
				"expected object for %s, found %s", d.SerialName(), nodeKindName(kind))
		}
		child.shape = nObject
	}
	return child, nil
}

// EndStructure checks for unknown keys when the policy demands it; a tree
// object is only scanned once the elements have been consumed, since presence
// testing never visits keys on its own.
func (s *nativeDecoder) EndStructure(d Descriptor) error {
	if s.shape != nObject || s.cfg.IgnoreUnknownKeys {
		return nil
	}
	m, err := s.names.mapFor(d)
	if err != nil {
		return err
	}
	for _, key := range mappingKeys(s.node) {
		if key == s.skipKey {
			continue
		}
		if _, ok := m[key]; !ok {
			return issuef(CodeUnknownKey,
				s.structPath()+"/"+jsonPointerEscape.Replace(key), -1,
				"unknown key %q in %s", key, d.SerialName())
		}
	}
	return nil
}

func nodeKindName(k nodeKind) string {
	switch k {
	case nodeNull:
		return "null"
	case nodeBool:
		return "boolean"
	case nodeNumber:
		return "number"
	case nodeText:
		return "string"
	case nodeSeq:
		return "array"
	case nodeMap:
		return "object"
	default:
		return "unsupported value"
	}
}

// ---- scalar reads ----

func (s *nativeDecoder) mismatch(v any, want string) error {
	return s.failf(CodeTypeMismatch, "expected %s, found %s", want, nodeKindName(classifyNode(v)))
}

func (s *nativeDecoder) wrapConv(cerr *convErr) error {
	return s.failf(cerr.code, "%s", cerr.msg)
}

func (s *nativeDecoder) DecodeNotNullMark() (bool, error) {
	if s.forcedNull {
		return false, nil
	}
	v, err := s.pending()
	if err != nil {
		return false, err
	}
	return classifyNode(v) != nodeNull, nil
}

func (s *nativeDecoder) DecodeNull() error {
	if s.forcedNull {
		s.forcedNull = false
		return nil
	}
	v, err := s.pending()
	if err != nil {
		return err
	}
	if classifyNode(v) != nodeNull {
		return s.mismatch(v, "null")
	}
	return nil
}

func (s *nativeDecoder) DecodeBool() (bool, error) {
	if s.keyMode {
		b, err := strconv.ParseBool(s.keyText)
		if err != nil {
			return false, s.failf(CodeTypeMismatch, "map key %q is not a boolean", s.keyText)
		}
		return b, nil
	}
	v, err := s.pending()
	if err != nil {
		return false, err
	}
	if b, ok := boolOf(v); ok {
		return b, nil
	}
	if s.cfg.Lenient && classifyNode(v) == nodeText {
		if b, perr := strconv.ParseBool(textOf(v)); perr == nil {
			return b, nil
		}
	}
	return false, s.mismatch(v, "boolean")
}

func (s *nativeDecoder) decodeInt64() (int64, error) {
	if s.keyMode {
		v, cerr := int64FromText(s.keyText)
		if cerr != nil {
			if cerr.code == CodeTypeMismatch {
				return 0, s.failf(CodeTypeMismatch, "map key %q is not a number", s.keyText)
			}
			return 0, s.wrapConv(cerr)
		}
		return v, nil
	}
	v, err := s.pending()
	if err != nil {
		return 0, err
	}
	switch classifyNode(v) {
	case nodeNumber:
		text, isFloat := numberText(v)
		if isFloat {
			f, _ := strconv.ParseFloat(text, 64)
			n, cerr := int64FromFloat(f)
			if cerr != nil {
				return 0, s.wrapConv(cerr)
			}
			return n, nil
		}
		n, cerr := int64FromText(text)
		if cerr != nil {
			return 0, s.wrapConv(cerr)
		}
		return n, nil
	case nodeText:
		if s.cfg.Lenient {
			n, cerr := int64FromText(textOf(v))
			if cerr != nil {
				return 0, s.wrapConv(cerr)
			}
			return n, nil
		}
	}
	return 0, s.mismatch(v, "number")
}

func (s *nativeDecoder) DecodeInt64() (int64, error) { return s.decodeInt64() }

func (s *nativeDecoder) DecodeInt8() (int8, error) {
	v, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -128, 127, "int8")
	if cerr != nil {
		return 0, s.wrapConv(cerr)
	}
	return int8(n), nil
}

func (s *nativeDecoder) DecodeInt16() (int16, error) {
	v, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -32768, 32767, "int16")
	if cerr != nil {
		return 0, s.wrapConv(cerr)
	}
	return int16(n), nil
}

func (s *nativeDecoder) DecodeInt32() (int32, error) {
	v, err := s.decodeInt64()
	if err != nil {
		return 0, err
	}
	n, cerr := narrowInt(v, -2147483648, 2147483647, "int32")
	if cerr != nil {
		return 0, s.wrapConv(cerr)
	}
	return int32(n), nil
}

func (s *nativeDecoder) DecodeFloat64() (float64, error) {
	if s.keyMode {
		f, cerr := float64FromText(s.keyText)
		if cerr != nil {
			return 0, s.failf(CodeTypeMismatch, "map key %q is not a number", s.keyText)
		}
		return f, nil
	}
	v, err := s.pending()
	if err != nil {
		return 0, err
	}
	switch classifyNode(v) {
	case nodeNumber:
		text, _ := numberText(v)
		f, cerr := float64FromText(text)
		if cerr != nil {
			return 0, s.wrapConv(cerr)
		}
		return f, nil
	case nodeText:
		if s.cfg.Lenient {
			f, cerr := float64FromText(textOf(v))
			if cerr != nil {
				return 0, s.wrapConv(cerr)
			}
			return f, nil
		}
	}
	return 0, s.mismatch(v, "number")
}

func (s *nativeDecoder) DecodeFloat32() (float32, error) {
	f, err := s.DecodeFloat64()
	return float32(f), err
}

func (s *nativeDecoder) DecodeChar() (rune, error) {
	if s.keyMode {
		r, cerr := charFromText(s.keyText)
		if cerr != nil {
			return 0, s.wrapConv(cerr)
		}
		return r, nil
	}
	v, err := s.pending()
	if err != nil {
		return 0, err
	}
	var cerr *convErr
	var r rune
	switch classifyNode(v) {
	case nodeText:
		r, cerr = charFromText(textOf(v))
	case nodeNumber:
		text, _ := numberText(v)
		r, cerr = charFromCode(text)
	default:
		return 0, s.mismatch(v, "character")
	}
	if cerr != nil {
		return 0, s.wrapConv(cerr)
	}
	return r, nil
}

func (s *nativeDecoder) DecodeString() (string, error) {
	if s.keyMode {
		return s.keyText, nil
	}
	v, err := s.pending()
	if err != nil {
		return "", err
	}
	switch classifyNode(v) {
	case nodeText:
		return textOf(v), nil
	case nodeNumber:
		if s.cfg.Lenient {
			text, _ := numberText(v)
			return text, nil
		}
	case nodeBool:
		if s.cfg.Lenient {
			b, _ := boolOf(v)
			return strconv.FormatBool(b), nil
		}
	}
	return "", s.mismatch(v, "string")
}

func (s *nativeDecoder) DecodeEnum(enum Descriptor) (int, error) {
	var name string
	if s.keyMode {
		name = s.keyText
	} else {
		v, err := s.pending()
		if err != nil {
			return 0, err
		}
		if classifyNode(v) != nodeText {
			return 0, s.mismatch(v, "enum string")
		}
		name = textOf(v)
	}
	idx := resolveEnumIndex(enum, name, s.cfg)
	if idx < 0 {
		return 0, issuef(CodeUnknownEnumValue, s.curPath(), -1,
			"%q is not an entry of %s", name, enum.SerialName())
	}
	return idx, nil
}

// DecodeValue materializes the addressed sub-value as a JSON tree,
// recursively re-entering the adapter on children.
func (s *nativeDecoder) DecodeValue() (Value, error) {
	if s.forcedNull {
		s.forcedNull = false
		return Null{}, nil
	}
	if s.keyMode {
		return StringValue(s.keyText), nil
	}
	v, err := s.pending()
	if err != nil {
		return nil, err
	}
	return s.toValue(v)
}

func (s *nativeDecoder) toValue(v any) (Value, error) {
	switch classifyNode(v) {
	case nodeNull:
		return Null{}, nil
	case nodeBool:
		b, _ := boolOf(v)
		return BoolValue(b), nil
	case nodeText:
		return StringValue(textOf(v)), nil
	case nodeNumber:
		text, _ := numberText(v)
		return NumberValue(text), nil
	case nodeSeq:
		if arr, ok := v.(Array); ok {
			return arr, nil
		}
		n := seqLen(v)
		out := make(Array, 0, n)
		for i := 0; i < n; i++ {
			cv, err := s.toValue(seqAt(v, i))
			if err != nil {
				return nil, err
			}
			out = append(out, cv)
		}
		return out, nil
	case nodeMap:
		if obj, ok := v.(*Object); ok {
			return obj, nil
		}
		obj := NewObject()
		for _, k := range mappingKeys(v) {
			cv, ok := mappingGet(v, k)
			if !ok {
				continue
			}
			tv, err := s.toValue(cv)
			if err != nil {
				return nil, err
			}
			obj.Set(k, tv)
		}
		return obj, nil
	default:
		return nil, s.failf(CodeTypeMismatch, "unsupported native value %T", v)
	}
}
