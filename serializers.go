package goserde

// Builtin serializers for primitives, pointers-as-nullable, slices, maps,
// enums, dynamic values, and open polymorphism. Hand-written serializers for
// domain types compose these the same way the engine does: open a structure,
// address elements, delegate.

type boolSz struct{}

func (boolSz) Descriptor() Descriptor                 { return boolDesc }
func (boolSz) Serialize(enc Encoder, v bool) error    { return enc.EncodeBool(v) }
func (boolSz) Deserialize(dec Decoder) (bool, error)  { return dec.DecodeBool() }

type int8Sz struct{}

func (int8Sz) Descriptor() Descriptor                { return int8Desc }
func (int8Sz) Serialize(enc Encoder, v int8) error   { return enc.EncodeInt8(v) }
func (int8Sz) Deserialize(dec Decoder) (int8, error) { return dec.DecodeInt8() }

type int16Sz struct{}

func (int16Sz) Descriptor() Descriptor                 { return int16Desc }
func (int16Sz) Serialize(enc Encoder, v int16) error   { return enc.EncodeInt16(v) }
func (int16Sz) Deserialize(dec Decoder) (int16, error) { return dec.DecodeInt16() }

type int32Sz struct{}

func (int32Sz) Descriptor() Descriptor                 { return int32Desc }
func (int32Sz) Serialize(enc Encoder, v int32) error   { return enc.EncodeInt32(v) }
func (int32Sz) Deserialize(dec Decoder) (int32, error) { return dec.DecodeInt32() }

type int64Sz struct{}

func (int64Sz) Descriptor() Descriptor                 { return int64Desc }
func (int64Sz) Serialize(enc Encoder, v int64) error   { return enc.EncodeInt64(v) }
func (int64Sz) Deserialize(dec Decoder) (int64, error) { return dec.DecodeInt64() }

type float32Sz struct{}

func (float32Sz) Descriptor() Descriptor                   { return float32Desc }
func (float32Sz) Serialize(enc Encoder, v float32) error   { return enc.EncodeFloat32(v) }
func (float32Sz) Deserialize(dec Decoder) (float32, error) { return dec.DecodeFloat32() }

type float64Sz struct{}

func (float64Sz) Descriptor() Descriptor                   { return float64Desc }
func (float64Sz) Serialize(enc Encoder, v float64) error   { return enc.EncodeFloat64(v) }
func (float64Sz) Deserialize(dec Decoder) (float64, error) { return dec.DecodeFloat64() }

type charSz struct{}

func (charSz) Descriptor() Descriptor                { return charDesc }
func (charSz) Serialize(enc Encoder, v rune) error   { return enc.EncodeChar(v) }
func (charSz) Deserialize(dec Decoder) (rune, error) { return dec.DecodeChar() }

type stringSz struct{}

func (stringSz) Descriptor() Descriptor                  { return stringDesc }
func (stringSz) Serialize(enc Encoder, v string) error   { return enc.EncodeString(v) }
func (stringSz) Deserialize(dec Decoder) (string, error) { return dec.DecodeString() }

func BoolSerializer() Serializer[bool]       { return boolSz{} }
func Int8Serializer() Serializer[int8]       { return int8Sz{} }
func Int16Serializer() Serializer[int16]     { return int16Sz{} }
func Int32Serializer() Serializer[int32]     { return int32Sz{} }
func Int64Serializer() Serializer[int64]     { return int64Sz{} }
func Float32Serializer() Serializer[float32] { return float32Sz{} }
func Float64Serializer() Serializer[float64] { return float64Sz{} }
func CharSerializer() Serializer[rune]       { return charSz{} }
func StringSerializer() Serializer[string]   { return stringSz{} }

// ---- nullable ----

type nullableSz[T any] struct {
	elem Serializer[T]
	desc Descriptor
}

// Nullable adapts a serializer of T to one of *T where nil means null.
func Nullable[T any](elem Serializer[T]) Serializer[*T] {
	return nullableSz[T]{elem: elem, desc: NullableOf(elem.Descriptor())}
}

func (s nullableSz[T]) Descriptor() Descriptor { return s.desc }

func (s nullableSz[T]) Serialize(enc Encoder, v *T) error {
	if v == nil {
		return enc.EncodeNull()
	}
	return s.elem.Serialize(enc, *v)
}

func (s nullableSz[T]) Deserialize(dec Decoder) (*T, error) {
	notNull, err := dec.DecodeNotNullMark()
	if err != nil {
		return nil, err
	}
	if !notNull {
		return nil, dec.DecodeNull()
	}
	v, err := s.elem.Deserialize(dec)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ---- slice ----

type sliceSz[E any] struct {
	elem Serializer[E]
	desc Descriptor
}

// SliceSerializer builds a serializer for []E encoded as a JSON array. A nil
// slice encodes as an empty array; use Nullable for slice-or-null.
func SliceSerializer[E any](elem Serializer[E]) Serializer[[]E] {
	return sliceSz[E]{elem: elem, desc: ListDescriptor(elem.Descriptor())}
}

func (s sliceSz[E]) Descriptor() Descriptor { return s.desc }

func (s sliceSz[E]) Serialize(enc Encoder, v []E) error {
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	for i, e := range v {
		if err := sub.EncodeElement(s.desc, i); err != nil {
			return err
		}
		if err := s.elem.Serialize(sub, e); err != nil {
			return err
		}
	}
	return sub.EndStructure(s.desc)
}

func (s sliceSz[E]) Deserialize(dec Decoder) ([]E, error) {
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return nil, err
	}
	out := []E{}
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return nil, err
		}
		if i == DecodeDone {
			break
		}
		e, err := s.elem.Deserialize(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, sub.EndStructure(s.desc)
}

// ---- map ----

type mapSz[K comparable, V any] struct {
	key   Serializer[K]
	value Serializer[V]
	desc  Descriptor
}

// MapSerializer builds a serializer for map[K]V encoded as a JSON object.
// Non-string keys travel through their string form; encode order follows Go
// map iteration.
func MapSerializer[K comparable, V any](key Serializer[K], value Serializer[V]) Serializer[map[K]V] {
	return mapSz[K, V]{key: key, value: value, desc: MapDescriptor(key.Descriptor(), value.Descriptor())}
}

func (s mapSz[K, V]) Descriptor() Descriptor { return s.desc }

func (s mapSz[K, V]) Serialize(enc Encoder, v map[K]V) error {
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	i := 0
	for k, val := range v {
		if err := sub.EncodeElement(s.desc, 2*i); err != nil {
			return err
		}
		if err := s.key.Serialize(sub, k); err != nil {
			return err
		}
		if err := sub.EncodeElement(s.desc, 2*i+1); err != nil {
			return err
		}
		if err := s.value.Serialize(sub, val); err != nil {
			return err
		}
		i++
	}
	return sub.EndStructure(s.desc)
}

func (s mapSz[K, V]) Deserialize(dec Decoder) (map[K]V, error) {
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return nil, err
	}
	out := map[K]V{}
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return nil, err
		}
		if i == DecodeDone {
			break
		}
		k, err := s.key.Deserialize(sub)
		if err != nil {
			return nil, err
		}
		if _, err := sub.DecodeElementIndex(s.desc); err != nil {
			return nil, err
		}
		val, err := s.value.Deserialize(sub)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, sub.EndStructure(s.desc)
}

// ---- enum ----

type enumSz[T ~int] struct {
	desc Descriptor
}

// NewEnumSerializer pairs an int-backed enum type with its enum descriptor.
// The value is the entry index; the wire form is the entry name.
func NewEnumSerializer[T ~int](desc Descriptor) Serializer[T] {
	return enumSz[T]{desc: desc}
}

func (s enumSz[T]) Descriptor() Descriptor { return s.desc }

func (s enumSz[T]) Serialize(enc Encoder, v T) error {
	return enc.EncodeEnum(s.desc, int(v))
}

func (s enumSz[T]) Deserialize(dec Decoder) (T, error) {
	i, err := dec.DecodeEnum(s.desc)
	return T(i), err
}

// ---- dynamic value ----

var valueDesc Descriptor = &structDescriptor{name: "goserde.Value", kind: KindContextual}

type valueSz struct{}

// ValueSerializer passes JSON trees through unchanged.
func ValueSerializer() Serializer[Value] { return valueSz{} }

func (valueSz) Descriptor() Descriptor                 { return valueDesc }
func (valueSz) Serialize(enc Encoder, v Value) error   { return enc.EncodeValue(v) }
func (valueSz) Deserialize(dec Decoder) (Value, error) { return dec.DecodeValue() }

// ---- open polymorphism ----

type polySz[T any] struct {
	desc  Descriptor
	tagOf func(T) string
	subs  map[string]Serializer[T]
}

// NewPolymorphicSerializer builds an open polymorphic serializer: tagOf names
// the concrete subtype of a value, subs maps each tag to the serializer that
// handles it. The wire form is either {discriminator: tag, ...payload} or
// [tag, payload] depending on configuration.
func NewPolymorphicSerializer[T any](name string, tagOf func(T) string, subs map[string]Serializer[T]) (Serializer[T], error) {
	desc, err := NewDescriptor(name, KindPolymorphic,
		Element{Name: "type", Descriptor: stringDesc},
		Element{Name: "value", Descriptor: valueDesc},
	)
	if err != nil {
		return nil, err
	}
	return polySz[T]{desc: desc, tagOf: tagOf, subs: subs}, nil
}

func (s polySz[T]) Descriptor() Descriptor { return s.desc }

func (s polySz[T]) Serialize(enc Encoder, v T) error {
	tag := s.tagOf(v)
	sub, ok := s.subs[tag]
	if !ok {
		return issuef(CodeUnexpectedStructure, "", -1,
			"no subtype serializer registered under tag %q for %s", tag, s.desc.SerialName())
	}
	ps, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	if err := ps.EncodeElement(s.desc, 0); err != nil {
		return err
	}
	if err := ps.EncodeString(tag); err != nil {
		return err
	}
	if err := ps.EncodeElement(s.desc, 1); err != nil {
		return err
	}
	if err := sub.Serialize(ps, v); err != nil {
		return err
	}
	return ps.EndStructure(s.desc)
}

func (s polySz[T]) Deserialize(dec Decoder) (T, error) {
	var out T
	ps, err := dec.BeginStructure(s.desc)
	if err != nil {
		return out, err
	}
	var tag string
	var tagSet, valSet bool
	for {
		i, err := ps.DecodeElementIndex(s.desc)
		if err != nil {
			return out, err
		}
		if i == DecodeDone {
			break
		}
		switch i {
		case 0:
			tag, err = ps.DecodeString()
			if err != nil {
				return out, err
			}
			tagSet = true
		case 1:
			if !tagSet {
				return out, issuef(CodeMissingValue, "", -1,
					"type tag of %s must precede the payload", s.desc.SerialName())
			}
			sub, ok := s.subs[tag]
			if !ok {
				return out, issuef(CodeUnexpectedStructure, "", -1,
					"no subtype serializer registered under tag %q for %s", tag, s.desc.SerialName())
			}
			out, err = sub.Deserialize(ps)
			if err != nil {
				return out, err
			}
			valSet = true
		}
	}
	if err := ps.EndStructure(s.desc); err != nil {
		return out, err
	}
	if !valSet {
		return out, issuef(CodeMissingValue, "", -1,
			"%s has no payload", s.desc.SerialName())
	}
	return out, nil
}
