package goserde

// DecodeDone is returned by DecodeElementIndex when the descriptor's elements
// are exhausted for the current structure.
const DecodeDone = -1

// Serializer pairs a descriptor with the encode/decode callbacks that drive
// the protocol for one concrete type. The engine never needs to know how the
// pair was produced (hand-written, combinator-built, or generated).
type Serializer[T any] interface {
	Descriptor() Descriptor
	Serialize(enc Encoder, v T) error
	Deserialize(dec Decoder) (T, error)
}

// Decoder is the pull side of the structural codec protocol. A deserializer
// opens nested structures with BeginStructure, iterates elements with
// DecodeElementIndex, and reads primitives with the tagged decode calls. Each
// Decoder owns its cursor exclusively; nested structures get independent
// decoders and must not be interleaved with their parent.
type Decoder interface {
	// DecodeElementIndex scans forward through d's elements from the cursor
	// position and returns the index of the next element present in the
	// source (or forced to an implicit null by the coercion policy).
	// It returns DecodeDone when the structure is exhausted; unknown extra
	// fields in the source are skipped, not reported.
	DecodeElementIndex(d Descriptor) (int, error)

	// BeginStructure opens a nested decoder scoped to d's kind: LIST produces
	// an integer-tagged sequence decoder, MAP a key/value alternating
	// decoder, POLYMORPHIC an array- or object-polymorphic decoder depending
	// on configuration, and everything else an object-shaped decoder.
	BeginStructure(d Descriptor) (Decoder, error)
	EndStructure(d Descriptor) error

	// DecodeNotNullMark reports whether the value at the cursor is non-null
	// without consuming it. DecodeNull consumes an (explicit or synthesized)
	// null.
	DecodeNotNullMark() (bool, error)
	DecodeNull() error

	DecodeBool() (bool, error)
	DecodeInt8() (int8, error)
	DecodeInt16() (int16, error)
	DecodeInt32() (int32, error)
	// DecodeInt64 enforces the JSON safe-integer bound: the source numeral
	// must be finite, integral, and within ±(2^53-1).
	DecodeInt64() (int64, error)
	DecodeFloat32() (float32, error)
	DecodeFloat64() (float64, error)
	// DecodeChar accepts a single-character string or a numeric code point.
	DecodeChar() (rune, error)
	DecodeString() (string, error)

	// DecodeEnum resolves the source string to an entry index of the enum
	// descriptor using primary and alternate names.
	DecodeEnum(enum Descriptor) (int, error)

	// DecodeValue materializes the value at the cursor as a JSON tree. Used
	// when the target type is "any JSON value" rather than a concrete shape.
	DecodeValue() (Value, error)
}

// Encoder is the push side of the protocol, mirroring Decoder. EncodeElement
// precedes each tagged encode call; encoders never skip elements on their own
// — omission (e.g. of default values) is the caller's decision before the
// encode call is made.
type Encoder interface {
	BeginStructure(d Descriptor) (Encoder, error)
	EndStructure(d Descriptor) error

	// EncodeElement addresses element i of d for the next encode call.
	EncodeElement(d Descriptor, i int) error

	EncodeNull() error
	EncodeBool(v bool) error
	EncodeInt8(v int8) error
	EncodeInt16(v int16) error
	EncodeInt32(v int32) error
	EncodeInt64(v int64) error
	EncodeFloat32(v float32) error
	EncodeFloat64(v float64) error
	EncodeChar(v rune) error
	EncodeString(v string) error
	EncodeEnum(enum Descriptor, index int) error
	EncodeValue(v Value) error
}
