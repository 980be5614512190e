package goserde

// Kind classifies the serialized shape a Descriptor describes.
type Kind int

const (
	// Scalar kinds for leaves.
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	// Structure kinds.
	KindClass  // fixed set of named elements
	KindObject // singleton; no elements
	KindList
	KindMap
	KindEnum
	KindContextual
	KindPolymorphic
)

// IsPrimitive reports whether the kind describes a scalar leaf.
func (k Kind) IsPrimitive() bool { return k >= KindBool && k <= KindString }

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "BOOL"
	case KindInt8:
		return "INT8"
	case KindInt16:
		return "INT16"
	case KindInt32:
		return "INT32"
	case KindInt64:
		return "INT64"
	case KindFloat32:
		return "FLOAT32"
	case KindFloat64:
		return "FLOAT64"
	case KindChar:
		return "CHAR"
	case KindString:
		return "STRING"
	case KindClass:
		return "CLASS"
	case KindObject:
		return "OBJECT"
	case KindList:
		return "LIST"
	case KindMap:
		return "MAP"
	case KindEnum:
		return "ENUM"
	case KindContextual:
		return "CONTEXTUAL"
	case KindPolymorphic:
		return "POLYMORPHIC"
	default:
		return "KIND(?)"
	}
}
