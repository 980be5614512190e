// Package engine defines the structural token stream shared by the JSON
// grammar reader and the enforcement layer, independent of the public API.
package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "'{'"
	case KindEndObject:
		return "'}'"
	case KindBeginArray:
		return "'['"
	case KindEndArray:
		return "']'"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "token(?)"
	}
}

// Token represents a streaming token with its input byte offset.
type Token struct {
	Kind   Kind
	String string // key/string content
	Number string // numeral text; interpretation is the consumer's concern
	Bool   bool
	Offset int64 // -1 when unknown
}

// TokenSource is the minimal interface the decode machinery requires.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}
