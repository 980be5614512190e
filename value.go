package goserde

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is the algebraic JSON tree: Null, Primitive, Array, or *Object.
type Value interface {
	isValue()
}

// Null is the JSON null value.
type Null struct{}

func (Null) isValue() {}

// Primitive is a JSON scalar. Numbers and booleans keep their textual
// content; IsString distinguishes "5" from 5.
type Primitive struct {
	Content  string
	IsString bool
}

func (Primitive) isValue() {}

// StringValue builds a string primitive.
func StringValue(s string) Primitive { return Primitive{Content: s, IsString: true} }

// BoolValue builds a boolean primitive.
func BoolValue(b bool) Primitive { return Primitive{Content: strconv.FormatBool(b)} }

// IntValue builds an integer numeric primitive.
func IntValue(v int64) Primitive { return Primitive{Content: strconv.FormatInt(v, 10)} }

// FloatValue builds a floating-point numeric primitive.
func FloatValue(v float64) Primitive {
	return Primitive{Content: strconv.FormatFloat(v, 'g', -1, 64)}
}

// NumberValue builds a numeric primitive from raw numeral text.
func NumberValue(text string) Primitive { return Primitive{Content: text} }

// Array is an ordered sequence of JSON values.
type Array []Value

func (Array) isValue() {}

// Object is an ordered string-keyed JSON object. Insertion order is
// preserved; writing an existing key replaces the value in place (last write
// wins, original position kept).
type Object struct {
	entries *orderedmap.OrderedMap[string, Value]
}

func (*Object) isValue() {}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{entries: orderedmap.New[string, Value]()}
}

// Set inserts or replaces a key.
func (o *Object) Set(key string, v Value) *Object {
	o.entries.Set(key, v)
	return o
}

// Get looks a key up.
func (o *Object) Get(key string) (Value, bool) {
	return o.entries.Get(key)
}

// Len returns the number of keys.
func (o *Object) Len() int { return o.entries.Len() }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.entries.Len())
	for pair := o.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range visits entries in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	for pair := o.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// ValuesEqual compares two JSON trees structurally, respecting object entry
// order.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		ap, bp := av.entries.Oldest(), bv.entries.Oldest()
		for ap != nil && bp != nil {
			if ap.Key != bp.Key || !ValuesEqual(ap.Value, bp.Value) {
				return false
			}
			ap, bp = ap.Next(), bp.Next()
		}
		return true
	default:
		return false
	}
}
