package goserde

import (
	"strings"
)

// Element declares one ordered element of a class descriptor.
type Element struct {
	Name string
	// Descriptor is the element's shape. For self-referential schemas set
	// Lazy instead; it is resolved on first structural read and wins over
	// Descriptor when both are set.
	Descriptor  Descriptor
	Lazy        func() Descriptor
	Optional    bool
	Annotations Annotations
}

type structDescriptor struct {
	name     string
	kind     Kind
	nullable bool
	ann      Annotations
	elems    []Element
}

// NewDescriptor builds a class-like descriptor from ordered elements. Element
// names must be unique; alternate names are declared through annotations and
// validated when a name map is first built against a configuration.
func NewDescriptor(name string, kind Kind, elems ...Element) (Descriptor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "blank serial name")
	}
	seen := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		if strings.TrimSpace(e.Name) == "" {
			return nil, issuef(CodeInvalidDescriptor, "", -1, "blank element name in %q", name)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, issuef(CodeInvalidDescriptor, "", -1, "duplicate element name %q in %q", e.Name, name)
		}
		seen[e.Name] = struct{}{}
		if e.Descriptor == nil && e.Lazy == nil {
			return nil, issuef(CodeInvalidDescriptor, "", -1, "element %q of %q has no descriptor", e.Name, name)
		}
	}
	return &structDescriptor{name: name, kind: kind, elems: elems}, nil
}

// MustDescriptor is NewDescriptor for package-level variables; it panics on
// construction errors.
func MustDescriptor(name string, kind Kind, elems ...Element) Descriptor {
	d, err := NewDescriptor(name, kind, elems...)
	if err != nil {
		panic("goserde: " + err.Error())
	}
	return d
}

func (d *structDescriptor) SerialName() string       { return d.name }
func (d *structDescriptor) Kind() Kind               { return d.kind }
func (d *structDescriptor) IsNullable() bool         { return d.nullable }
func (d *structDescriptor) Annotations() Annotations { return d.ann }
func (d *structDescriptor) NumElements() int         { return len(d.elems) }

func (d *structDescriptor) ElementName(i int) string {
	checkElementIndex(d, i)
	return d.elems[i].Name
}

func (d *structDescriptor) ElementDescriptor(i int) Descriptor {
	checkElementIndex(d, i)
	e := d.elems[i]
	if e.Lazy != nil {
		return e.Lazy()
	}
	return e.Descriptor
}

func (d *structDescriptor) ElementAnnotations(i int) Annotations {
	checkElementIndex(d, i)
	return d.elems[i].Annotations
}

func (d *structDescriptor) IsElementOptional(i int) bool {
	checkElementIndex(d, i)
	return d.elems[i].Optional
}

func (d *structDescriptor) String() string { return FormatDescriptor(d) }

// ---- primitives ----

type primitiveDescriptor struct {
	name string
	kind Kind
}

func (d *primitiveDescriptor) SerialName() string       { return d.name }
func (d *primitiveDescriptor) Kind() Kind               { return d.kind }
func (d *primitiveDescriptor) IsNullable() bool         { return false }
func (d *primitiveDescriptor) Annotations() Annotations { return nil }
func (d *primitiveDescriptor) NumElements() int         { return 0 }
func (d *primitiveDescriptor) ElementName(i int) string {
	checkElementIndex(d, i)
	return ""
}
func (d *primitiveDescriptor) ElementDescriptor(i int) Descriptor {
	checkElementIndex(d, i)
	return nil
}
func (d *primitiveDescriptor) ElementAnnotations(i int) Annotations {
	checkElementIndex(d, i)
	return nil
}
func (d *primitiveDescriptor) IsElementOptional(i int) bool {
	checkElementIndex(d, i)
	return false
}
func (d *primitiveDescriptor) String() string { return FormatDescriptor(d) }

// Builtin primitive descriptors. Their serial names are reserved; wrapping or
// declaring another descriptor under one of these names is rejected.
var (
	boolDesc    = &primitiveDescriptor{name: "bool", kind: KindBool}
	int8Desc    = &primitiveDescriptor{name: "int8", kind: KindInt8}
	int16Desc   = &primitiveDescriptor{name: "int16", kind: KindInt16}
	int32Desc   = &primitiveDescriptor{name: "int32", kind: KindInt32}
	int64Desc   = &primitiveDescriptor{name: "int64", kind: KindInt64}
	float32Desc = &primitiveDescriptor{name: "float32", kind: KindFloat32}
	float64Desc = &primitiveDescriptor{name: "float64", kind: KindFloat64}
	charDesc    = &primitiveDescriptor{name: "char", kind: KindChar}
	stringDesc  = &primitiveDescriptor{name: "string", kind: KindString}
)

var builtinPrimitives = map[string]*primitiveDescriptor{
	"bool": boolDesc, "int8": int8Desc, "int16": int16Desc, "int32": int32Desc,
	"int64": int64Desc, "float32": float32Desc, "float64": float64Desc,
	"char": charDesc, "string": stringDesc,
}

// PrimitiveDescriptor declares a named scalar descriptor, e.g. for a domain
// type serialized as a single string. The kind must be primitive and the name
// must not collide with a builtin primitive name.
func PrimitiveDescriptor(name string, kind Kind) (Descriptor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "blank serial name")
	}
	if !kind.IsPrimitive() {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "kind %v is not primitive", kind)
	}
	if _, reserved := builtinPrimitives[name]; reserved {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "name %q collides with a builtin primitive", name)
	}
	return &primitiveDescriptor{name: name, kind: kind}, nil
}

// ---- list / map ----

type listDescriptor struct {
	elem Descriptor
}

func (d *listDescriptor) SerialName() string       { return "[]" + d.elem.SerialName() }
func (d *listDescriptor) Kind() Kind               { return KindList }
func (d *listDescriptor) IsNullable() bool         { return false }
func (d *listDescriptor) Annotations() Annotations { return nil }
func (d *listDescriptor) NumElements() int         { return 1 }
func (d *listDescriptor) ElementName(i int) string {
	checkElementIndex(d, i)
	return "element"
}
func (d *listDescriptor) ElementDescriptor(i int) Descriptor {
	checkElementIndex(d, i)
	return d.elem
}
func (d *listDescriptor) ElementAnnotations(i int) Annotations {
	checkElementIndex(d, i)
	return nil
}
func (d *listDescriptor) IsElementOptional(i int) bool {
	checkElementIndex(d, i)
	return false
}
func (d *listDescriptor) String() string { return FormatDescriptor(d) }

// ListDescriptor describes a homogeneous sequence of elem.
func ListDescriptor(elem Descriptor) Descriptor { return &listDescriptor{elem: elem} }

type mapDescriptor struct {
	key   Descriptor
	value Descriptor
}

func (d *mapDescriptor) SerialName() string {
	return "map<" + d.key.SerialName() + "," + d.value.SerialName() + ">"
}
func (d *mapDescriptor) Kind() Kind               { return KindMap }
func (d *mapDescriptor) IsNullable() bool         { return false }
func (d *mapDescriptor) Annotations() Annotations { return nil }
func (d *mapDescriptor) NumElements() int         { return 2 }
func (d *mapDescriptor) ElementName(i int) string {
	checkElementIndex(d, i)
	if i == 0 {
		return "key"
	}
	return "value"
}
func (d *mapDescriptor) ElementDescriptor(i int) Descriptor {
	checkElementIndex(d, i)
	if i == 0 {
		return d.key
	}
	return d.value
}
func (d *mapDescriptor) ElementAnnotations(i int) Annotations {
	checkElementIndex(d, i)
	return nil
}
func (d *mapDescriptor) IsElementOptional(i int) bool {
	checkElementIndex(d, i)
	return false
}
func (d *mapDescriptor) String() string { return FormatDescriptor(d) }

// MapDescriptor describes a mapping. During decoding, tags alternate between
// key and value positions; non-string primitive keys are re-parsed from their
// string form.
func MapDescriptor(key, value Descriptor) Descriptor {
	return &mapDescriptor{key: key, value: value}
}

// ---- enum ----

type enumDescriptor struct {
	name  string
	elems []Element
}

// NewEnumDescriptor declares an enum by its ordered entry names. Entry
// annotations (alternate names) can be attached with NewEnumDescriptorWith.
func NewEnumDescriptor(name string, entries ...string) (Descriptor, error) {
	elems := make([]Element, len(entries))
	for i, e := range entries {
		elems[i] = Element{Name: e}
	}
	return NewEnumDescriptorWith(name, elems...)
}

// NewEnumDescriptorWith declares an enum from full element specs. Element
// descriptors are implied (each entry is an empty leaf).
func NewEnumDescriptorWith(name string, entries ...Element) (Descriptor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "blank serial name")
	}
	seen := make(map[string]struct{}, len(entries))
	elems := make([]Element, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, issuef(CodeInvalidDescriptor, "", -1, "blank enum entry in %q", name)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, issuef(CodeInvalidDescriptor, "", -1, "duplicate enum entry %q in %q", e.Name, name)
		}
		seen[e.Name] = struct{}{}
		elems[i] = Element{Name: e.Name, Annotations: e.Annotations, Descriptor: &primitiveDescriptor{name: name + "." + e.Name, kind: KindString}}
	}
	return &enumDescriptor{name: name, elems: elems}, nil
}

func (d *enumDescriptor) SerialName() string       { return d.name }
func (d *enumDescriptor) Kind() Kind               { return KindEnum }
func (d *enumDescriptor) IsNullable() bool         { return false }
func (d *enumDescriptor) Annotations() Annotations { return nil }
func (d *enumDescriptor) NumElements() int         { return len(d.elems) }
func (d *enumDescriptor) ElementName(i int) string {
	checkElementIndex(d, i)
	return d.elems[i].Name
}
func (d *enumDescriptor) ElementDescriptor(i int) Descriptor {
	checkElementIndex(d, i)
	return d.elems[i].Descriptor
}
func (d *enumDescriptor) ElementAnnotations(i int) Annotations {
	checkElementIndex(d, i)
	return d.elems[i].Annotations
}
func (d *enumDescriptor) IsElementOptional(i int) bool {
	checkElementIndex(d, i)
	return false
}
func (d *enumDescriptor) String() string { return FormatDescriptor(d) }

// ---- nullable wrapper ----

type nullableDescriptor struct {
	Descriptor
}

func (d *nullableDescriptor) IsNullable() bool { return true }
func (d *nullableDescriptor) String() string   { return FormatDescriptor(d) }

// NullableOf marks a descriptor as accepting null. The wrapper delegates all
// structural queries to the original.
func NullableOf(d Descriptor) Descriptor {
	if d.IsNullable() {
		return d
	}
	return &nullableDescriptor{Descriptor: d}
}

// ---- serial-name wrapper ----

type wrappedDescriptor struct {
	Descriptor
	name string
}

func (d *wrappedDescriptor) SerialName() string { return d.name }
func (d *wrappedDescriptor) String() string     { return FormatDescriptor(d) }

// WrapDescriptor substitutes the serial name of a descriptor while delegating
// every structural query to it. Construction fails when the new name is
// blank, identical to the delegate's name (an ambiguous identity collision),
// or collides with a builtin primitive name.
func WrapDescriptor(name string, delegate Descriptor) (Descriptor, error) {
	if delegate == nil {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "nil delegate")
	}
	if strings.TrimSpace(name) == "" {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "blank serial name")
	}
	if name == delegate.SerialName() {
		return nil, issuef(CodeInvalidDescriptor, "", -1,
			"wrapped name %q must differ from the delegate's serial name", name)
	}
	if _, reserved := builtinPrimitives[name]; reserved {
		return nil, issuef(CodeInvalidDescriptor, "", -1, "name %q collides with a builtin primitive", name)
	}
	return &wrappedDescriptor{Descriptor: delegate, name: name}, nil
}
