package goserde

import (
	"fmt"
	"hash/fnv"
	"io"
	"reflect"
	"strings"
)

// Annotations is an opaque key-value bag attached to a descriptor or to one of
// its elements. The engine itself interprets only the keys declared below;
// everything else is carried through untouched for callers to inspect.
type Annotations map[string]any

// AnnotationAlternateNames is the annotations key under which an element (or
// an enum entry) declares additional accepted serialized names. The value
// must be a []string.
const AnnotationAlternateNames = "goserde.alternateNames"

// AlternateNames extracts the alternate-name list from an annotations bag.
func AlternateNames(a Annotations) []string {
	if a == nil {
		return nil
	}
	names, _ := a[AnnotationAlternateNames].([]string)
	return names
}

// Descriptor is an immutable schema value describing a type's serialized
// shape. Instances are constructed once per type and safely shared across
// concurrent decode/encode calls.
//
// All index-taking operations panic when i is outside [0, NumElements());
// descriptor misuse is a programmer error, not an input error.
type Descriptor interface {
	// SerialName is a non-blank, globally meaningful identity.
	SerialName() string
	Kind() Kind
	IsNullable() bool
	Annotations() Annotations

	NumElements() int
	ElementName(i int) string
	ElementDescriptor(i int) Descriptor
	ElementAnnotations(i int) Annotations
	IsElementOptional(i int) bool
}

func checkElementIndex(d Descriptor, i int) {
	if i < 0 || i >= d.NumElements() {
		panic(fmt.Sprintf("goserde: element index %d out of range [0,%d) for descriptor %q",
			i, d.NumElements(), d.SerialName()))
	}
}

// ElementIndexByName returns the index of the element whose primary declared
// name is name, or -1. This is the fast-path lookup; configured naming
// strategies and alternate names are resolved by the decode policy instead.
func ElementIndexByName(d Descriptor, name string) int {
	for i, n := 0, d.NumElements(); i < n; i++ {
		if d.ElementName(i) == name {
			return i
		}
	}
	return -1
}

// DescriptorsEqual compares two descriptors structurally: kind, serial name,
// nullability, annotations, and all elements, recursively. Self-referential
// descriptors compare equal to themselves without infinite recursion.
func DescriptorsEqual(a, b Descriptor) bool {
	return descriptorsEqual(a, b, make(map[descPair]struct{}))
}

type descPair [2]Descriptor

func descriptorsEqual(a, b Descriptor, seen map[descPair]struct{}) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	pair := descPair{a, b}
	if _, ok := seen[pair]; ok {
		// Cycle: the pair is already under comparison higher up the stack;
		// treat the back edge as equal.
		return true
	}
	seen[pair] = struct{}{}

	if a.Kind() != b.Kind() || a.SerialName() != b.SerialName() || a.IsNullable() != b.IsNullable() {
		return false
	}
	if !annotationsEqual(a.Annotations(), b.Annotations()) {
		return false
	}
	n := a.NumElements()
	if n != b.NumElements() {
		return false
	}
	for i := 0; i < n; i++ {
		if a.ElementName(i) != b.ElementName(i) || a.IsElementOptional(i) != b.IsElementOptional(i) {
			return false
		}
		if !annotationsEqual(a.ElementAnnotations(i), b.ElementAnnotations(i)) {
			return false
		}
		if !descriptorsEqual(a.ElementDescriptor(i), b.ElementDescriptor(i), seen) {
			return false
		}
	}
	return true
}

func annotationsEqual(a, b Annotations) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// HashDescriptor returns a hash consistent with DescriptorsEqual. Child
// descriptors contribute only their serial names, which keeps the hash stable
// for cyclic schemas.
func HashDescriptor(d Descriptor) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, d.SerialName())
	_, _ = fmt.Fprintf(h, "|%d|%t|", d.Kind(), d.IsNullable())
	for i, n := 0, d.NumElements(); i < n; i++ {
		_, _ = io.WriteString(h, d.ElementName(i))
		_, _ = io.WriteString(h, ":")
		_, _ = io.WriteString(h, d.ElementDescriptor(i).SerialName())
		if d.IsElementOptional(i) {
			_, _ = io.WriteString(h, "?")
		}
		_, _ = io.WriteString(h, ",")
	}
	return h.Sum64()
}

// FormatDescriptor renders a descriptor as "Name(elem1: child1, elem2: child2)".
// Children are rendered by serial name, so cyclic schemas terminate.
func FormatDescriptor(d Descriptor) string {
	b := &strings.Builder{}
	b.WriteString(d.SerialName())
	b.WriteByte('(')
	for i, n := 0, d.NumElements(); i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.ElementName(i))
		b.WriteString(": ")
		b.WriteString(d.ElementDescriptor(i).SerialName())
	}
	b.WriteByte(')')
	return b.String()
}
