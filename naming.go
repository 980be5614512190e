package goserde

import (
	"strings"
	"unicode"
)

// SnakeCaseStrategy converts camelCase primary names to lower_snake_case.
func SnakeCaseStrategy(_ Descriptor, _ int, name string) string {
	b := &strings.Builder{}
	b.Grow(len(name) + 4)
	var prevLower bool
	for _, r := range name {
		if unicode.IsUpper(r) {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

// serializedElementName is the name an element travels under on the wire.
func serializedElementName(d Descriptor, i int, cfg Config) string {
	name := d.ElementName(i)
	if cfg.Naming != nil {
		return cfg.Naming(d, i, name)
	}
	return name
}

// nameCache resolves serialized names to element indexes for the descriptors
// touched by one decode call tree. It is not safe for concurrent use; each
// decode entry point allocates its own.
type nameCache struct {
	cfg  Config
	maps map[Descriptor]map[string]int
}

func newNameCache(cfg Config) *nameCache {
	return &nameCache{cfg: cfg}
}

// resolve returns the element index serialized under name, or -1. With no
// naming strategy configured the primary declared names are tried first (fast
// path); the precomputed map is consulted only when that misses and alternate
// names are enabled. Both paths must agree: the map contains the same primary
// names plus the declared alternates. Since the map is built lazily, a
// collision between one element's primary name and another's alternate is
// reported on the first lookup that misses the fast path, not at first use of
// the descriptor.
func (c *nameCache) resolve(d Descriptor, name string) (int, error) {
	if c.cfg.Naming == nil {
		if i := ElementIndexByName(d, name); i >= 0 {
			return i, nil
		}
		if !c.cfg.UseAlternativeNames {
			return -1, nil
		}
	}
	m, err := c.mapFor(d)
	if err != nil {
		return -1, err
	}
	if i, ok := m[name]; ok {
		return i, nil
	}
	return -1, nil
}

// mapFor builds (once per descriptor) the full serialized-name map: the
// transformed-or-primary name of every element plus its alternates. Ambiguous
// collisions fail fast at build time.
func (c *nameCache) mapFor(d Descriptor) (map[string]int, error) {
	if m, ok := c.maps[d]; ok {
		return m, nil
	}
	m := make(map[string]int, d.NumElements())
	add := func(name string, i int) error {
		if prev, clash := m[name]; clash && prev != i {
			return issuef(CodeInvalidDescriptor, "", -1,
				"elements %q and %q of %q are both serialized as %q",
				d.ElementName(prev), d.ElementName(i), d.SerialName(), name)
		}
		m[name] = i
		return nil
	}
	for i, n := 0, d.NumElements(); i < n; i++ {
		if err := add(serializedElementName(d, i, c.cfg), i); err != nil {
			return nil, err
		}
		if !c.cfg.UseAlternativeNames {
			continue
		}
		for _, alt := range AlternateNames(d.ElementAnnotations(i)) {
			if err := add(alt, i); err != nil {
				return nil, err
			}
		}
	}
	if c.maps == nil {
		c.maps = make(map[Descriptor]map[string]int)
	}
	c.maps[d] = m
	return m, nil
}

// resolveEnumIndex maps a source string to an enum entry index using primary
// names and, when enabled, alternates. Naming strategies do not apply to enum
// entries. Returns -1 when unresolved.
func resolveEnumIndex(enum Descriptor, name string, cfg Config) int {
	if i := ElementIndexByName(enum, name); i >= 0 {
		return i
	}
	if !cfg.UseAlternativeNames {
		return -1
	}
	for i, n := 0, enum.NumElements(); i < n; i++ {
		for _, alt := range AlternateNames(enum.ElementAnnotations(i)) {
			if alt == name {
				return i
			}
		}
	}
	return -1
}
