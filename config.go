package goserde

// NamingStrategy transforms an element's primary declared name into its
// serialized form. It receives the enclosing descriptor and element index so
// strategies can consult annotations. Strategies are not applied to enum
// entries.
type NamingStrategy func(d Descriptor, index int, name string) string

// Config is the immutable bag of options shared by all operations that
// reference it. Build one from DefaultConfig, adjust fields on the copy, and
// pass it by value; configurations are never mutated by the engine.
type Config struct {
	// Lenient relaxes the JSON grammar: unquoted identifiers and
	// single-quoted strings are accepted as strings, literals match
	// case-insensitively, and numbers may carry a leading or trailing dot.
	Lenient bool
	// AllowComments makes the lexer skip // and /* */ comments.
	AllowComments bool
	// AllowTrailingComma tolerates a comma before a closing bracket.
	AllowTrailingComma bool
	// AllowSpecialFloats accepts NaN and Infinity tokens on input and emits
	// them on output instead of failing.
	AllowSpecialFloats bool

	// CoerceInputValues treats a null (or unknown enum string) supplied for a
	// non-nullable element with a default as absent instead of failing.
	CoerceInputValues bool
	// ExplicitNulls controls null handling both ways: when false, a missing
	// non-optional nullable element decodes as a synthesized null, and a null
	// element value is omitted from encoded objects. Default true.
	ExplicitNulls bool
	// UseAlternativeNames enables the alternate-name fallback during element
	// lookup. Default true.
	UseAlternativeNames bool
	// IgnoreUnknownKeys skips source keys that match no descriptor element.
	// Default true; when false an unknown key is a decode failure.
	IgnoreUnknownKeys bool
	// Naming optionally transforms element names; when set, lookup goes
	// through a precomputed name map instead of the primary-name fast path.
	Naming NamingStrategy

	// UseArrayPolymorphism selects [typeTag, payload] encoding for
	// polymorphic values instead of {ClassDiscriminator: typeTag, ...payload}.
	UseArrayPolymorphism bool
	// ClassDiscriminator is the object-polymorphism type key. Default "type".
	ClassDiscriminator string

	// PrettyPrint inserts purely cosmetic whitespace using Indent.
	PrettyPrint bool
	Indent      string

	// RejectDuplicateKeys fails on repeated object keys instead of applying
	// last-write-wins.
	RejectDuplicateKeys bool
	// MaxDepth bounds nesting on the text path (0 = host stack only).
	// Recommended for untrusted input.
	MaxDepth int
	// MaxBytes bounds consumed input bytes on the text path (0 = unbounded).
	MaxBytes int64
}

// DefaultConfig returns the baseline configuration: strict grammar, explicit
// nulls, alternate names enabled, unknown keys ignored, object polymorphism
// under the "type" discriminator.
func DefaultConfig() Config {
	return Config{
		ExplicitNulls:       true,
		UseAlternativeNames: true,
		IgnoreUnknownKeys:   true,
		ClassDiscriminator:  "type",
		Indent:              "    ",
	}
}

func pickConfig(opts []Config) Config {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return DefaultConfig()
}
