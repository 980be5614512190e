// Package goserde is a schema-driven structural serialization engine with a
// JSON text binding. It provides:
//
//   - A Descriptor model describing a value's serialized shape (kind, element
//     names/types/annotations, nullability) independent of how it was declared
//   - A tag-based Decoder/Encoder protocol that walks a descriptor against a
//     data source (JSON text or an already-parsed native object graph)
//   - A JSON grammar engine with strict and lenient modes, comment support,
//     trailing commas, and special floating-point literals
//   - Cross-cutting policies: input coercion, explicit/implicit nulls,
//     alternate-name resolution, and safe-integer bounds for numeric decoding
//
// Only the public API lives in the root package; the token engine and the
// grammar implementation sit under internal/, native-graph materialization
// helpers under source/, and the CLI under cmd/goserde.
//
// Typical usage:
//
//	v, err := goserde.Parse(userSerializer, data)
//	out, err := goserde.Write(userSerializer, v, cfg)
//	v, err := goserde.DecodeFromNative(userSerializer, parsedGraph)
package goserde
