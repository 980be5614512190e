// Package gojson feeds goserde from goccy/go-json. The input is materialized
// into a native graph with exact numeral text (json.Number) and handed to the
// dynamic tree decoder, so grammar handling is go-json's while element
// resolution, coercion, and error reporting stay goserde's.
//
// Grammar options in the Config (Lenient, AllowComments, and friends) do not
// apply on this path; go-json accepts strict JSON only. Use goserde.Parse for
// the relaxed grammar.
package gojson

import (
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/goserde/goserde"
)

func malformed(err error) error {
	return goserde.Issues{goserde.Issue{
		Code:    goserde.CodeMalformedInput,
		Message: err.Error(),
		Cause:   err,
		Offset:  -1,
	}}
}

func materialize(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, malformed(err)
	}
	// A second Decode must hit EOF; anything else is trailing content.
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, goserde.Issues{goserde.Issue{
			Code:    goserde.CodeMalformedInput,
			Message: "unexpected trailing content",
			Offset:  -1,
		}}
	}
	return root, nil
}

// Parse decodes one JSON document from r into T.
func Parse[T any](sz goserde.Serializer[T], r io.Reader, opts ...goserde.Config) (T, error) {
	root, err := materialize(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return goserde.DecodeFromNative(sz, root, opts...)
}

// ParseValue decodes one JSON document from r into the dynamic tree model.
// Object entry order follows sorted keys; use goserde.ParseValue when source
// order matters.
func ParseValue(r io.Reader, opts ...goserde.Config) (goserde.Value, error) {
	root, err := materialize(r)
	if err != nil {
		return nil, err
	}
	return goserde.DecodeFromNative(goserde.ValueSerializer(), root, opts...)
}

// Write encodes v as JSON text and writes it to w.
func Write[T any](w io.Writer, sz goserde.Serializer[T], v T, opts ...goserde.Config) error {
	data, err := goserde.Write(sz, v, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
