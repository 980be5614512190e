package goserde

import (
	"errors"
	"io"

	"github.com/goserde/goserde/internal/engine"
	"github.com/goserde/goserde/internal/text"
)

// toIssues normalizes any error leaving the engine into the public Issues
// model. Internal layers report lightweight errors; this is the single place
// they are converted.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss
	}
	var ie engine.IssueError
	if errors.As(err, &ie) {
		return Issues{Issue{Path: ie.Path, Code: ie.Code, Message: ie.Message, Offset: ie.Offset}}
	}
	var se *text.SyntaxError
	if errors.As(err, &se) {
		return Issues{Issue{Code: CodeMalformedInput, Message: se.Msg, Cause: se, Offset: se.Offset}}
	}
	if errors.Is(err, io.EOF) {
		return Issues{Issue{Code: CodeMalformedInput, Message: "unexpected end of input", Offset: -1}}
	}
	return Issues{Issue{Code: CodeMalformedInput, Message: err.Error(), Cause: err, Offset: -1}}
}

func newTokenSource(data []byte, cfg Config) engine.TokenSource {
	var src engine.TokenSource = text.NewReader(data, text.Options{
		Lenient:            cfg.Lenient,
		AllowComments:      cfg.AllowComments,
		AllowTrailingComma: cfg.AllowTrailingComma,
		AllowSpecialFloats: cfg.AllowSpecialFloats,
	})
	eo := engine.EnforceOptions{
		RejectDuplicates: cfg.RejectDuplicateKeys,
		MaxDepth:         cfg.MaxDepth,
		MaxBytes:         cfg.MaxBytes,
	}
	if eo.Enabled() {
		src = engine.WrapWithEnforcement(src, eo)
	}
	return src
}

// Parse decodes a complete JSON text into a value of T. Trailing content
// after the root value is rejected. The last Config wins; omit it for
// DefaultConfig.
func Parse[T any](sz Serializer[T], data []byte, opts ...Config) (T, error) {
	cfg := pickConfig(opts)
	var zero T
	cur := &tokenCursor{src: newTokenSource(data, cfg)}
	dec := &streamDecoder{cur: cur, cfg: cfg, names: newNameCache(cfg)}
	v, err := sz.Deserialize(dec)
	if err != nil {
		return zero, toIssues(err)
	}
	// The grammar reader reports io.EOF only once the root value and any
	// trailing whitespace are consumed; anything else here is extra input.
	if _, err := cur.next(); err != io.EOF {
		if err == nil {
			return zero, Issues{Issue{Code: CodeMalformedInput,
				Message: "unexpected trailing content", Offset: cur.location()}}
		}
		return zero, toIssues(err)
	}
	return v, nil
}

// Write encodes v as JSON text.
func Write[T any](sz Serializer[T], v T, opts ...Config) ([]byte, error) {
	cfg := pickConfig(opts)
	enc := newStreamEncoder(cfg)
	if err := sz.Serialize(enc, v); err != nil {
		return nil, toIssues(err)
	}
	return enc.w.Bytes(), nil
}

// DecodeFromNative decodes an already-materialized object graph (maps,
// slices, scalars, json.Number, or Value trees) without re-serializing it.
// Offsets in reported issues are -1; paths still point at the offending node.
func DecodeFromNative[T any](sz Serializer[T], root any, opts ...Config) (T, error) {
	cfg := pickConfig(opts)
	var zero T
	dec := &nativeDecoder{cfg: cfg, names: newNameCache(cfg), node: root, nodeSet: true}
	v, err := sz.Deserialize(dec)
	if err != nil {
		return zero, toIssues(err)
	}
	return v, nil
}

// ParseValue parses JSON text into the dynamic Value tree, preserving object
// entry order and exact numeral text.
func ParseValue(data []byte, opts ...Config) (Value, error) {
	cfg := pickConfig(opts)
	cur := &tokenCursor{src: newTokenSource(data, cfg)}
	dec := &streamDecoder{cur: cur, cfg: cfg, names: newNameCache(cfg)}
	v, err := dec.decodeTree()
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := cur.next(); err != io.EOF {
		if err == nil {
			return nil, Issues{Issue{Code: CodeMalformedInput,
				Message: "unexpected trailing content", Offset: cur.location()}}
		}
		return nil, toIssues(err)
	}
	return v, nil
}

// WriteValue renders a dynamic Value tree as JSON text.
func WriteValue(v Value, opts ...Config) ([]byte, error) {
	cfg := pickConfig(opts)
	w := text.NewWriter(cfg.PrettyPrint, cfg.Indent)
	writeTree(w, v)
	return w.Bytes(), nil
}
