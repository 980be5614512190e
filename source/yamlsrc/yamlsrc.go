// Package yamlsrc feeds goserde from YAML documents. yaml.v3 parses the
// text; the resulting graph is normalized to the native model (string-keyed
// maps, []any, scalars) and decoded through the dynamic tree adapter, so one
// serializer covers both JSON and YAML input.
package yamlsrc

import (
	"fmt"

	"gopkg.in/yaml.v3"

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

// normalize rewrites the yaml.v3 graph into the native model. v3 already
// produces map[string]any for string-keyed mappings; mappings with other key
// types arrive as map[any]any and have their keys stringified, matching how
// the JSON binding re-parses non-string map keys from text.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// Parse decodes a YAML document into T.
func Parse[T any](sz goserde.Serializer[T], data []byte, opts ...goserde.Config) (T, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		var zero T
		return zero, malformed(err)
	}
	return goserde.DecodeFromNative(sz, normalize(root), opts...)
}

// ParseValue decodes a YAML document into the dynamic tree model.
func ParseValue(data []byte, opts ...goserde.Config) (goserde.Value, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, malformed(err)
	}
	return goserde.DecodeFromNative(goserde.ValueSerializer(), normalize(root), opts...)
}
