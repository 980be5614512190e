package goserde

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMalformedInput      = "malformed_input"      // lexer/parser rejected the token stream
	CodeUnexpectedStructure = "unexpected_structure" // descriptor expects one shape, source has another
	CodeMissingValue        = "missing_value"        // required tag absent and not coercible
	CodeTypeMismatch        = "type_mismatch"        // value present but wrong primitive shape
	CodePrecisionLoss       = "precision_loss"       // numeral not exactly representable at the requested width
	CodeUnknownEnumValue    = "unknown_enum_value"   // string matches no declared enum name
	CodeInvalidDescriptor   = "invalid_descriptor"   // blank/duplicate/colliding name at construction time
	CodeUnknownKey          = "unknown_key"          // source key has no descriptor element (strict decoding)
	CodeDuplicateKey        = "duplicate_key"        // object key repeated and rejection is enabled
	CodeDepthExceeded       = "depth_exceeded"       // nesting deeper than the configured guard
	CodeSizeExceeded        = "size_exceeded"        // input longer than the configured byte cap
)

// Issue represents a single decode/encode failure entry.
type Issue struct {
	Path    string // JSON Pointer of the offending tag (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the text input (-1 when unknown, e.g. native input).
	// Params carries structured parameters (e.g., {"got":"9007199254740992"})
	// for diagnostics and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /path
		fmt.Fprintf(b, "%s at %s", it.Code, pathOrRoot(it.Path))
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// MissingValueError builds the failure a deserializer reports when a required
// element never appeared in the source. The path should address the enclosing
// structure; the element name is appended.
func MissingValueError(d Descriptor, index int, path string) error {
	checkElementIndex(d, index)
	name := d.ElementName(index)
	return Issues{Issue{
		Path:    path + "/" + name,
		Code:    CodeMissingValue,
		Message: fmt.Sprintf("required value %q of %s is missing", name, d.SerialName()),
		Offset:  -1,
	}}
}

func issuef(code, path string, offset int64, format string, args ...any) Issues {
	return Issues{Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...), Offset: offset}}
}
