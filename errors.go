package clausewitz

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Field-level codes: collected per record, siblings keep decoding.
	CodeMissingField   = "missing_field"
	CodeTypeMismatch   = "type_mismatch"
	CodeMalformedDate  = "malformed_date"
	CodeTransformError = "transform_error"
	CodeDuplicateKey   = "duplicate_key"
	// Structural codes: abort the enclosing record and propagate.
	CodeDepthExceeded        = "depth_exceeded"
	CodeUnknownTopLevelShape = "unknown_top_level_shape"
	CodeParseError           = "parse_error"
	CodeTruncated            = "truncated"
	CodeCanceled             = "canceled"
)

// IsStructural reports whether code aborts decoding instead of being
// collected alongside sibling fields.
func IsStructural(code string) bool {
	switch code {
	case CodeDepthExceeded, CodeUnknownTopLevelShape, CodeParseError, CodeTruncated, CodeCanceled:
		return true
	}
	return false
}

// Issue represents a single decode problem.
type Issue struct {
	Path    string // Pointer-style path (for example: /living/42/alive_data/gold).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Record is the record type being bound when the issue was raised.
	Record string
	// Params carries structured parameters (e.g., {"got":"13", "max":12}).
	Params map[string]any
}

func (it Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message)
}

// Issues is a collection of decode problems that implements error.
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
		// e.g. malformed_date at /living/1/birth
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Structural reports whether any issue carries a structural code.
func (iss Issues) Structural() bool {
	for _, it := range iss {
		if IsStructural(it.Code) {
			return true
		}
	}
	return false
}

// Rebase prefixes every issue path with base.
func (iss Issues) Rebase(base string) Issues {
	if base == "" || base == "/" {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out[i] = it
	}
	return out
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

// OrNil returns iss as an error, or nil when it is empty.
func (iss Issues) OrNil() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}
