package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply max depth checks and max
// bytes truncation in a streaming fashion, before any tree is materialized.

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	MaxDepth int
	MaxBytes int64
	// IssueSink is an optional callback receiving issues as they are raised.
	IssueSink func(SimpleIssue)
}

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// Issue codes raised by the engine. They mirror the public codes.
const (
	CodeDepthExceeded = "depth_exceeded"
	CodeTruncated     = "truncated"
)

type frame struct {
	path       string
	nextIndex  int
	pendingKey string
	hasKey     bool
}

// WrapWithEnforcement returns a TokenSource that enforces maximum nesting
// depth and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindOpen, KindBeginObject, KindBeginArray:
		path := e.valuePath()
		e.stack = append(e.stack, frame{path: path})
		// The synthetic root of a text document does not count as a level.
		depth := len(e.stack) - 1
		if e.opt.MaxDepth > 0 && depth > e.opt.MaxDepth {
			return Token{}, e.raise(SimpleIssue{Code: CodeDepthExceeded, Path: normalizeIssuePath(path), Message: "max depth exceeded"})
		}
	case KindClose:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.clearPending()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			top.pendingKey = tok.Text
			top.hasKey = true
		}
	case KindScalar, KindNull:
		_ = e.valuePath()
		e.clearPending()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.raise(SimpleIssue{Code: CodeTruncated, Path: normalizeIssuePath(e.currentPath()), Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) raise(si SimpleIssue) error {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return IssueError{si}
}

// valuePath returns the path of the value about to start in the current
// container and advances array indices.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.hasKey {
		return joinPointer(top.path, top.pendingKey)
	}
	p := joinPointer(top.path, strconv.Itoa(top.nextIndex))
	top.nextIndex++
	return p
}

func (e *enforcingTokenSource) clearPending() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		top.hasKey = false
		top.pendingKey = ""
	}
}

func (e *enforcingTokenSource) currentPath() string {
	if n := len(e.stack); n > 0 {
		return e.stack[n-1].path
	}
	return ""
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
