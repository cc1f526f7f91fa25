package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/reoring/clausewitz/tree"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	// KindOpen is a `{` whose shape (object or array) is decided by its
	// first entry. Text sources only produce this form.
	KindOpen Kind = iota
	KindBeginObject
	KindBeginArray
	KindClose
	KindKey
	KindScalar
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindBeginObject:
		return "begin_object"
	case KindBeginArray:
		return "begin_array"
	case KindClose:
		return "close"
	case KindKey:
		return "key"
	case KindScalar:
		return "scalar"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	Text   string
	Quoted bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SyntaxError reports a token that does not fit the tree grammar.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
	}
	return "syntax error: " + e.Msg
}

func syntaxErr(tok Token, format string, a ...any) error {
	return &SyntaxError{Offset: tok.Offset, Msg: fmt.Sprintf(format, a...)}
}

// BuildTree consumes src and returns the single root node it describes.
// Trailing tokens after the root are rejected.
func BuildTree(src TokenSource) (tree.Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return tree.Object(), nil
		}
		return tree.Node{}, err
	}
	root, err := buildValue(src, tok)
	if err != nil {
		return tree.Node{}, err
	}
	extra, err := src.NextToken()
	if err == nil {
		return tree.Node{}, syntaxErr(extra, "unexpected %s after root value", extra.Kind)
	}
	if !errors.Is(err, io.EOF) {
		return tree.Node{}, err
	}
	return root, nil
}

// next is NextToken with io.EOF promoted to io.ErrUnexpectedEOF, for use
// inside containers.
func next(src TokenSource) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func buildValue(src TokenSource, tok Token) (tree.Node, error) {
	switch tok.Kind {
	case KindOpen:
		return buildOpen(src, tok)
	case KindBeginObject:
		first, err := next(src)
		if err != nil {
			return tree.Node{}, err
		}
		return buildObject(src, tok, first)
	case KindBeginArray:
		first, err := next(src)
		if err != nil {
			return tree.Node{}, err
		}
		return buildArray(src, tok, first)
	case KindScalar:
		return tree.Node{Kind: tree.KindScalar, Text: tok.Text, Quoted: tok.Quoted, Offset: tok.Offset}, nil
	default:
		return tree.Node{}, syntaxErr(tok, "unexpected %s", tok.Kind)
	}
}

// buildOpen decides the shape of an ambiguous container from its first token.
func buildOpen(src TokenSource, open Token) (tree.Node, error) {
	first, err := next(src)
	if err != nil {
		return tree.Node{}, err
	}
	switch first.Kind {
	case KindClose:
		return tree.Node{Kind: tree.KindObject, Offset: open.Offset}, nil
	case KindKey:
		return buildObject(src, open, first)
	default:
		return buildArray(src, open, first)
	}
}

func buildObject(src TokenSource, open, tok Token) (tree.Node, error) {
	n := tree.Node{Kind: tree.KindObject, Offset: open.Offset}
	for {
		if tok.Kind == KindClose {
			return n, nil
		}
		if tok.Kind != KindKey {
			return tree.Node{}, syntaxErr(tok, "expected key in object, got %s", tok.Kind)
		}
		vt, err := next(src)
		if err != nil {
			return tree.Node{}, err
		}
		if vt.Kind != KindNull {
			v, err := buildValue(src, vt)
			if err != nil {
				return tree.Node{}, err
			}
			n.Pairs = append(n.Pairs, tree.Pair{Key: tok.Text, KeyQuoted: tok.Quoted, Value: v})
		}
		if tok, err = next(src); err != nil {
			return tree.Node{}, err
		}
	}
}

func buildArray(src TokenSource, open, tok Token) (tree.Node, error) {
	n := tree.Node{Kind: tree.KindArray, Offset: open.Offset}
	for {
		switch tok.Kind {
		case KindClose:
			return n, nil
		case KindKey:
			return tree.Node{}, syntaxErr(tok, "key %q inside array", tok.Text)
		case KindNull:
		default:
			v, err := buildValue(src, tok)
			if err != nil {
				return tree.Node{}, err
			}
			n.Items = append(n.Items, v)
		}
		var err error
		if tok, err = next(src); err != nil {
			return tree.Node{}, err
		}
	}
}
