package clausewitz

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	eng "github.com/reoring/clausewitz/internal/engine"
	jsonsrc "github.com/reoring/clausewitz/source/json"
	textsrc "github.com/reoring/clausewitz/source/text"
)

// Exported aliases so custom token sources can be written without relying
// on internal packages.
type (
	Token     = eng.Token
	TokenKind = eng.Kind
)

const (
	TokenOpen        TokenKind = eng.KindOpen
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenClose       TokenKind = eng.KindClose
	TokenKey         TokenKind = eng.KindKey
	TokenScalar      TokenKind = eng.KindScalar
	TokenNull        TokenKind = eng.KindNull
)

// Source abstracts over token producers (text scanner, JSON decoder, ...).
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// Format names an input encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt", "ck3":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("clausewitz: unknown format %q", s)
}

// DetectFormat guesses the format of b: JSON documents start with '{' or
// '[', save text starts with a key or a header line.
func DetectFormat(b []byte) Format {
	t := bytes.TrimLeft(b, " \t\r\n\xef\xbb\xbf")
	if len(t) > 0 && (t[0] == '{' || t[0] == '[') {
		return FormatJSON
	}
	return FormatText
}

// TextBytes wraps save text as a Source.
func TextBytes(b []byte) Source { return textsrc.NewBytes(b) }

// TextReader reads save text from r as a Source.
func TextReader(r io.Reader) (Source, error) { return textsrc.NewReader(r) }

// JSONBytes wraps a JSON export as a Source.
func JSONBytes(b []byte) Source { return jsonsrc.NewBytes(b) }

// JSONReader streams a JSON export from r as a Source.
func JSONReader(r io.Reader) Source { return jsonsrc.NewReader(r) }

// SourceFor returns the Source for b in format f.
func SourceFor(f Format, b []byte) Source {
	if f == FormatJSON {
		return JSONBytes(b)
	}
	return TextBytes(b)
}
