// Package text scans Clausewitz save text into engine tokens.
//
// The document root is an implicit object: the scanner emits a synthetic
// begin-object token first and a close token at end of input.
package text

import (
	"bytes"
	"fmt"
	"io"

	eng "github.com/reoring/clausewitz/internal/engine"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

type state int

const (
	stateStart state = iota
	stateBody
	stateClosed
)

type textSource struct {
	buf   []byte
	pos   int
	depth int
	state state
}

// NewReader reads r fully and returns an engine.TokenSource over it.
func NewReader(r io.Reader) (eng.TokenSource, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBytes(b), nil
}

// NewBytes returns an engine.TokenSource over b. b must not be modified
// while the source is in use.
func NewBytes(b []byte) eng.TokenSource {
	b = bytes.TrimPrefix(b, bom)
	return &textSource{buf: b, pos: skipHeader(b)}
}

// skipHeader returns the offset after a leading save header line such as
// "SAV0103a1b2c3...". Lines containing '=' are content, not a header.
func skipHeader(b []byte) int {
	if !bytes.HasPrefix(b, []byte("SAV")) {
		return 0
	}
	end := bytes.IndexByte(b, '\n')
	if end < 0 {
		end = len(b)
	}
	line := b[:end]
	if bytes.IndexByte(line, '=') >= 0 || bytes.IndexByte(line, '{') >= 0 {
		return 0
	}
	if end < len(b) {
		end++
	}
	return end
}

func (s *textSource) Location() int64 { return int64(s.pos) }

func (s *textSource) errorf(format string, a ...any) error {
	return &eng.SyntaxError{Offset: int64(s.pos), Msg: fmt.Sprintf(format, a...)}
}

func (s *textSource) NextToken() (eng.Token, error) {
	switch s.state {
	case stateStart:
		s.state = stateBody
		return eng.Token{Kind: eng.KindBeginObject, Offset: 0}, nil
	case stateClosed:
		return eng.Token{}, io.EOF
	}

	s.skipSpace()
	if s.pos >= len(s.buf) {
		if s.depth > 0 {
			return eng.Token{}, io.ErrUnexpectedEOF
		}
		s.state = stateClosed
		return eng.Token{Kind: eng.KindClose, Offset: int64(s.pos)}, nil
	}

	start := s.pos
	switch c := s.buf[s.pos]; c {
	case '{':
		s.pos++
		s.depth++
		return eng.Token{Kind: eng.KindOpen, Offset: int64(start)}, nil
	case '}':
		if s.depth == 0 {
			return eng.Token{}, s.errorf("unbalanced '}'")
		}
		s.pos++
		s.depth--
		return eng.Token{Kind: eng.KindClose, Offset: int64(start)}, nil
	case '=':
		return eng.Token{}, s.errorf("unexpected '='")
	case '"':
		text, err := s.scanQuoted()
		if err != nil {
			return eng.Token{}, err
		}
		return s.finishScalar(text, true, start), nil
	default:
		text := s.scanBare()
		return s.finishScalar(text, false, start), nil
	}
}

// finishScalar turns a scalar into a key when it is followed by '='.
func (s *textSource) finishScalar(text string, quoted bool, start int) eng.Token {
	s.skipSpace()
	if s.pos < len(s.buf) && s.buf[s.pos] == '=' {
		s.pos++
		return eng.Token{Kind: eng.KindKey, Text: text, Quoted: quoted, Offset: int64(start)}
	}
	return eng.Token{Kind: eng.KindScalar, Text: text, Quoted: quoted, Offset: int64(start)}
}

func (s *textSource) skipSpace() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case ' ', '\t', '\r', '\n', ';':
			s.pos++
		case '#':
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '=', '"', '#', ';':
		return true
	}
	return false
}

func (s *textSource) scanBare() string {
	start := s.pos
	for s.pos < len(s.buf) && !isDelimiter(s.buf[s.pos]) {
		s.pos++
	}
	return string(s.buf[start:s.pos])
}

// scanQuoted reads a quoted string. Only \" and \\ are escapes; any other
// backslash is kept verbatim.
func (s *textSource) scanQuoted() (string, error) {
	s.pos++ // opening quote
	start := s.pos
	var out []byte
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		switch c {
		case '"':
			var text string
			if out == nil {
				text = string(s.buf[start:s.pos])
			} else {
				text = string(out)
			}
			s.pos++
			return text, nil
		case '\\':
			if out == nil {
				out = append([]byte{}, s.buf[start:s.pos]...)
			}
			if s.pos+1 < len(s.buf) && (s.buf[s.pos+1] == '"' || s.buf[s.pos+1] == '\\') {
				out = append(out, s.buf[s.pos+1])
				s.pos += 2
				continue
			}
			out = append(out, c)
			s.pos++
		default:
			if out != nil {
				out = append(out, c)
			}
			s.pos++
		}
	}
	return "", &eng.SyntaxError{Offset: int64(start - 1), Msg: "unterminated quoted string"}
}
