// Package stream narrows a token source to part of a document without
// building the rest of the tree.
package stream

import (
	"errors"
	"io"

	eng "github.com/reoring/clausewitz/internal/engine"
)

type phase int

const (
	phaseSeek phase = iota
	phaseValue
	phaseDone
)

// SectionSource exposes only the first top-level pair named key, wrapped in
// a one-pair root object. Pairs before it are skipped without being
// materialized and nothing after it is read. When the key is absent the
// section is an empty object.
type SectionSource struct {
	inner    eng.TokenSource
	key      string
	phase    phase
	rootSeen bool
	depth    int
	pending  []eng.Token
}

// NewSectionSource returns a source over the key section of inner.
func NewSectionSource(inner eng.TokenSource, key string) *SectionSource {
	return &SectionSource{inner: inner, key: key}
}

func isOpen(k eng.Kind) bool {
	return k == eng.KindOpen || k == eng.KindBeginObject || k == eng.KindBeginArray
}

func (s *SectionSource) NextToken() (eng.Token, error) {
	if len(s.pending) > 0 {
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok, nil
	}
	switch s.phase {
	case phaseSeek:
		return s.seek()
	case phaseValue:
		return s.value()
	}
	return eng.Token{}, io.EOF
}

func (s *SectionSource) seek() (eng.Token, error) {
	for {
		tok, err := s.inner.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) && s.rootSeen {
				return eng.Token{}, io.ErrUnexpectedEOF
			}
			return eng.Token{}, err
		}
		if !s.rootSeen {
			if tok.Kind != eng.KindOpen && tok.Kind != eng.KindBeginObject {
				return eng.Token{}, &eng.SyntaxError{Offset: tok.Offset, Msg: "section lookup needs an object root"}
			}
			s.rootSeen = true
			continue
		}
		switch tok.Kind {
		case eng.KindKey:
			if tok.Text == s.key {
				s.phase = phaseValue
				s.pending = append(s.pending, tok)
				return eng.Token{Kind: eng.KindBeginObject, Offset: tok.Offset}, nil
			}
			if err := s.skipValue(); err != nil {
				return eng.Token{}, err
			}
		case eng.KindClose:
			s.phase = phaseDone
			s.pending = append(s.pending, eng.Token{Kind: eng.KindClose, Offset: tok.Offset})
			return eng.Token{Kind: eng.KindBeginObject, Offset: tok.Offset}, nil
		default:
			return eng.Token{}, &eng.SyntaxError{Offset: tok.Offset, Msg: "expected key in object, got " + tok.Kind.String()}
		}
	}
}

// value forwards the selected value and closes the synthetic root after it.
func (s *SectionSource) value() (eng.Token, error) {
	tok, err := s.inner.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.ErrUnexpectedEOF
		}
		return eng.Token{}, err
	}
	switch {
	case isOpen(tok.Kind):
		s.depth++
	case tok.Kind == eng.KindClose:
		s.depth--
	case tok.Kind == eng.KindKey:
		return tok, nil
	}
	if s.depth == 0 {
		s.phase = phaseDone
		s.pending = append(s.pending, eng.Token{Kind: eng.KindClose, Offset: s.inner.Location()})
	}
	return tok, nil
}

// skipValue consumes one complete value from inner.
func (s *SectionSource) skipValue() error {
	depth := 0
	for {
		tok, err := s.inner.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch {
		case isOpen(tok.Kind):
			depth++
		case tok.Kind == eng.KindClose:
			depth--
		case tok.Kind == eng.KindKey:
			continue
		}
		if depth == 0 {
			return nil
		}
	}
}

func (s *SectionSource) Location() int64 { return s.inner.Location() }
