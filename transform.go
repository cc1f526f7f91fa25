package clausewitz

import (
	"errors"
	"maps"
)

// Transform is a field-specific numeric reencoding applied after a float
// is parsed. Decode maps the raw decimal to the domain value; Encode is its
// inverse and may be nil when the field is never written back.
type Transform struct {
	Name   string
	Decode func(raw float64) (float64, error)
	Encode func(v float64) (float64, error)
}

// ErrNoInverse is returned when encoding through a Transform without Encode.
var ErrNoInverse = errors.New("clausewitz: transform has no inverse")

// Apply runs the forward transform.
func (t Transform) Apply(raw float64) (float64, error) { return t.Decode(raw) }

// Invert runs the inverse transform.
func (t Transform) Invert(v float64) (float64, error) {
	if t.Encode == nil {
		return 0, ErrNoInverse
	}
	return t.Encode(v)
}

// Transforms maps a field identity ("Record.field") to its Transform. It is
// supplied alongside the schema when descriptors are frozen.
type Transforms map[string]Transform

// With returns a copy of ts with identity bound to t.
func (ts Transforms) With(identity string, t Transform) Transforms {
	out := make(Transforms, len(ts)+1)
	maps.Copy(out, ts)
	out[identity] = t
	return out
}
