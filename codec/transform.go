package codec

import (
	"fmt"
	"math"
	"strconv"

	cw "github.com/reoring/clausewitz"
)

// Identity returns a Transform that leaves values untouched.
func Identity() cw.Transform {
	id := func(v float64) (float64, error) { return v, nil }
	return cw.Transform{Name: "identity", Decode: id, Encode: id}
}

// Scale returns a Transform dividing the raw value by divisor, the shape of
// fixed-point reencodings. divisor must be finite and non-zero.
func Scale(divisor float64) cw.Transform {
	if divisor == 0 || math.IsNaN(divisor) || math.IsInf(divisor, 0) {
		panic(fmt.Sprintf("codec.Scale: invalid divisor %v", divisor))
	}
	return cw.Transform{
		Name:   "scale/" + strconv.FormatFloat(divisor, 'g', -1, 64),
		Decode: func(v float64) (float64, error) { return v / divisor, nil },
		Encode: func(v float64) (float64, error) { return v * divisor, nil },
	}
}

// RangeError reports a value outside a Transform's representable range.
type RangeError struct {
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v outside [%v, %v]", e.Value, e.Min, e.Max)
}

// Bounded wraps t so that raw inputs outside [min, max] are rejected.
func Bounded(t cw.Transform, min, max float64) cw.Transform {
	inner := t.Decode
	out := t
	out.Name = t.Name + fmt.Sprintf("[%v,%v]", min, max)
	out.Decode = func(v float64) (float64, error) {
		if v < min || v > max {
			return 0, &RangeError{Value: v, Min: min, Max: max}
		}
		return inner(v)
	}
	return out
}

// Func adapts a plain function into a Transform without an inverse.
func Func(name string, fn func(float64) (float64, error)) cw.Transform {
	return cw.Transform{Name: name, Decode: fn}
}
