// Package codec holds the value decoders: small pure functions turning one
// token tree node into a typed scalar, and their inverses used for encoding.
package codec

import (
	"math"
	"strconv"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/tree"
)

func mismatch(expected string, n tree.Node) cw.Issues {
	got := n.Text
	if n.Kind != tree.KindScalar {
		got = n.Kind.String()
	}
	it := cw.NewIssue(cw.CodeTypeMismatch, expected, got)
	it.Offset = n.Offset
	return cw.Issues{it}
}

func scalarText(expected string, n tree.Node) (string, error) {
	if n.Kind != tree.KindScalar {
		return "", mismatch(expected, n)
	}
	return n.Text, nil
}

// Int decodes a signed integer.
func Int(n tree.Node) (int64, error) {
	s, err := scalarText("int", n)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		iss := mismatch("int", n)
		iss[0].Cause = perr
		return 0, iss
	}
	return v, nil
}

// Uint decodes an unsigned integer such as an entity id.
func Uint(n tree.Node) (uint64, error) {
	s, err := scalarText("uint", n)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseUint(s, 10, 64)
	if perr != nil {
		iss := mismatch("uint", n)
		iss[0].Cause = perr
		return 0, iss
	}
	return v, nil
}

// Float decodes a finite decimal number.
func Float(n tree.Node) (float64, error) {
	s, err := scalarText("float", n)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(s, 64)
	if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		iss := mismatch("float", n)
		iss[0].Cause = perr
		return 0, iss
	}
	return v, nil
}

// Reencode decodes a float and applies the field's transform.
func Reencode(n tree.Node, t cw.Transform) (float64, error) {
	raw, err := Float(n)
	if err != nil {
		return 0, err
	}
	v, terr := t.Apply(raw)
	if terr != nil {
		it := cw.NewIssue(cw.CodeTransformError, t.Name, n.Text)
		it.Cause = terr
		it.Offset = n.Offset
		return 0, cw.Issues{it}
	}
	return v, nil
}

// Bool decodes the canonical yes/no tokens.
func Bool(n tree.Node) (bool, error) {
	s, err := scalarText("yes|no", n)
	if err != nil {
		return false, err
	}
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, mismatch("yes|no", n)
}

// String returns quoted or bare text verbatim.
func String(n tree.Node) (string, error) { return scalarText("string", n) }

// Date decodes a Y.M.D token written in era.
func Date(n tree.Node, era cw.Era) (cw.Date, error) {
	s, err := scalarText("date", n)
	if err != nil {
		return cw.Date{}, err
	}
	d, derr := cw.ParseDate(s, era)
	if derr != nil {
		it := cw.NewIssue(cw.CodeMalformedDate, "Y.M.D", s)
		it.Cause = derr
		it.Offset = n.Offset
		return cw.Date{}, cw.Issues{it}
	}
	return d, nil
}

// ---- encoders ----

// FormatInt renders an integer token.
func FormatInt(v int64) tree.Node { return tree.Scalar(strconv.FormatInt(v, 10)) }

// FormatUint renders an unsigned integer token.
func FormatUint(v uint64) tree.Node { return tree.Scalar(strconv.FormatUint(v, 10)) }

// FormatFloat renders a float token with the shortest exact representation.
func FormatFloat(v float64) tree.Node { return tree.Scalar(strconv.FormatFloat(v, 'f', -1, 64)) }

// FormatBool renders yes/no.
func FormatBool(v bool) tree.Node {
	if v {
		return tree.Scalar("yes")
	}
	return tree.Scalar("no")
}

// FormatString renders a quoted string token.
func FormatString(v string) tree.Node { return tree.Quoted(v) }

// FormatDate renders a date token in era.
func FormatDate(d cw.Date, era cw.Era) tree.Node { return tree.Scalar(d.Format(era)) }

// Unreencode inverts t and renders the raw float token.
func Unreencode(v float64, t cw.Transform) (tree.Node, error) {
	raw, err := t.Invert(v)
	if err != nil {
		it := cw.NewIssue(cw.CodeTransformError, t.Name, strconv.FormatFloat(v, 'f', -1, 64))
		it.Cause = err
		return tree.Node{}, cw.Issues{it}
	}
	return FormatFloat(raw), nil
}
