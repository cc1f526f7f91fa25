package codec

import (
	"errors"
	"testing"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/tree"
)

func issueCode(t *testing.T, err error) string {
	t.Helper()
	iss, ok := cw.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss[0].Code
}

func TestInt(t *testing.T) {
	v, err := Int(tree.Scalar("-42"))
	if err != nil || v != -42 {
		t.Fatalf("Int(-42) = %d, %v", v, err)
	}
	if _, err := Int(tree.Scalar("4.2")); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for 4.2")
	}
	if _, err := Int(tree.Object()); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for object")
	}
}

func TestUint_RejectsNegative(t *testing.T) {
	if v, err := Uint(tree.Scalar("16777216")); err != nil || v != 16777216 {
		t.Fatalf("Uint = %d, %v", v, err)
	}
	if _, err := Uint(tree.Scalar("-1")); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for -1")
	}
}

func TestFloat(t *testing.T) {
	v, err := Float(tree.Scalar("1500"))
	if err != nil || v != 1500 {
		t.Fatalf("Float = %v, %v", v, err)
	}
	for _, bad := range []string{"abc", "NaN", "inf", ""} {
		if _, err := Float(tree.Scalar(bad)); issueCode(t, err) != cw.CodeTypeMismatch {
			t.Fatalf("expected type_mismatch for %q", bad)
		}
	}
}

func TestReencode(t *testing.T) {
	v, err := Reencode(tree.Scalar("1500"), Scale(100))
	if err != nil || v != 15.0 {
		t.Fatalf("Reencode = %v, %v", v, err)
	}
	bounded := Bounded(Scale(100), 0, 1000)
	_, err = Reencode(tree.Scalar("1500"), bounded)
	if issueCode(t, err) != cw.CodeTransformError {
		t.Fatalf("expected transform_error")
	}
	iss, _ := cw.AsIssues(err)
	var re *RangeError
	if !errors.As(iss[0].Cause, &re) {
		t.Fatalf("expected RangeError cause, got %v", iss[0].Cause)
	}
	// a non-numeric token fails before the transform runs
	if _, err := Reencode(tree.Scalar("x"), Scale(100)); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch")
	}
}

func TestBool(t *testing.T) {
	if v, err := Bool(tree.Scalar("yes")); err != nil || !v {
		t.Fatalf("yes -> %v, %v", v, err)
	}
	if v, err := Bool(tree.Scalar("no")); err != nil || v {
		t.Fatalf("no -> %v, %v", v, err)
	}
	if _, err := Bool(tree.Scalar("maybe")); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch")
	}
}

func TestString(t *testing.T) {
	if v, err := String(tree.Quoted("Jarl Ragnar")); err != nil || v != "Jarl Ragnar" {
		t.Fatalf("String = %q, %v", v, err)
	}
	if v, err := String(tree.Scalar("bare_word")); err != nil || v != "bare_word" {
		t.Fatalf("String = %q, %v", v, err)
	}
	if _, err := String(tree.Array()); issueCode(t, err) != cw.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch")
	}
}

func TestDate(t *testing.T) {
	d, err := Date(tree.Scalar("1066.9.15"), cw.EraNative)
	if err != nil {
		t.Fatalf("date err: %v", err)
	}
	if d != (cw.Date{Year: 1066, Month: 9, Day: 15}) {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"1066.9", "1066.9.15.1", "1066.13.1", "1066.2.29", "1066.0.1", "a.b.c"} {
		if _, err := Date(tree.Scalar(bad), cw.EraNative); issueCode(t, err) != cw.CodeMalformedDate {
			t.Fatalf("expected malformed_date for %q", bad)
		}
	}
}

func TestUnreencode_NoInverse(t *testing.T) {
	tr := Func("opaque", func(v float64) (float64, error) { return v, nil })
	if _, err := Unreencode(1, tr); issueCode(t, err) != cw.CodeTransformError {
		t.Fatalf("expected transform_error")
	}
	n, err := Unreencode(15, Scale(100))
	if err != nil || n.Text != "1500" {
		t.Fatalf("Unreencode = %+v, %v", n, err)
	}
}
