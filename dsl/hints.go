package dsl

import (
	cw "github.com/reoring/clausewitz"
)

// Int decodes a signed integer.
func Int() cw.ValueType { return cw.ValueType{Hint: cw.HintInt} }

// Uint decodes an unsigned integer.
func Uint() cw.ValueType { return cw.ValueType{Hint: cw.HintUint} }

// Float decodes a decimal number.
func Float() cw.ValueType { return cw.ValueType{Hint: cw.HintFloat} }

// Reencoded decodes a decimal number and applies the transform registered
// for the field identity.
func Reencoded() cw.ValueType { return cw.ValueType{Hint: cw.HintReencoded} }

// String decodes quoted or bare text.
func String() cw.ValueType { return cw.ValueType{Hint: cw.HintString} }

// Bool decodes yes/no.
func Bool() cw.ValueType { return cw.ValueType{Hint: cw.HintBool} }

// Date decodes a Y.M.D date in the decoder's era.
func Date() cw.ValueType { return cw.ValueType{Hint: cw.HintDate} }

// RecordOf decodes a nested record.
func RecordOf(d *cw.RecordDescriptor) cw.ValueType {
	return cw.ValueType{Hint: cw.HintRecord, Record: d}
}

// ListOf decodes a brace-delimited list of elem values.
func ListOf(elem cw.ValueType) cw.ValueType {
	e := elem
	return cw.ValueType{Hint: cw.HintList, Elem: &e}
}
