// Package clausewitz decodes Clausewitz/Jomini save text into typed Go values.
//
// A decode runs in two stages:
//
//   - A Source (save text or a JSON export) is turned into an untyped token
//     tree. Object keys may repeat and keep their input order. MaxDepth and
//     MaxBytes are enforced while tokens stream, before anything is built.
//   - A Schema binds the tree to T using a frozen RecordDescriptor: an
//     ordered field list where each field has a cardinality (Optional,
//     Required, Duplicated, Keyed) and a value hint.
//
// Field problems (missing_field, type_mismatch, malformed_date,
// transform_error, duplicate_key) are collected as Issues next to the
// partially decoded value. Structural problems (depth_exceeded,
// unknown_top_level_shape, parse_error, truncated, canceled) abort and
// return the zero value.
//
// Layout:
//   - tree holds the token tree and its canonical text encoder.
//   - codec holds scalar decoders and reencoding transforms.
//   - dsl builds descriptors and binds them to Go structs.
//   - ck3 is the Crusader Kings III save schema.
//
// Typical usage:
//
//	var s clausewitz.Schema[ck3.Gamestate] = ck3.Default()
//	g, err := clausewitz.DecodeFrom(ctx, s, clausewitz.TextBytes(data), clausewitz.DecodeOpt{Workers: 8})
//	if iss, ok := clausewitz.AsIssues(err); ok && !iss.Structural() {
//		// g is usable; iss lists the fields that were dropped
//	}
package clausewitz
