// Package dsl declares record descriptors and binds them to Go structs.
//
// Overview
//   - Builder API: Record(name).Field(key, hint) followed by Optional(),
//     Required(), Duplicated() or Keyed(keyHint). Alias(...) adds wire keys.
//   - Hints: Int(), Uint(), Float(), Reencoded(), String(), Bool(), Date(),
//     RecordOf(desc) and ListOf(elem).
//   - Binding: Bind[T](desc, transforms) freezes the descriptor, matches its
//     fields to the `ck` tags of T and returns a clausewitz.Schema[T].
//
// Go field shapes
//   - Optional: *V (nil when absent) or V (zero when absent).
//   - Required: V or *V.
//   - Duplicated: []V, one element per occurrence in input order.
//   - Keyed: map[K]V, K decoded with the key hint.
//   - RecordOf values bind to structs, ListOf values to slices.
//
// Decoding rules
//   - Fields are visited in descriptor order; unknown keys are ignored.
//   - A repeated key on an Optional, Required or Keyed field keeps the last
//     occurrence. Strictness.OnDuplicateKey decides whether this is silent,
//     logged, or reported as duplicate_key.
//   - Field problems are collected and decoding continues with the next
//     field (unless FailFast). An element of a Duplicated, Keyed or list
//     value that fails is dropped; its siblings are kept.
//   - Keyed entries whose value is the bare token none are skipped.
//   - depth_exceeded and canceled abort the whole decode.
//
// Example
//
//	type Modifier struct {
//	    Name string    `ck:"modifier"`
//	    Days *int      `ck:"days"`
//	}
//
//	mod := dsl.Record("Modifier").
//	    Field("modifier", dsl.String()).Required().
//	    Field("days", dsl.Int()).Optional()
//	s := dsl.MustBind[Modifier](mod.Descriptor(), nil)
//	v, err := clausewitz.DecodeFrom(ctx, s, clausewitz.TextBytes(data))
package dsl
