package dsl

import (
	cw "github.com/reoring/clausewitz"
)

// Record starts a record descriptor named name. The name is also the
// record half of field identities ("Record.field") used for transforms.
func Record(name string) *recordBuilder {
	return &recordBuilder{desc: &cw.RecordDescriptor{Name: name}}
}

type recordBuilder struct {
	desc *cw.RecordDescriptor
}

// fieldStep selects the cardinality of the field just added.
type fieldStep struct {
	rb  *recordBuilder
	idx int
}

// Field appends a field with the given wire key and value type. Without a
// cardinality call the field is Optional.
func (rb *recordBuilder) Field(name string, vt cw.ValueType) *fieldStep {
	rb.desc.Fields = append(rb.desc.Fields, cw.FieldDescriptor{Name: name, Cardinality: cw.Optional, Value: vt})
	return &fieldStep{rb: rb, idx: len(rb.desc.Fields) - 1}
}

// Descriptor returns the descriptor under construction. The pointer is
// stable, so it can be passed to RecordOf before the record is complete
// (recursive records).
func (rb *recordBuilder) Descriptor() *cw.RecordDescriptor { return rb.desc }

// Build freezes the descriptor with reg.
func (rb *recordBuilder) Build(reg cw.Transforms) (*cw.RecordDescriptor, error) {
	if err := rb.desc.Freeze(reg); err != nil {
		return nil, err
	}
	return rb.desc, nil
}

// MustBuild is like Build but panics on error.
func (rb *recordBuilder) MustBuild(reg cw.Transforms) *cw.RecordDescriptor {
	d, err := rb.Build(reg)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fieldStep) field() *cw.FieldDescriptor { return &f.rb.desc.Fields[f.idx] }

// Alias adds extra wire keys mapping to the same field.
func (f *fieldStep) Alias(keys ...string) *fieldStep {
	fd := f.field()
	fd.Aliases = append(fd.Aliases, keys...)
	return f
}

// Optional marks the field optional and returns the builder.
func (f *fieldStep) Optional() *recordBuilder { return f.set(cw.Optional) }

// Required marks the field required and returns the builder.
func (f *fieldStep) Required() *recordBuilder { return f.set(cw.Required) }

// Duplicated aggregates every occurrence of the key.
func (f *fieldStep) Duplicated() *recordBuilder { return f.set(cw.Duplicated) }

// Keyed decodes the field's object as a map whose keys use keyHint.
func (f *fieldStep) Keyed(keyHint cw.ValueType) *recordBuilder {
	f.field().Key = keyHint.Hint
	return f.set(cw.Keyed)
}

// Field lets an Optional field be followed directly by the next one.
func (f *fieldStep) Field(name string, vt cw.ValueType) *fieldStep { return f.rb.Field(name, vt) }

// Descriptor forwards to the builder.
func (f *fieldStep) Descriptor() *cw.RecordDescriptor { return f.rb.desc }

func (f *fieldStep) set(c cw.Cardinality) *recordBuilder {
	f.field().Cardinality = c
	return f.rb
}
